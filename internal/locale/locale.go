// Package locale selects the character encoding of the platform's text,
// the multibyte encoding of the C locale, from the environment or by name.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnsupported is returned for a known charset
// that has no encoding implementation.
var ErrUnsupported = errors.New("locale: unsupported charset")

// Variables consulted, in order, for the locale of character classification.
var envVars = []string{"LC_ALL", "LC_CTYPE", "LANG"}

// Codeset returns the codeset part of a locale name of the form
// language[_territory][.codeset][@modifier], or "" if there is none.
func Codeset(name string) string {
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}

	i := strings.IndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// Lookup returns the encoding of the named charset. IANA names and aliases
// are tried first, then the labels of the WHATWG Encoding Standard, which
// include the spellings used in locale names such as "utf8".
func Lookup(charset string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		enc, err = htmlindex.Get(charset)
		if err != nil {
			return nil, fmt.Errorf("locale.Lookup: unknown charset %q", charset)
		}
	}

	if enc == nil {
		return nil, fmt.Errorf("locale.Lookup: %q: %w", charset, ErrUnsupported)
	}
	return enc, nil
}

// FromEnv returns the encoding of the locale selected by the environment,
// using getenv to read LC_ALL, LC_CTYPE and LANG in that order of
// precedence, together with the charset name it was resolved from.
//
// The C and POSIX locales, an unset locale and a locale without a codeset
// resolve to UTF-8.
func FromEnv(getenv func(string) string) (encoding.Encoding, string, error) {
	var name string
	for _, v := range envVars {
		if name = getenv(v); name != "" {
			break
		}
	}

	charset := Codeset(name)
	if charset == "" {
		return unicode.UTF8, "UTF-8", nil
	}

	enc, err := Lookup(charset)
	if err != nil {
		return nil, charset, err
	}
	return enc, charset, nil
}
