// Command mutf8decode converts MUTF-8 to text in the character encoding of
// the current locale.
//
// Usage:
//
//	mutf8decode [-i file] [-o file] [-charset name] [-v]
//
// The input is read from standard input and the text written to standard
// output unless -i or -o is given. The exit status is 1 if the input is not
// valid MUTF-8, contains an unpaired surrogate, ends inside a sequence, or
// holds characters the output charset cannot represent.
package main

import (
	"github.com/pchchv/mutf8/internal/cli"
	"github.com/pchchv/mutf8/internal/filter"
)

func main() {
	cli.Main("mutf8decode", filter.Decode)
}
