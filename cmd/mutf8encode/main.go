// Command mutf8encode converts text in the character encoding of the current
// locale to MUTF-8.
//
// Usage:
//
//	mutf8encode [-i file] [-o file] [-charset name] [-v]
//
// The text is read from standard input and the MUTF-8 written to standard
// output unless -i or -o is given. The exit status is 1 if UTF-8 input is
// not valid or ends inside a character.
package main

import (
	"github.com/pchchv/mutf8/internal/cli"
	"github.com/pchchv/mutf8/internal/filter"
)

func main() {
	cli.Main("mutf8encode", filter.Encode)
}
