// Package cli implements the shared parts of the mutf8decode and mutf8encode
// command line tools.
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pchchv/mutf8/internal/locale"
	"github.com/pchchv/mutf8/stream"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/encoding"
)

// Filter converts the stream read from r into w, using enc as the platform
// character encoding.
type Filter func(r io.Reader, w io.Writer, enc encoding.Encoding) error

// Options are the command line options shared by the tools.
type Options struct {
	In      string // input file, standard input if empty or "-"
	Out     string // output file, standard output if empty or "-"
	Charset string // platform charset, taken from the locale if empty
	Verbose bool
}

// ParseFlags parses the command line arguments args into Options.
func ParseFlags(name string, args []string) (*Options, error) {
	var opts Options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.In, "i", "", "input file (default standard input)")
	fs.StringVar(&opts.Out, "o", "", "output file (default standard output)")
	fs.StringVar(&opts.Charset, "charset", "", "character encoding of the text (default from LC_ALL, LC_CTYPE or LANG)")
	fs.BoolVar(&opts.Verbose, "v", false, "log debug messages")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%s: unexpected arguments %q", name, fs.Args())
	}
	return &opts, nil
}

// NewLogger returns the logger of a tool, logging to standard error at info
// level, or at debug level if verbose is set.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// Encoding resolves the charset option, falling back to the locale of the
// environment.
func (o *Options) Encoding(log *zap.Logger) (encoding.Encoding, error) {
	if o.Charset != "" {
		return locale.Lookup(o.Charset)
	}

	enc, charset, err := locale.FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	log.Debug("charset from locale", zap.String("charset", charset))
	return enc, nil
}

// Run applies f to the input and output named by o.
func Run(o *Options, f Filter, log *zap.Logger) (err error) {
	stream.SetLogger(log)

	enc, err := o.Encoding(log)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if o.In != "" && o.In != "-" {
		file, err := os.Open(o.In)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	out := os.Stdout
	if o.Out != "" && o.Out != "-" {
		file, err := os.Create(o.Out)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		out = file
	}

	bw := bufio.NewWriter(out)
	log.Debug("converting", zap.String("in", o.In), zap.String("out", o.Out))
	if err := f(in, bw, enc); err != nil {
		bw.Flush()
		return err
	}
	return bw.Flush()
}

// Main runs the tool name with f as its filter, and exits with status 1 on
// failure.
func Main(name string, f Filter) {
	opts, err := ParseFlags(name, os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(2)
	}

	log, err := NewLogger(opts.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
	log = log.Named(name)

	if err := Run(opts, f, log); err != nil {
		log.Error("conversion failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}
