package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasmc"
	"github.com/wippyai/wasmc/ast"
	"github.com/wippyai/wasmc/engine"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errBinaryToTerminal = errors.New("refusing to write binary module to a terminal")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type config struct {
	source      string
	inputFile   string
	binaryOut   string
	textOut     string
	validate    bool
	verbose     bool
	interactive bool
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("wasmc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: wasmc [flags] <file.c>")
		fmt.Fprintln(stderr, "       wasmc [flags] -e '<source>'")
		fmt.Fprintln(stderr, "       wasmc -i [file.c]  (interactive mode)")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	cfg := &config{}
	fs.StringVar(&cfg.source, "e", "", "Compile source given on the command line")
	fs.StringVar(&cfg.binaryOut, "o", "", "Write the binary module to `path` (- for stdout)")
	fs.StringVar(&cfg.textOut, "t", "", "Write the text module to `path` (- for stdout, default when -o is unset)")
	fs.BoolVar(&cfg.validate, "validate", false, "Validate the binary with wazero and list its exports")
	fs.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&cfg.interactive, "i", false, "Interactive mode with TUI")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.inputFile = fs.Arg(0)
	default:
		fs.Usage()
		return nil, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}

	if cfg.interactive {
		return cfg, nil
	}
	if cfg.source != "" && cfg.inputFile != "" {
		fs.Usage()
		return nil, errors.New("-e and an input file are mutually exclusive")
	}
	if cfg.source == "" && cfg.inputFile == "" {
		fs.Usage()
		return nil, errors.New("no input")
	}
	if cfg.binaryOut == "" && cfg.textOut == "" {
		cfg.textOut = "-"
	}
	if cfg.binaryOut == "-" && cfg.textOut == "-" {
		return nil, errors.New("-o and -t cannot both write to stdout")
	}
	return cfg, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitUsage
	}

	log := zap.NewNop()
	if cfg.verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		defer log.Sync()
		ast.SetLogger(log.Named("ast"))
		engine.SetLogger(log.Named("engine"))
	}

	if cfg.interactive {
		if err := runInteractive(cfg.inputFile, cfg.source); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	if err := compile(context.Background(), cfg, log, stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

func compile(ctx context.Context, cfg *config, log *zap.Logger, stdin io.Reader, stdout, stderr io.Writer) error {
	src, err := readSource(cfg, stdin)
	if err != nil {
		return err
	}

	if cfg.binaryOut == "-" && isTerminal(stdout) {
		return errBinaryToTerminal
	}

	art, err := wasmc.Build(ctx, src, wasmc.WithLogger(log))
	if err != nil {
		return err
	}

	if cfg.validate {
		exports, err := engine.Exports(ctx, art.Binary)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		fmt.Fprintln(stderr, "module validated, exports:")
		for _, e := range exports {
			fmt.Fprintf(stderr, "  %s: %d params, %d results\n", e.Name, e.Params, e.Results)
		}
	}

	if cfg.binaryOut != "" {
		if err := writeOutput(cfg.binaryOut, art.Binary, stdout); err != nil {
			return fmt.Errorf("write binary: %w", err)
		}
	}
	if cfg.textOut != "" {
		if err := writeOutput(cfg.textOut, []byte(art.Text), stdout); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	return nil
}

func readSource(cfg *config, stdin io.Reader) (string, error) {
	switch {
	case cfg.source != "":
		return cfg.source, nil
	case cfg.inputFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(cfg.inputFile)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	}
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
