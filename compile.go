package wasmc

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/wasmc/ast"
	"github.com/wippyai/wasmc/parser"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	logger *zap.Logger
	ids    *ast.IDAllocator
}

// WithLogger logs this compilation to l instead of the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithIDAllocator draws label IDs from ids. By default every compilation
// uses a fresh allocator so identical sources give identical output.
func WithIDAllocator(ids *ast.IDAllocator) Option {
	return func(o *options) {
		o.ids = ids
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	if o.ids == nil {
		o.ids = ast.NewIDAllocator()
	}
	return o
}

// Compile parses src into a module ready for either output form.
func Compile(ctx context.Context, src string, opts ...Option) (*ast.Module, error) {
	o := newOptions(opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	m, err := parser.Parse(src, parser.WithIDAllocator(o.ids))
	if err != nil {
		o.logger.Debug("parse failed", zap.Error(err))
		return nil, err
	}
	o.logger.Debug("parsed module",
		zap.Int("functions", len(m.Functions())),
		zap.Int("source_bytes", len(src)),
		zap.Duration("elapsed", time.Since(start)))
	return m, ctx.Err()
}

// CompileBinary compiles src to the binary module encoding.
func CompileBinary(ctx context.Context, src string, opts ...Option) ([]byte, error) {
	m, err := Compile(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	bin, err := m.Binary()
	if err != nil {
		return nil, err
	}
	newOptions(opts).logger.Debug("encoded binary", zap.Int("bytes", len(bin)))
	return bin, nil
}

// CompileText compiles src to the text module form.
func CompileText(ctx context.Context, src string, opts ...Option) (string, error) {
	m, err := Compile(ctx, src, opts...)
	if err != nil {
		return "", err
	}
	text, err := m.Text()
	if err != nil {
		return "", err
	}
	newOptions(opts).logger.Debug("wrote text", zap.Int("bytes", len(text)))
	return text, nil
}

// Artifacts holds both output forms of one compilation.
type Artifacts struct {
	Module *ast.Module
	Text   string
	Binary []byte
}

// Build compiles src once and renders both forms from the same tree.
func Build(ctx context.Context, src string, opts ...Option) (*Artifacts, error) {
	m, err := Compile(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	text, bin, err := m.Emit()
	if err != nil {
		return nil, err
	}
	newOptions(opts).logger.Debug("encoded binary", zap.Int("bytes", len(bin)))
	newOptions(opts).logger.Debug("wrote text", zap.Int("bytes", len(text)))
	return &Artifacts{Module: m, Text: text, Binary: bin}, nil
}
