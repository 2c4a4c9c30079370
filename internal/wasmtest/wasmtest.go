// Package wasmtest runs compiled modules in wazero for tests.
package wasmtest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Entry is the export every compiled module provides.
const Entry = "main"

// Timeout bounds a single call so a runaway loop fails the test instead
// of hanging it.
const Timeout = 5 * time.Second

// ErrNoEntry is returned when the module does not export main.
var ErrNoEntry = errors.New("module does not export main")

// Run instantiates bin in a fresh interpreter runtime and calls main.
func Run(ctx context.Context, bin []byte, args ...int32) (int32, error) {
	cfg := wazero.NewRuntimeConfigInterpreter().WithCloseOnContextDone(true)
	r := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, bin)
	if err != nil {
		return 0, fmt.Errorf("compile failed: %w", err)
	}
	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return 0, fmt.Errorf("instantiate failed: %w", err)
	}
	defer mod.Close(ctx)

	fn := mod.ExportedFunction(Entry)
	if fn == nil {
		return 0, ErrNoEntry
	}
	params := make([]uint64, len(args))
	for i, a := range args {
		params[i] = api.EncodeI32(a)
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return 0, fmt.Errorf("call %s: %w", Entry, err)
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("call %s: expected 1 result, got %d", Entry, len(results))
	}
	return api.DecodeI32(results[0]), nil
}

// Call runs bin under Timeout and fails t on any error.
func Call(t testing.TB, bin []byte, args ...int32) int32 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	v, err := Run(ctx, bin, args...)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return v
}
