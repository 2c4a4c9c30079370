package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// WazeroEngine validates modules with a wazero runtime.
type WazeroEngine struct {
	runtime wazero.Runtime
}

// Config holds configuration for engine creation
type Config struct {
	// CoreFeatures limits the accepted WebAssembly features.
	// Zero means wazero's default (WebAssembly 2.0).
	CoreFeatures api.CoreFeatures

	// Interpreter forces the interpreter instead of the compiler backend.
	Interpreter bool
}

// Export describes one exported function.
type Export struct {
	Name    string
	Params  int
	Results int
}

// NewWazeroEngine creates a new wazero-based engine
func NewWazeroEngine(ctx context.Context) (*WazeroEngine, error) {
	return NewWazeroEngineWithConfig(ctx, nil)
}

// NewWazeroEngineWithConfig creates a new engine with custom configuration
func NewWazeroEngineWithConfig(ctx context.Context, cfg *Config) (*WazeroEngine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil {
		if cfg.Interpreter {
			runtimeCfg = wazero.NewRuntimeConfigInterpreter()
		}
		if cfg.CoreFeatures != 0 {
			runtimeCfg = runtimeCfg.WithCoreFeatures(cfg.CoreFeatures)
		}
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return &WazeroEngine{runtime: runtime}, nil
}

// Validate compiles bin without instantiating it.
func (e *WazeroEngine) Validate(ctx context.Context, bin []byte) error {
	compiled, err := e.compile(ctx, bin)
	if err != nil {
		return err
	}
	return compiled.Close(ctx)
}

// Exports returns the module's exported functions sorted by name.
func (e *WazeroEngine) Exports(ctx context.Context, bin []byte) ([]Export, error) {
	compiled, err := e.compile(ctx, bin)
	if err != nil {
		return nil, err
	}
	defer compiled.Close(ctx)

	defs := compiled.ExportedFunctions()
	exports := make([]Export, 0, len(defs))
	for name, def := range defs {
		exports = append(exports, Export{
			Name:    name,
			Params:  len(def.ParamTypes()),
			Results: len(def.ResultTypes()),
		})
	}
	sort.Slice(exports, func(i, j int) bool {
		return exports[i].Name < exports[j].Name
	})
	return exports, nil
}

func (e *WazeroEngine) compile(ctx context.Context, bin []byte) (wazero.CompiledModule, error) {
	compiled, err := e.runtime.CompileModule(ctx, bin)
	if err != nil {
		Logger().Debug("module rejected", zap.Int("bytes", len(bin)), zap.Error(err))
		return nil, fmt.Errorf("compile failed: %w", err)
	}
	Logger().Debug("module validated",
		zap.Int("bytes", len(bin)),
		zap.Int("exports", len(compiled.ExportedFunctions())))
	return compiled, nil
}

// Close releases the runtime.
func (e *WazeroEngine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Validate checks bin with a throwaway engine.
func Validate(ctx context.Context, bin []byte) error {
	e, err := NewWazeroEngine(ctx)
	if err != nil {
		return err
	}
	defer e.Close(ctx)
	return e.Validate(ctx, bin)
}

// Exports lists bin's exported functions with a throwaway engine.
func Exports(ctx context.Context, bin []byte) ([]Export, error) {
	e, err := NewWazeroEngine(ctx)
	if err != nil {
		return nil, err
	}
	defer e.Close(ctx)
	return e.Exports(ctx, bin)
}
