// Package engine checks compiled modules against a real WebAssembly
// runtime.
//
// It wraps wazero to validate binaries without instantiating them and to
// report the functions a module exports:
//
//	if err := engine.Validate(ctx, bin); err != nil {
//		// the runtime rejected the module
//	}
//	exports, err := engine.Exports(ctx, bin)
//
// A WazeroEngine holds one wazero runtime and can check many modules; the
// package-level functions create and close a runtime per call.
package engine
