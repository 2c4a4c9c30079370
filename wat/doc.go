// Package wat assembles the WebAssembly text format produced by the
// compiler's text backend.
//
// The output goes through the same encoder as the binary backend, so for
// any compiled program the assembled text and the emitted binary are
// byte-identical:
//
//	bin, err := wat.Compile(`(module
//	  (func $main (result i32)
//	    i32.const 42
//	    return
//	  )
//	  (export "main" (func $main))
//	)`)
//
// Supported subset:
//   - func with $name, param, result and local declarations, inline export
//   - export of functions by name or index
//   - i32.const, local.get/set/tee, call, return, drop, br, br_if
//   - i32 arithmetic and signed comparisons
//   - block, loop and if, both folded and flat, with optional labels and
//     a single-result block type
//   - folded operands: (i32.add (local.get 0) (i32.const 1))
//   - comments: line (;;) and block (; ;)
//
// Each function gets its own type entry in declaration order. Memory,
// tables, globals, imports and other value types are not supported.
package wat
