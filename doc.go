// Package wasmc compiles a small C-like language to WebAssembly.
//
// A program is a list of functions over i32 values with assignment,
// arithmetic, comparisons, if/else, while, for, return and calls. Every
// compilation produces a text module and the bit-exact binary encoding
// from the same syntax tree.
//
// # Architecture Overview
//
//	wasmc/              Compile, CompileText, CompileBinary and options
//	├── token/          Lazy tokenizer with source positions
//	├── parser/         Recursive-descent parser producing an ast.Module
//	├── ast/            Node set, locals allocation, text and binary codegen
//	├── wasm/           LEB128, opcodes, binary module encode and decode
//	├── wat/            Assembler for the emitted text form
//	├── engine/         wazero-backed validation of produced binaries
//	├── errors/         Structured lex, parse and semantic errors
//	└── cmd/wasmc/      Command-line driver and interactive playground
//
// # Quick Start
//
//	src := `
//	fib(n) {
//		if (n < 2) return n;
//		return fib(n - 1) + fib(n - 2);
//	}
//	main() { return fib(10); }
//	`
//
//	bin, err := wasmc.CompileBinary(ctx, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := wasmc.CompileText(ctx, src)
//
// Both forms export a single function named main. A program without main
// fails to compile.
//
// # Errors
//
// Compilation stops at the first error. Errors are *errors.Error values
// tagged with a phase:
//
//	_, err := wasmc.CompileBinary(ctx, "main() { return x; }")
//	errors.Is(err, errors.Semantic) // true: x is never assigned
//
// # Logging
//
// Phase boundaries are logged at debug level through zap. Pass a logger
// per call with WithLogger or install one package-wide with SetLogger.
package wasmc
