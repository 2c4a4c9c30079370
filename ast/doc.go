// Package ast defines the syntax tree of the source language and lowers it
// to both output forms.
//
// The node set is closed: Number, Variable, Assign, BinaryOp, Block, If,
// While, For, Return and Call. Every node writes itself as text through a
// TextWriter and as instruction bytes through an Emitter, and lists its
// children for generic walks.
//
// Every node leaves exactly one i32 on the stack. Statements inside a Block
// are followed by drop, and a Block pushes a trailing zero, which also
// serves as the implicit result of a function that falls off its end.
//
// Function and Module are containers. NewFunction discovers and freezes
// the local slot table before any code is emitted:
//
//	fn, err := ast.NewFunction("main", nil, body)
//	m := ast.NewModule()
//	if err := m.AddFunction(fn); err != nil { ... }
//	bin, err := m.Binary()
//	text, err := m.Text()
//
// If, While and For carry IDs drawn from an IDAllocator. IDs name the text
// labels ($ifN, $blockN, $loopN) and are never reused within an allocator.
package ast
