// Package errors provides structured error types for the wasmc compiler.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The three phases form the compiler's error taxonomy:
//
//	PhaseLex       LexicalError   unrecognized character, literal overflow
//	PhaseParse     SyntaxError    token mismatch, malformed parameters, bad assignment target
//	PhaseSemantic  SemanticError  undefined variable or function, missing main
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindUnexpectedToken).
//		At(3, 14).
//		Detail("expected %s, got %s", "';'", "'}'").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UndefinedVariable("main", "x")
//	err := errors.MissingMain()
//
// Every error is fatal: compilation stops at the first one. Match a whole
// phase with the sentinels, or a specific kind with a Kind-carrying target:
//
//	if errors.Is(err, errors.Syntax) { ... }
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseSemantic, Kind: errors.KindMissingMain}) { ... }
package errors
