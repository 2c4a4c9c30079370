package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in compilation the error occurred
type Phase string

const (
	PhaseLex      Phase = "lex"      // tokenizing source text
	PhaseParse    Phase = "parse"    // building the AST
	PhaseSemantic Phase = "semantic" // name resolution, local allocation, assembly
)

// Kind categorizes the error
type Kind string

const (
	KindUnexpectedChar    Kind = "unexpected_char"
	KindOverflow          Kind = "overflow"
	KindUnexpectedToken   Kind = "unexpected_token"
	KindUnexpectedEOF     Kind = "unexpected_eof"
	KindInvalidTarget     Kind = "invalid_assign_target"
	KindUndefinedVariable Kind = "undefined_variable"
	KindUndefinedFunction Kind = "undefined_function"
	KindDuplicateFunction Kind = "duplicate_function"
	KindDuplicateParam    Kind = "duplicate_param"
	KindArityMismatch     Kind = "arity_mismatch"
	KindMissingMain       Kind = "missing_main"
	KindInvalidInput      Kind = "invalid_input"
)

// Sentinels matching every error of a phase through errors.Is.
var (
	Lexical  = &Error{Phase: PhaseLex}
	Syntax   = &Error{Phase: PhaseParse}
	Semantic = &Error{Phase: PhaseSemantic}
)

// Error is the structured error type used throughout the compiler
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Function string
	Detail   string
	Line     int
	Column   int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Line > 0 {
		fmt.Fprintf(&b, " at %d:%d", e.Line, e.Column)
	}

	if e.Function != "" {
		b.WriteString(" in function ")
		b.WriteString(e.Function)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Kind matches any error of the same phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Phase != t.Phase {
		return false
	}
	return t.Kind == "" || e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// At sets the 1-based source position
func (b *Builder) At(line, column int) *Builder {
	b.err.Line = line
	b.err.Column = column
	return b
}

// In sets the enclosing function name
func (b *Builder) In(function string) *Builder {
	b.err.Function = function
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnexpectedChar creates a lexical error for a character no token starts with
func UnexpectedChar(line, column int, c rune) *Error {
	return &Error{
		Phase:  PhaseLex,
		Kind:   KindUnexpectedChar,
		Line:   line,
		Column: column,
		Detail: fmt.Sprintf("unexpected character %q", c),
		Value:  c,
	}
}

// Overflow creates a lexical error for a literal outside the i32 range
func Overflow(line, column int, literal string) *Error {
	return &Error{
		Phase:  PhaseLex,
		Kind:   KindOverflow,
		Line:   line,
		Column: column,
		Detail: fmt.Sprintf("literal %s overflows i32", literal),
		Value:  literal,
	}
}

// UnexpectedToken creates a syntax error for a token the grammar does not allow here
func UnexpectedToken(line, column int, want, got string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnexpectedToken,
		Line:   line,
		Column: column,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
		Value:  got,
	}
}

// UnexpectedEOF creates a syntax error for input that ends mid-construct
func UnexpectedEOF(line, column int, want string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnexpectedEOF,
		Line:   line,
		Column: column,
		Detail: fmt.Sprintf("expected %s, got end of input", want),
	}
}

// InvalidTarget creates a syntax error for an assignment to a non-variable
func InvalidTarget(line, column int) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidTarget,
		Line:   line,
		Column: column,
		Detail: "left-hand side of assignment is not a variable",
	}
}

// UndefinedVariable creates a semantic error for a name with no local slot
func UndefinedVariable(function, name string) *Error {
	return &Error{
		Phase:    PhaseSemantic,
		Kind:     KindUndefinedVariable,
		Function: function,
		Detail:   fmt.Sprintf("variable %q is not defined", name),
		Value:    name,
	}
}

// UndefinedFunction creates a semantic error for a call to an unknown function
func UndefinedFunction(function, name string) *Error {
	return &Error{
		Phase:    PhaseSemantic,
		Kind:     KindUndefinedFunction,
		Function: function,
		Detail:   fmt.Sprintf("function %q is not defined", name),
		Value:    name,
	}
}

// DuplicateFunction creates a semantic error for a redeclared function
func DuplicateFunction(name string) *Error {
	return &Error{
		Phase:  PhaseSemantic,
		Kind:   KindDuplicateFunction,
		Detail: fmt.Sprintf("function %q is already defined", name),
		Value:  name,
	}
}

// DuplicateParam creates a semantic error for a repeated parameter name
func DuplicateParam(function, name string) *Error {
	return &Error{
		Phase:    PhaseSemantic,
		Kind:     KindDuplicateParam,
		Function: function,
		Detail:   fmt.Sprintf("parameter %q is declared twice", name),
		Value:    name,
	}
}

// ArityMismatch creates a semantic error for a call with the wrong argument count
func ArityMismatch(function, callee string, want, got int) *Error {
	return &Error{
		Phase:    PhaseSemantic,
		Kind:     KindArityMismatch,
		Function: function,
		Detail:   fmt.Sprintf("call to %q takes %d argument(s), got %d", callee, want, got),
		Value:    got,
	}
}

// MissingMain creates the assembly error for a module without a main function
func MissingMain() *Error {
	return &Error{
		Phase:  PhaseSemantic,
		Kind:   KindMissingMain,
		Detail: `function "main" not found`,
	}
}

// InvalidInput creates an error for input that is not compilable at all
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
