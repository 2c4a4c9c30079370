package wat

import (
	"github.com/wippyai/wasmc/wasm"
	"github.com/wippyai/wasmc/wat/internal/parser"
	"github.com/wippyai/wasmc/wat/internal/token"
)

// Parse assembles source into a binary-level module.
func Parse(source string) (*wasm.Module, error) {
	tokens, err := token.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return parser.New(tokens).Parse()
}

// Compile assembles source and returns the encoded binary module.
func Compile(source string) ([]byte, error) {
	mod, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return mod.Encode(), nil
}
