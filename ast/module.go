package ast

import (
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/wasmc/errors"
	"github.com/wippyai/wasmc/wasm"
)

// EntryPoint is the name of the single exported function.
const EntryPoint = "main"

// Module is an ordered list of functions with a name to index table.
type Module struct {
	index     map[string]uint32
	functions []*Function
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{index: make(map[string]uint32)}
}

// AddFunction appends f. Function names must be unique.
func (m *Module) AddFunction(f *Function) error {
	if m.index == nil {
		m.index = make(map[string]uint32)
	}
	if _, ok := m.index[f.Name]; ok {
		return errors.DuplicateFunction(f.Name)
	}
	m.index[f.Name] = uint32(len(m.functions))
	m.functions = append(m.functions, f)
	return nil
}

// Functions returns the functions in module order.
func (m *Module) Functions() []*Function {
	return m.functions
}

// Function returns the function named name.
func (m *Module) Function(name string) (*Function, bool) {
	idx, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.functions[idx], true
}

// Lookup implements FuncResolver.
func (m *Module) Lookup(name string) (uint32, int, bool) {
	idx, ok := m.index[name]
	if !ok {
		return 0, 0, false
	}
	return idx, len(m.functions[idx].Params), true
}

// Lower builds the binary module: one type per function in module order,
// an identity function section, the main export and one body per function.
func (m *Module) Lower() (*wasm.Module, error) {
	out := &wasm.Module{
		Types: make([]wasm.FuncType, len(m.functions)),
		Funcs: make([]uint32, len(m.functions)),
		Code:  make([]wasm.FuncBody, len(m.functions)),
	}
	for i, f := range m.functions {
		out.Types[i] = f.Signature()
		out.Funcs[i] = uint32(i)
	}

	mainIdx, ok := m.index[EntryPoint]
	if !ok {
		return nil, errors.MissingMain()
	}
	out.Exports = []wasm.Export{{Name: EntryPoint, Kind: wasm.KindFunc, Idx: mainIdx}}

	for i, f := range m.functions {
		body, err := f.Compile(m)
		if err != nil {
			return nil, err
		}
		out.Code[i] = body
		Logger().Debug("lowered function",
			zap.String("name", f.Name),
			zap.Int("params", f.locals.NumParams()),
			zap.Int("locals", len(f.locals.Declared())),
			zap.Int("code_bytes", len(body.Code)))
	}
	return out, nil
}

// Binary returns the encoded binary module.
func (m *Module) Binary() ([]byte, error) {
	lowered, err := m.Lower()
	if err != nil {
		return nil, err
	}
	return lowered.Encode(), nil
}

// WriteBinary writes the encoded binary module to w.
func (m *Module) WriteBinary(w io.Writer) error {
	bin, err := m.Binary()
	if err != nil {
		return err
	}
	_, err = w.Write(bin)
	return err
}

// Text returns the text form. It fails on the same errors as Binary, so
// neither artifact is produced for an invalid module.
func (m *Module) Text() (string, error) {
	if _, err := m.Lower(); err != nil {
		return "", err
	}
	return m.text(), nil
}

// Emit lowers the module once and returns both forms.
func (m *Module) Emit() (string, []byte, error) {
	lowered, err := m.Lower()
	if err != nil {
		return "", nil, err
	}
	return m.text(), lowered.Encode(), nil
}

func (m *Module) text() string {
	w := NewTextWriter()
	w.Open("module")
	for _, f := range m.functions {
		f.WriteText(w)
	}
	w.Linef("(export %q (func $%s))", EntryPoint, EntryPoint)
	w.Close()
	return w.String()
}

// WriteText writes the text form to w.
func (m *Module) WriteText(w io.Writer) error {
	text, err := m.Text()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
