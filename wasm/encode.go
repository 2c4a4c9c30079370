package wasm

import (
	"github.com/wippyai/wasmc/wasm/internal/binary"
)

// Encode encodes the module to WebAssembly binary format.
// Each section payload is built in its own writer so the size prefix is
// known before the payload is written.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()

	// Magic number and version
	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	// Type section
	if len(m.Types) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.Byte(FuncTypeByte)
			writeValTypes(sec, ft.Params)
			writeValTypes(sec, ft.Results)
		}
		writeSection(w, SectionType, sec.Bytes())
	}

	// Function section
	if len(m.Funcs) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Funcs)))
		for _, typeIdx := range m.Funcs {
			sec.WriteU32(typeIdx)
		}
		writeSection(w, SectionFunction, sec.Bytes())
	}

	// Export section
	if len(m.Exports) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.WriteName(exp.Name)
			sec.Byte(exp.Kind)
			sec.WriteU32(exp.Idx)
		}
		writeSection(w, SectionExport, sec.Bytes())
	}

	// Code section
	if len(m.Code) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Code)))
		for _, body := range m.Code {
			sec.WriteSized(EncodeBody(body))
		}
		writeSection(w, SectionCode, sec.Bytes())
	}

	return w.Bytes()
}

// EncodeBody returns the size-less encoding of one function body:
// local groups followed by the code bytes.
func EncodeBody(body FuncBody) []byte {
	w := binary.NewWriter()
	writeBody(w, body)
	return w.Bytes()
}

func writeBody(w *binary.Writer, body FuncBody) {
	w.WriteU32(uint32(len(body.Locals)))
	for _, local := range body.Locals {
		w.WriteU32(local.Count)
		w.Byte(byte(local.ValType))
	}
	w.WriteBytes(body.Code)
}

func writeSection(w *binary.Writer, id byte, data []byte) {
	w.Byte(id)
	w.WriteSized(data)
}

func writeValTypes(w *binary.Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}
