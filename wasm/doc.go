// Package wasm encodes and decodes the WebAssembly binary subset the
// compiler produces.
//
// A compiled module uses only i32 values and four sections, always in
// canonical order:
//
//	Type     (0x01)  one signature per function, no de-duplication
//	Function (0x03)  function i uses type i
//	Export   (0x07)  a single "main" function export
//	Code     (0x0A)  one length-prefixed body per function
//
// # Encoding
//
//	m := &wasm.Module{
//		Types:   []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32}}},
//		Funcs:   []uint32{0},
//		Exports: []wasm.Export{{Name: "main", Kind: wasm.KindFunc, Idx: 0}},
//		Code:    []wasm.FuncBody{{Code: []byte{wasm.OpI32Const, 0x2a, wasm.OpEnd}}},
//	}
//	data := m.Encode()
//
// # Parsing
//
// ParseModule reads the same subset back, checking the header, section
// order and body terminators:
//
//	m, err := wasm.ParseModule(data)
//
// # LEB128
//
// All varints in the format are LEB128. Signed values use two's complement
// and stop once the remaining bits are pure sign extension:
//
//	wasm.EncodeLEB128s(63)  // [0x3f]
//	wasm.EncodeLEB128s(64)  // [0xc0 0x00]
//	wasm.EncodeLEB128s(-65) // [0xbf 0x7f]
//	wasm.EncodeLEB128u(128) // [0x80 0x01]
package wasm
