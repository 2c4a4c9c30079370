package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// Section IDs define the binary identifiers for each module section.
// Only the sections the compiler emits are listed.
const (
	SectionType     byte = 1  // Type section (function signatures)
	SectionFunction byte = 3  // Function section (type indices)
	SectionExport   byte = 7  // Export section
	SectionCode     byte = 10 // Code section (function bodies)
)

// KindFunc is the export descriptor kind for functions.
const KindFunc byte = 0

// FuncTypeByte introduces a function signature in the type section.
const FuncTypeByte byte = 0x60

// ValI32 is the only value type the source language has.
const ValI32 ValType = 0x7F

// BlockTypeVoid is the empty block type (0x40).
const BlockTypeVoid byte = 0x40

// Control flow opcodes
const (
	OpBlock  byte = 0x02
	OpLoop   byte = 0x03
	OpIf     byte = 0x04
	OpElse   byte = 0x05
	OpEnd    byte = 0x0B
	OpBr     byte = 0x0C
	OpBrIf   byte = 0x0D
	OpReturn byte = 0x0F
	OpCall   byte = 0x10
)

// Parametric and variable opcodes
const (
	OpDrop     byte = 0x1A
	OpLocalGet byte = 0x20
	OpLocalSet byte = 0x21
	OpLocalTee byte = 0x22
)

// i32 opcodes
const (
	OpI32Const byte = 0x41
	OpI32Eq    byte = 0x46
	OpI32Ne    byte = 0x47
	OpI32LtS   byte = 0x48
	OpI32GtS   byte = 0x4A
	OpI32LeS   byte = 0x4C
	OpI32GeS   byte = 0x4E
	OpI32Add   byte = 0x6A
	OpI32Sub   byte = 0x6B
	OpI32Mul   byte = 0x6C
	OpI32DivS  byte = 0x6D
)

// Mnemonics maps each opcode above to its text-format name.
var Mnemonics = map[byte]string{
	OpBlock:    "block",
	OpLoop:     "loop",
	OpIf:       "if",
	OpElse:     "else",
	OpEnd:      "end",
	OpBr:       "br",
	OpBrIf:     "br_if",
	OpReturn:   "return",
	OpCall:     "call",
	OpDrop:     "drop",
	OpLocalGet: "local.get",
	OpLocalSet: "local.set",
	OpLocalTee: "local.tee",
	OpI32Const: "i32.const",
	OpI32Eq:    "i32.eq",
	OpI32Ne:    "i32.ne",
	OpI32LtS:   "i32.lt_s",
	OpI32GtS:   "i32.gt_s",
	OpI32LeS:   "i32.le_s",
	OpI32GeS:   "i32.ge_s",
	OpI32Add:   "i32.add",
	OpI32Sub:   "i32.sub",
	OpI32Mul:   "i32.mul",
	OpI32DivS:  "i32.div_s",
}

// Opcode returns the opcode for a text-format mnemonic.
func Opcode(mnemonic string) (byte, bool) {
	op, ok := opcodesByName[mnemonic]
	return op, ok
}

var opcodesByName = func() map[string]byte {
	m := make(map[string]byte, len(Mnemonics))
	for op, name := range Mnemonics {
		m[name] = op
	}
	return m
}()
