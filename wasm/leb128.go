package wasm

import (
	"io"

	"github.com/wippyai/wasmc/wasm/internal/binary"
)

// ErrOverflow is returned when a LEB128 value does not fit its target width.
var ErrOverflow = binary.ErrOverflow

// ReadLEB128u reads an unsigned LEB128 value
func ReadLEB128u(r io.ByteReader) (uint32, error) {
	return binary.ReadU32(r)
}

// ReadLEB128u64 reads an unsigned 64-bit LEB128 value
func ReadLEB128u64(r io.ByteReader) (uint64, error) {
	return binary.ReadU64(r)
}

// ReadLEB128s reads a signed LEB128 value
func ReadLEB128s(r io.ByteReader) (int32, error) {
	return binary.ReadS32(r)
}

// EncodeLEB128u encodes v in the minimal unsigned form.
func EncodeLEB128u(v uint32) []byte {
	return binary.AppendU32(nil, v)
}

// EncodeLEB128u64 encodes v in the minimal unsigned form.
func EncodeLEB128u64(v uint64) []byte {
	return binary.AppendU64(nil, v)
}

// EncodeLEB128s encodes v in the minimal signed form.
func EncodeLEB128s(v int32) []byte {
	return binary.AppendS32(nil, v)
}

// AppendLEB128u appends the unsigned encoding of v to dst.
func AppendLEB128u(dst []byte, v uint32) []byte {
	return binary.AppendU32(dst, v)
}

// AppendLEB128s appends the signed encoding of v to dst.
func AppendLEB128s(dst []byte, v int32) []byte {
	return binary.AppendS32(dst, v)
}
