package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrOverflow is returned when a LEB128 value does not fit its target width.
var ErrOverflow = errors.New("leb128: overflow")

// Longest LEB128 encodings of 32- and 64-bit values.
const (
	maxLEB32 = 5
	maxLEB64 = 10
)

// Reader decodes wasm primitives from an in-memory byte slice.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the number of bytes consumed so far.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes returns the next n bytes without copying. On short input the
// position is left untouched.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, r.wrapError(io.ErrUnexpectedEOF)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Rest consumes and returns everything left.
func (r *Reader) Rest() []byte {
	b := r.data[r.pos:]
	r.pos = len(r.data)
	return b
}

// ReadU32 reads an unsigned LEB128 uint32.
func (r *Reader) ReadU32() (uint32, error) {
	v, err := ReadU32(r)
	if errors.Is(err, ErrOverflow) {
		return 0, r.wrapError(err)
	}
	return v, err
}

// ReadS32 reads a signed LEB128 int32.
func (r *Reader) ReadS32() (int32, error) {
	v, err := ReadS32(r)
	if errors.Is(err, ErrOverflow) {
		return 0, r.wrapError(err)
	}
	return v, err
}

// ReadName reads a length-prefixed UTF-8 name.
func (r *Reader) ReadName() (string, error) {
	length, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", r.wrapError(errors.New("invalid UTF-8 in name"))
	}
	return string(data), nil
}

// ReadU32LE reads a fixed-width little-endian uint32.
func (r *Reader) ReadU32LE() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadU32 decodes an unsigned LEB128 uint32 from any byte source.
func ReadU32(r io.ByteReader) (uint32, error) {
	var result uint32
	for i := 0; i < maxLEB32; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			if i == maxLEB32-1 && b > 0x0f {
				return 0, ErrOverflow
			}
			return result, nil
		}
	}
	return 0, ErrOverflow
}

// ReadU64 decodes an unsigned LEB128 uint64 from any byte source.
func ReadU64(r io.ByteReader) (uint64, error) {
	var result uint64
	for i := 0; i < maxLEB64; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			if i == maxLEB64-1 && b > 0x01 {
				return 0, ErrOverflow
			}
			return result, nil
		}
	}
	return 0, ErrOverflow
}

// ReadS32 decodes a signed LEB128 int32 from any byte source.
func ReadS32(r io.ByteReader) (int32, error) {
	var result int32
	for i := 0; i < maxLEB32; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		shift := 7 * i
		result |= int32(b&0x7f) << shift
		if b&0x80 != 0 {
			continue
		}
		if i == maxLEB32-1 {
			// Only the low four bits remain; the rest must repeat the sign.
			if top := b & 0x78; top != 0 && top != 0x78 {
				return 0, ErrOverflow
			}
			return result, nil
		}
		if b&0x40 != 0 {
			result |= -1 << (shift + 7)
		}
		return result, nil
	}
	return 0, ErrOverflow
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}

// ParseError is a decoding failure tagged with where it happened.
type ParseError struct {
	Err      error
	Section  string
	Position int
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("wasm: %s at position %d: %v", e.Section, e.Position, e.Err)
	}
	return fmt.Sprintf("wasm: at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapError creates a ParseError at the current position.
func (r *Reader) WrapError(section string, err error) error {
	return &ParseError{
		Position: r.pos,
		Section:  section,
		Err:      err,
	}
}
