package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/wasmc/wat/internal/token"
)

func (p *Parser) parseU32() (uint32, error) {
	t, err := p.expect(token.Number)
	if err != nil {
		return 0, err
	}
	s := strings.ReplaceAll(t.Value, "_", "")
	val, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, p.errorf(t, "invalid number: %s", t.Value)
	}
	return uint32(val), nil
}

// parseI32 accepts the signed range and, as the text format allows, the
// unsigned range reinterpreted as two's complement.
func (p *Parser) parseI32() (int32, error) {
	t, err := p.expect(token.Number)
	if err != nil {
		return 0, err
	}
	s := strings.ReplaceAll(t.Value, "_", "")
	val, err := strconv.ParseInt(s, 0, 64)
	if err != nil || val < math.MinInt32 || val > math.MaxUint32 {
		return 0, p.errorf(t, "invalid i32: %s", t.Value)
	}
	return int32(uint32(val)), nil
}

// DecodeStringLiteral resolves the escapes of a string token.
func DecodeStringLiteral(s string) []byte {
	var result []byte
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			result = append(result, s[i])
			continue
		}
		// Hex escape: \XX
		if i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			result = append(result, hexValue(s[i+1])*16+hexValue(s[i+2]))
			i += 2
			continue
		}
		switch s[i+1] {
		case 'n':
			result = append(result, '\n')
		case 't':
			result = append(result, '\t')
		case 'r':
			result = append(result, '\r')
		case '\\', '"', '\'':
			result = append(result, s[i+1])
		default:
			result = append(result, '\\', s[i+1])
		}
		i++
	}
	return result
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
