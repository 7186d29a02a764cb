package polyline

import (
	"fmt"
	"strings"
)

// The wire alphabet covers ASCII 45..122. decodingTable is indexed by
// byte-45; gaps in the alphabet map to -1.
var decodingTable = [78]int8{
	62, -1, -1, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, -1, -1, -1, -1, -1,
	-1, -1, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17,
	18, 19, 20, 21, 22, 23, 24, 25, -1, -1, -1, -1, 63, -1, 26, 27, 28, 29,
	30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47,
	48, 49, 50, 51,
}

const encodingTable = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// DecodeUnsigned folds the encoded text into the sequence of unsigned
// integers it carries. Each symbol holds 5 value bits plus a continuation
// bit (0x20); an integer ends at the first symbol with the continuation bit
// clear. An empty string yields an empty slice. A stream that ends while a
// continuation bit is still pending is truncated input.
func DecodeUnsigned(encoded string) ([]uint64, error) {
	var out []uint64
	var acc uint64
	var shift uint
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c < 45 || c > 122 || decodingTable[c-45] < 0 {
			return nil, fmt.Errorf("%w: symbol %q at position %d", ErrInvalidSymbol, c, i)
		}
		v := uint64(decodingTable[c-45])
		acc |= (v & 0x1F) << shift
		if v&0x20 != 0 {
			shift += 5
			continue
		}
		out = append(out, acc)
		acc, shift = 0, 0
	}
	if shift != 0 {
		return nil, ErrTruncatedInput
	}
	return out, nil
}

// ToSigned undoes the zig-zag mapping: odd values are complemented, then the
// result is arithmetic-shifted right by one.
func ToSigned(u uint64) int64 {
	if u&1 != 0 {
		u = ^u
	}
	return int64(u) >> 1
}

// FromSigned is the zig-zag mapping itself: v<0 ? ^(v<<1) : v<<1.
func FromSigned(v int64) uint64 {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}
	return u
}

// AppendUnsigned writes u as 5-bit groups, least significant first, with the
// continuation bit set on all but the final group.
func AppendUnsigned(b *strings.Builder, u uint64) {
	for u >= 0x20 {
		b.WriteByte(encodingTable[0x20|(u&0x1F)])
		u >>= 5
	}
	b.WriteByte(encodingTable[u])
}

// AppendSigned zig-zag maps v and appends it.
func AppendSigned(b *strings.Builder, v int64) {
	AppendUnsigned(b, FromSigned(v))
}
