// Package polyline implements the flexible polyline codec used for route
// geometry: a compact ASCII encoding of a coordinate sequence with a small
// header carrying the coordinate precision and an optional third dimension.
package polyline

import (
	"errors"
	"fmt"
	"strings"
)

// FormatVersion is the only header version this codec reads or writes.
const FormatVersion = 1

var (
	ErrTruncatedInput       = errors.New("polyline: truncated input")
	ErrInvalidSymbol        = errors.New("polyline: symbol outside alphabet")
	ErrInvalidFormatVersion = errors.New("polyline: unsupported format version")
	ErrPrematureEnding      = errors.New("polyline: partial coordinate group at end of input")
	ErrOutOfRangeCoordinate = errors.New("polyline: coordinate out of range")
)

// ThirdDim identifies what the optional third coordinate component means.
type ThirdDim uint8

const (
	ThirdDimNone ThirdDim = iota
	ThirdDimLevel
	ThirdDimAltitude
	ThirdDimElevation
	ThirdDimReserved
	ThirdDimCustom1
	ThirdDimCustom2
	ThirdDimInvalid
)

// Header holds the geometry parameters decoded from the first two integers
// of the stream. It is derived once per decode and never mutated.
type Header struct {
	Version           uint8
	Precision         uint8
	ThirdDim          ThirdDim
	ThirdDimPrecision uint8
}

func (h Header) dims() int {
	if h.ThirdDim == ThirdDimNone {
		return 2
	}
	return 3
}

// Coordinate is one decoded point. Alt is only meaningful when the header's
// ThirdDim is not ThirdDimNone.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Alt float64 `json:"alt,omitempty"`
}

// pow10 up to the maximum precision the 4-bit header field can carry.
var pow10 = [16]float64{
	1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7,
	1e8, 1e9, 1e10, 1e11, 1e12, 1e13, 1e14, 1e15,
}

// Decode converts an encoded polyline into its coordinate sequence.
// Decoding is all-or-nothing: any header or stream defect fails the whole
// call and no partial result is returned.
func Decode(encoded string) ([]Coordinate, Header, error) {
	ints, err := DecodeUnsigned(encoded)
	if err != nil {
		return nil, Header{}, err
	}
	if len(ints) < 2 {
		return nil, Header{}, fmt.Errorf("%w: header requires 2 integers, got %d", ErrTruncatedInput, len(ints))
	}
	if ints[0] != FormatVersion {
		return nil, Header{}, fmt.Errorf("%w: %d", ErrInvalidFormatVersion, ints[0])
	}
	hw := ints[1]
	hdr := Header{
		Version:           uint8(ints[0]),
		Precision:         uint8(hw & 0xF),
		ThirdDim:          ThirdDim((hw >> 4) & 0x7),
		ThirdDimPrecision: uint8((hw >> 7) & 0xF),
	}

	body := ints[2:]
	dims := hdr.dims()
	if len(body)%dims != 0 {
		return nil, Header{}, fmt.Errorf("%w: %d leftover integers", ErrPrematureEnding, len(body)%dims)
	}

	factor := pow10[hdr.Precision]
	zFactor := pow10[hdr.ThirdDimPrecision]
	coords := make([]Coordinate, 0, len(body)/dims)
	var lastLat, lastLng, lastZ int64
	for i := 0; i < len(body); i += dims {
		lastLat += ToSigned(body[i])
		lastLng += ToSigned(body[i+1])
		c := Coordinate{
			Lat: float64(lastLat) / factor,
			Lng: float64(lastLng) / factor,
		}
		if dims == 3 {
			lastZ += ToSigned(body[i+2])
			c.Alt = float64(lastZ) / zFactor
		}
		if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
			return nil, Header{}, fmt.Errorf("%w: (%v, %v)", ErrOutOfRangeCoordinate, c.Lat, c.Lng)
		}
		coords = append(coords, c)
	}
	return coords, hdr, nil
}

// Encode writes the coordinate sequence with the given geometry parameters.
// Encoding then decoding reproduces the input to within 10^-precision per
// axis.
func Encode(coords []Coordinate, precision uint8, thirdDim ThirdDim, thirdDimPrecision uint8) (string, error) {
	if precision > 15 || thirdDimPrecision > 15 {
		return "", fmt.Errorf("polyline: precision must be 0-15, got %d/%d", precision, thirdDimPrecision)
	}
	if thirdDim > ThirdDimInvalid {
		return "", fmt.Errorf("polyline: invalid third dimension kind %d", thirdDim)
	}

	var b strings.Builder
	AppendUnsigned(&b, FormatVersion)
	hw := uint64(precision) | uint64(thirdDim)<<4 | uint64(thirdDimPrecision)<<7
	AppendUnsigned(&b, hw)

	factor := pow10[precision]
	zFactor := pow10[thirdDimPrecision]
	var lastLat, lastLng, lastZ int64
	for _, c := range coords {
		lat := roundHalfAway(c.Lat * factor)
		lng := roundHalfAway(c.Lng * factor)
		AppendSigned(&b, lat-lastLat)
		AppendSigned(&b, lng-lastLng)
		lastLat, lastLng = lat, lng
		if thirdDim != ThirdDimNone {
			z := roundHalfAway(c.Alt * zFactor)
			AppendSigned(&b, z-lastZ)
			lastZ = z
		}
	}
	return b.String(), nil
}

func roundHalfAway(f float64) int64 {
	if f < 0 {
		return int64(f - 0.5)
	}
	return int64(f + 0.5)
}
