package audio

import (
	"encoding/binary"
	"math"
	"strings"
)

// Format is a device sample encoding, always little-endian
type Format uint8

const (
	FormatFloat32 Format = iota
	FormatInt16
	FormatInt32
)

// BytesPerSample returns the encoded size of one sample
func (f Format) BytesPerSample() int {
	switch f {
	case FormatInt16:
		return 2
	default:
		return 4
	}
}

func (f Format) String() string {
	switch f {
	case FormatFloat32:
		return "float32"
	case FormatInt16:
		return "int16"
	case FormatInt32:
		return "int32"
	default:
		return "unknown"
	}
}

// ParseFormat accepts float32, int16 and int32 (case-insensitive)
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "f32", "float":
		return FormatFloat32, true
	case "int16", "s16":
		return FormatInt16, true
	case "int32", "s32":
		return FormatInt32, true
	}
	return FormatFloat32, false
}

// Encode converts clamped samples into dst and returns bytes written
// dst must hold len(src)*BytesPerSample bytes
func (f Format) Encode(dst []byte, src []float32) int {
	switch f {
	case FormatInt16:
		for i, s := range src {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(int16(s*math.MaxInt16)))
		}
		return len(src) * 2
	case FormatInt32:
		for i, s := range src {
			binary.LittleEndian.PutUint32(dst[i*4:], uint32(int32(float64(s)*math.MaxInt32)))
		}
		return len(src) * 4
	default:
		for i, s := range src {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
		}
		return len(src) * 4
	}
}

// decodeFloat32 reads little-endian float32 samples from src into dst
func decodeFloat32(dst []float32, src []byte) int {
	n := min(len(dst), len(src)/4)
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return n
}
