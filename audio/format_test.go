package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEncode(t *testing.T) {
	src := []float32{1, -1, 0.5, 0}

	t.Run("float32", func(t *testing.T) {
		dst := make([]byte, len(src)*4)
		assert.Equal(t, 16, FormatFloat32.Encode(dst, src))
		assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(dst[8:])))

		back := make([]float32, 4)
		assert.Equal(t, 4, decodeFloat32(back, dst))
		assert.Equal(t, src, back)
	})

	t.Run("int16", func(t *testing.T) {
		dst := make([]byte, len(src)*2)
		assert.Equal(t, 8, FormatInt16.Encode(dst, src))
		assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(dst[0:])))
		assert.Equal(t, int16(-32767), int16(binary.LittleEndian.Uint16(dst[2:])))
		assert.Equal(t, int16(16383), int16(binary.LittleEndian.Uint16(dst[4:])))
		assert.Zero(t, binary.LittleEndian.Uint16(dst[6:]))
	})

	t.Run("int32", func(t *testing.T) {
		dst := make([]byte, len(src)*4)
		assert.Equal(t, 16, FormatInt32.Encode(dst, src))
		assert.Equal(t, int32(math.MaxInt32), int32(binary.LittleEndian.Uint32(dst[0:])))
		assert.Equal(t, int32(-math.MaxInt32), int32(binary.LittleEndian.Uint32(dst[4:])))
	})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"float32": FormatFloat32,
		"F32":     FormatFloat32,
		"int16":   FormatInt16,
		" s16 ":   FormatInt16,
		"int32":   FormatInt32,
	} {
		got, ok := ParseFormat(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseFormat("u8")
	assert.False(t, ok)

	assert.Equal(t, 2, FormatInt16.BytesPerSample())
	assert.Equal(t, 4, FormatInt32.BytesPerSample())
	assert.Equal(t, "int16", FormatInt16.String())
	assert.Equal(t, 8, Params{Channels: 2, Format: FormatFloat32}.FrameBytes())
}
