package overlay

import (
	"encoding/binary"
	"math"
)

// Vec4 is a four-component float vector as laid out in GPU buffers
// (vec4<f32>).
type Vec4 [4]float32

// Byte strides of the instance records as seen by the shaders.
const (
	// QuadStride is 3 x vec4<f32>: positionAndUV, size, color.
	QuadStride = 16 + 16 + 16

	// LineStride is 2 x vec4<f32>: position, color.
	LineStride = 16 + 16
)

// QuadInstance is one glyph cell or filled rectangle.
//
// PositionAndUV holds (x, y, atlasCol, atlasRow). When the atlas cell is
// (0, 0) and Color.A is non-zero the shader fills the rectangle instead of
// sampling the atlas; glyphs always carry Color.A == 0.
type QuadInstance struct {
	PositionAndUV Vec4
	Size          Vec4 // zw unused
	Color         Vec4
}

// LineInstance is one line segment from (x1, y1) to (x2, y2), stored as
// Position = (x1, y1, x2, y2).
type LineInstance struct {
	Position Vec4
	Color    Vec4
}

// appendQuadBytes serializes quads into dst, growing it if necessary, and
// returns the valid prefix. dst is reused across frames to avoid per-frame
// allocation.
func appendQuadBytes(dst []byte, quads []QuadInstance) []byte {
	needed := len(quads) * QuadStride
	if cap(dst) < needed {
		dst = make([]byte, needed)
	} else {
		dst = dst[:needed]
	}
	off := 0
	for i := range quads {
		q := &quads[i]
		writeVec4(dst[off:], q.PositionAndUV)
		writeVec4(dst[off+16:], q.Size)
		writeVec4(dst[off+32:], q.Color)
		off += QuadStride
	}
	return dst
}

// appendLineBytes is appendQuadBytes for line records.
func appendLineBytes(dst []byte, lines []LineInstance) []byte {
	needed := len(lines) * LineStride
	if cap(dst) < needed {
		dst = make([]byte, needed)
	} else {
		dst = dst[:needed]
	}
	off := 0
	for i := range lines {
		writeVec4(dst[off:], lines[i].Position)
		writeVec4(dst[off+16:], lines[i].Color)
		off += LineStride
	}
	return dst
}

// writeVec4 writes v into buf as four little-endian float32 values.
func writeVec4(buf []byte, v Vec4) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v[3]))
}

// ReadVec4 decodes a Vec4 written in instance buffer layout. Backends that
// rasterize on the CPU use it to read uploaded records back.
func ReadVec4(buf []byte) Vec4 {
	return Vec4{
		math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])),
		math.Float32frombits(binary.LittleEndian.Uint32(buf[12:16])),
	}
}

// DecodeQuads decodes count quad records from data.
func DecodeQuads(data []byte, count int) []QuadInstance {
	quads := make([]QuadInstance, count)
	for i := range quads {
		off := i * QuadStride
		quads[i] = QuadInstance{
			PositionAndUV: ReadVec4(data[off:]),
			Size:          ReadVec4(data[off+16:]),
			Color:         ReadVec4(data[off+32:]),
		}
	}
	return quads
}

// DecodeLines decodes count line records from data.
func DecodeLines(data []byte, count int) []LineInstance {
	lines := make([]LineInstance, count)
	for i := range lines {
		off := i * LineStride
		lines[i] = LineInstance{
			Position: ReadVec4(data[off:]),
			Color:    ReadVec4(data[off+16:]),
		}
	}
	return lines
}
