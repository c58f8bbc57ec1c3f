package overlay

import (
	"errors"
	"fmt"
)

// Shader parameter names shared by both materials.
const (
	// PositionBufferName is the structured buffer holding the instances.
	PositionBufferName = "positionBuffer"

	// ScalesName is the vec4 uniform holding the per-frame scale factors.
	ScalesName = "scales"
)

// Reference resolution that line coordinates are expressed in.
const (
	ReferenceWidth  = 1280
	ReferenceHeight = 720
)

// bufferSlot is the GPU side of one instance store.
type bufferSlot struct {
	label  string
	stride int
	buf    Buffer
	toDraw int
}

// ensure makes sure the slot holds a buffer of exactly capacity elements,
// rebinding it to mat when a new one is allocated. It reports whether a
// reallocation happened.
func (s *bufferSlot) ensure(dev Device, mat Material, capacity int) (bool, error) {
	if s.buf != nil && s.buf.Count() == capacity {
		return false, nil
	}
	if s.buf != nil {
		s.buf.Release()
		s.buf = nil
	}
	buf, err := dev.NewBuffer(s.label, capacity, s.stride)
	if err != nil {
		return false, fmt.Errorf("allocate %s (%d x %d bytes): %w", s.label, capacity, s.stride, err)
	}
	s.buf = buf
	mat.SetBuffer(PositionBufferName, buf)
	return true, nil
}

// release frees the slot's buffer.
func (s *bufferSlot) release() {
	if s.buf != nil {
		s.buf.Release()
		s.buf = nil
	}
	s.toDraw = 0
}

// bufferSync mirrors the two CPU instance stores into GPU buffers.
type bufferSync struct {
	quads bufferSlot
	lines bufferSlot

	// staging is reused across frames for serialized instance bytes.
	staging []byte

	reallocations int
}

func newBufferSync() *bufferSync {
	return &bufferSync{
		quads: bufferSlot{label: "overlay_quad_instances", stride: QuadStride},
		lines: bufferSlot{label: "overlay_line_instances", stride: LineStride},
	}
}

// upload reallocates buffers whose size no longer matches their store's
// capacity, uploads the used prefix of each store and records the counts
// the next render draws. A store whose buffer cannot be allocated draws
// nothing this frame; the other store is still uploaded.
func (b *bufferSync) upload(res *Resources, quads *Store[QuadInstance], lines *Store[LineInstance]) error {
	var errs []error

	realloc, err := b.quads.ensure(res.Device, res.GlyphMaterial, quads.Cap())
	if err != nil {
		b.quads.toDraw = 0
		errs = append(errs, err)
	} else {
		b.noteRealloc(realloc, &b.quads)
		b.staging = appendQuadBytes(b.staging, quads.Used())
		b.quads.buf.Upload(b.staging)
		b.quads.toDraw = quads.Len()
	}

	realloc, err = b.lines.ensure(res.Device, res.LineMaterial, lines.Cap())
	if err != nil {
		b.lines.toDraw = 0
		errs = append(errs, err)
	} else {
		b.noteRealloc(realloc, &b.lines)
		b.staging = appendLineBytes(b.staging, lines.Used())
		b.lines.buf.Upload(b.staging)
		b.lines.toDraw = lines.Len()
	}

	return errors.Join(errs...)
}

func (b *bufferSync) noteRealloc(realloc bool, s *bufferSlot) {
	if !realloc {
		return
	}
	b.reallocations++
	Logger().Debug("overlay: instance buffer allocated",
		"buffer", s.label, "count", s.buf.Count(), "stride", s.stride)
}

// setScales uploads the shader scale factors for a grid of width x height
// cells.
func (b *bufferSync) setScales(res *Resources, width, height int) {
	res.GlyphMaterial.SetVector(ScalesName, glyphScales(res, width, height))
	res.LineMaterial.SetVector(ScalesName, lineScales(width, height))
}

// glyphScales returns (1/width, 1/height, cellW/atlasW, cellH/atlasH).
func glyphScales(res *Resources, width, height int) Vec4 {
	v := Vec4{inv(width), inv(height)}
	texW, texH := res.GlyphMaterial.TextureSize()
	if texW > 0 {
		v[2] = float32(res.CellWidth) / float32(texW)
	}
	if texH > 0 {
		v[3] = float32(res.CellHeight) / float32(texH)
	}
	return v
}

// lineScales returns (1/width, 1/height, 1/1280, 1/720).
func lineScales(width, height int) Vec4 {
	return Vec4{inv(width), inv(height), 1.0 / ReferenceWidth, 1.0 / ReferenceHeight}
}

func inv(n int) float32 {
	if n == 0 {
		return 0
	}
	return 1 / float32(n)
}

// release frees both GPU buffers.
func (b *bufferSync) release() {
	b.quads.release()
	b.lines.release()
	b.staging = nil
}
