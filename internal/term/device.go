package term

import (
	"errors"
	"fmt"

	"github.com/gogpu/overlay"
)

// ErrInvalidBufferSize is returned for buffers with a non-positive element
// count or stride.
var ErrInvalidBufferSize = errors.New("term: invalid buffer size")

// Atlas geometry reported to the overlay. A terminal cell holds exactly
// one glyph, so cells are one unit square and the atlas is the printable
// ASCII range laid out in AtlasColumns columns.
const (
	AtlasColumns = 16
	atlasRows    = 6
)

// Device allocates CPU instance buffers.
type Device struct {
	allocated int
}

var _ overlay.Device = (*Device)(nil)

// NewBuffer allocates a buffer of count elements of stride bytes each.
func (d *Device) NewBuffer(label string, count, stride int) (overlay.Buffer, error) {
	if count <= 0 || stride <= 0 {
		return nil, fmt.Errorf("%w: %s %d x %d", ErrInvalidBufferSize, label, count, stride)
	}
	d.allocated++
	return &Buffer{
		label:  label,
		count:  count,
		stride: stride,
		data:   make([]byte, count*stride),
	}, nil
}

// Allocated returns the number of buffers created so far.
func (d *Device) Allocated() int { return d.allocated }

// Buffer is a CPU copy of an instance buffer.
type Buffer struct {
	label         string
	count, stride int
	data          []byte
	used          int
}

var _ overlay.Buffer = (*Buffer)(nil)

// Count returns the element capacity.
func (b *Buffer) Count() int { return b.count }

// Stride returns the element size in bytes.
func (b *Buffer) Stride() int { return b.stride }

// Upload copies data to the start of the buffer. Data past the capacity
// is dropped.
func (b *Buffer) Upload(data []byte) {
	if b.data == nil {
		return
	}
	if len(data) > len(b.data) {
		overlay.Logger().Warn("term: instance upload truncated",
			"buffer", b.label, "size", len(data), "capacity", len(b.data))
		data = data[:len(b.data)]
	}
	b.used = copy(b.data, data)
}

// Bytes returns the uploaded prefix.
func (b *Buffer) Bytes() []byte { return b.data[:b.used] }

// Release drops the buffer contents.
func (b *Buffer) Release() {
	b.data = nil
	b.used = 0
}

// NewResources returns a resource bundle that renders through the terminal
// backend.
func NewResources() *overlay.Resources {
	return &overlay.Resources{
		Device:        &Device{},
		GlyphMaterial: &Material{name: "glyph", glyphs: true},
		LineMaterial:  &Material{name: "line"},
		CellWidth:     1,
		CellHeight:    1,
		CharCols:      AtlasColumns,
	}
}
