package term

import (
	"fmt"

	"github.com/gogpu/overlay"
)

// Material holds the parameters the overlay binds for one draw kind.
type Material struct {
	name   string
	glyphs bool

	positions *Buffer
	scales    overlay.Vec4
}

var _ overlay.Material = (*Material)(nil)

// SetBuffer binds the instance buffer. Only overlay.PositionBufferName is
// recognized.
func (m *Material) SetBuffer(name string, buf overlay.Buffer) {
	b, ok := buf.(*Buffer)
	if name != overlay.PositionBufferName || !ok {
		overlay.Logger().Warn("term: ignoring buffer",
			"material", m.name, "name", name, "type", fmt.Sprintf("%T", buf))
		return
	}
	m.positions = b
}

// SetVector records the scales vector. Only overlay.ScalesName is
// recognized.
func (m *Material) SetVector(name string, v overlay.Vec4) {
	if name != overlay.ScalesName {
		overlay.Logger().Warn("term: ignoring vector", "material", m.name, "name", name)
		return
	}
	m.scales = v
}

// Scales returns the last scales vector.
func (m *Material) Scales() overlay.Vec4 { return m.scales }

// TextureSize returns the atlas size in cells for the glyph material and
// (0, 0) for lines.
func (m *Material) TextureSize() (width, height int) {
	if !m.glyphs {
		return 0, 0
	}
	return AtlasColumns, atlasRows
}
