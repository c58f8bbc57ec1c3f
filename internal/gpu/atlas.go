//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/overlay"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Atlas-related errors.
var (
	// ErrInvalidAtlas is returned when atlas geometry cannot hold any glyph.
	ErrInvalidAtlas = errors.New("gpu: invalid glyph atlas")
)

// LastGlyph is the last printable ASCII character baked into the atlas.
const LastGlyph = '~'

// GlyphAtlas is a fixed grid of monospace glyph cells. Character ch lives
// in cell ((ch-32) mod Cols, (ch-32) div Cols); cell (0, 0) holds the
// blank space glyph.
type GlyphAtlas struct {
	// Mask holds glyph coverage, one byte per texel.
	Mask *image.Alpha

	// CellWidth and CellHeight are the size of one cell in texels.
	CellWidth, CellHeight int

	// Cols and Rows are the grid dimensions in cells.
	Cols, Rows int
}

// NewGlyphAtlas rasterizes the printable ASCII range of face into a grid
// cols cells wide. The cell size is the face's advance for 'M' by its line
// height.
func NewGlyphAtlas(face font.Face, cols int) (*GlyphAtlas, error) {
	if cols <= 0 {
		return nil, fmt.Errorf("%w: %d columns", ErrInvalidAtlas, cols)
	}
	metrics := face.Metrics()
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		return nil, fmt.Errorf("%w: face has no 'M' glyph", ErrInvalidAtlas)
	}
	cellW := adv.Ceil()
	cellH := metrics.Height.Ceil()
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("%w: cell size %dx%d", ErrInvalidAtlas, cellW, cellH)
	}

	glyphs := int(LastGlyph-overlay.FirstGlyph) + 1
	rows := (glyphs + cols - 1) / cols
	a := &GlyphAtlas{
		Mask:       image.NewAlpha(image.Rect(0, 0, cols*cellW, rows*cellH)),
		CellWidth:  cellW,
		CellHeight: cellH,
		Cols:       cols,
		Rows:       rows,
	}

	drawer := &font.Drawer{
		Dst:  a.Mask,
		Src:  image.White,
		Face: face,
	}
	ascent := metrics.Ascent.Ceil()
	for ch := overlay.FirstGlyph + 1; ch <= LastGlyph; ch++ {
		col, row := a.Cell(ch)
		drawer.Dot = fixed.P(col*cellW, row*cellH+ascent)
		drawer.DrawString(string(ch))
	}
	return a, nil
}

// Cell returns the grid cell holding ch.
func (a *GlyphAtlas) Cell(ch rune) (col, row int) {
	i := int(ch - overlay.FirstGlyph)
	return i % a.Cols, i / a.Cols
}

// Size returns the atlas size in texels.
func (a *GlyphAtlas) Size() (width, height int) {
	b := a.Mask.Bounds()
	return b.Dx(), b.Dy()
}

// atlasTexture is a GlyphAtlas uploaded to the GPU together with the
// sampler the glyph shader reads it with.
type atlasTexture struct {
	width, height int

	texture hal.Texture
	view    hal.TextureView
	sampler hal.Sampler
}

// uploadAtlas creates an R8 texture for a and uploads its coverage mask.
func uploadAtlas(device hal.Device, queue hal.Queue, a *GlyphAtlas) (*atlasTexture, error) {
	w, h := a.Size()
	t := &atlasTexture{width: w, height: h}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "overlay_glyph_atlas",
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}, //nolint:gosec // atlas dimensions fit uint32
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create atlas texture: %w", err)
	}
	t.texture = tex

	err = queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		a.Mask.Pix,
		&hal.ImageDataLayout{BytesPerRow: uint32(a.Mask.Stride), RowsPerImage: uint32(h)}, //nolint:gosec // atlas dimensions fit uint32
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},          //nolint:gosec // atlas dimensions fit uint32
	)
	if err != nil {
		t.destroy(device)
		return nil, fmt.Errorf("upload atlas texture: %w", err)
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "overlay_glyph_atlas_view",
		Format:          gputypes.TextureFormatR8Unorm,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		t.destroy(device)
		return nil, fmt.Errorf("create atlas view: %w", err)
	}
	t.view = view

	// Cells are addressed texel-exact, so nearest filtering keeps glyph
	// edges from bleeding into neighboring cells.
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "overlay_glyph_atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		t.destroy(device)
		return nil, fmt.Errorf("create atlas sampler: %w", err)
	}
	t.sampler = sampler
	return t, nil
}

// destroy releases the texture, view and sampler.
func (t *atlasTexture) destroy(device hal.Device) {
	if t.sampler != nil {
		device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		device.DestroyTexture(t.texture)
		t.texture = nil
	}
}
