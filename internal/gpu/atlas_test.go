//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/gogpu/overlay"
)

func TestNewGlyphAtlasBasicFace(t *testing.T) {
	a, err := NewGlyphAtlas(basicfont.Face7x13, 16)
	if err != nil {
		t.Fatalf("NewGlyphAtlas failed: %v", err)
	}

	if a.CellWidth != 7 || a.CellHeight != 13 {
		t.Errorf("cell = %dx%d, want 7x13", a.CellWidth, a.CellHeight)
	}
	if a.Cols != 16 || a.Rows != 6 {
		t.Errorf("grid = %dx%d, want 16x6", a.Cols, a.Rows)
	}
	if w, h := a.Size(); w != 112 || h != 78 {
		t.Errorf("Size() = %dx%d, want 112x78", w, h)
	}
}

func TestGlyphAtlasCellLayout(t *testing.T) {
	for _, cols := range []int{8, 16, 32} {
		a, err := NewGlyphAtlas(basicfont.Face7x13, cols)
		if err != nil {
			t.Fatalf("NewGlyphAtlas(%d) failed: %v", cols, err)
		}
		for ch := overlay.FirstGlyph; ch <= LastGlyph; ch++ {
			col, row := a.Cell(ch)
			wantCol := int(ch-32) % cols
			wantRow := int(ch-32) / cols
			if col != wantCol || row != wantRow {
				t.Errorf("cols=%d: Cell(%q) = (%d, %d), want (%d, %d)", cols, ch, col, row, wantCol, wantRow)
			}
		}
	}
}

func TestGlyphAtlasCoverage(t *testing.T) {
	a, err := NewGlyphAtlas(basicfont.Face7x13, 16)
	if err != nil {
		t.Fatalf("NewGlyphAtlas failed: %v", err)
	}

	// Cell (0, 0) is the space glyph and must stay blank so that the
	// rectangle sentinel samples nothing.
	if n := cellCoverage(a, ' '); n != 0 {
		t.Errorf("space cell has %d covered texels, want 0", n)
	}
	for _, ch := range "A#~" {
		if n := cellCoverage(a, ch); n == 0 {
			t.Errorf("cell for %q is blank", ch)
		}
	}
}

func TestNewGlyphAtlasInvalidColumns(t *testing.T) {
	if _, err := NewGlyphAtlas(basicfont.Face7x13, 0); !errors.Is(err, ErrInvalidAtlas) {
		t.Errorf("NewGlyphAtlas(cols=0) = %v, want ErrInvalidAtlas", err)
	}
}

func TestNewGlyphAtlasGoMono(t *testing.T) {
	desc := DefaultDescriptor()
	desc.Font.Face = FaceGoMono
	desc.Font.Size = 16
	face, err := desc.NewFace()
	if err != nil {
		t.Fatalf("NewFace failed: %v", err)
	}

	a, err := NewGlyphAtlas(face, 16)
	if err != nil {
		t.Fatalf("NewGlyphAtlas failed: %v", err)
	}
	if a.CellWidth <= 0 || a.CellHeight <= a.CellWidth {
		t.Errorf("cell = %dx%d, want a positive cell taller than wide", a.CellWidth, a.CellHeight)
	}
	if n := cellCoverage(a, 'M'); n == 0 {
		t.Error("cell for 'M' is blank")
	}
}

func TestUploadAtlas(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	a, err := NewGlyphAtlas(basicfont.Face7x13, 16)
	if err != nil {
		t.Fatalf("NewGlyphAtlas failed: %v", err)
	}
	tex, err := uploadAtlas(device, queue, a)
	if err != nil {
		t.Fatalf("uploadAtlas failed: %v", err)
	}
	if tex.width != 112 || tex.height != 78 {
		t.Errorf("texture = %dx%d, want 112x78", tex.width, tex.height)
	}
	if tex.texture == nil || tex.view == nil || tex.sampler == nil {
		t.Error("texture, view or sampler not created")
	}

	tex.destroy(device)
	tex.destroy(device) // idempotent
	if tex.texture != nil || tex.view != nil || tex.sampler != nil {
		t.Error("destroy left GPU objects behind")
	}
}

// cellCoverage counts the non-zero texels in the cell holding ch.
func cellCoverage(a *GlyphAtlas, ch rune) int {
	col, row := a.Cell(ch)
	n := 0
	for y := row * a.CellHeight; y < (row+1)*a.CellHeight; y++ {
		for x := col * a.CellWidth; x < (col+1)*a.CellWidth; x++ {
			if a.Mask.AlphaAt(x, y).A != 0 {
				n++
			}
		}
	}
	return n
}
