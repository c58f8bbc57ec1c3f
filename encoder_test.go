package overlay

import (
	"testing"
)

func TestAtlasCell(t *testing.T) {
	tests := []struct {
		ch      rune
		cols    int
		wantCol int
		wantRow int
	}{
		{' ', 16, 0, 0},
		{'!', 16, 1, 0},
		{'/', 16, 15, 0},
		{'0', 16, 0, 1},
		{'A', 16, 1, 2},
		{'~', 16, 14, 5},
		{'A', 32, 1, 1},
	}

	for _, tt := range tests {
		col, row := atlasCell(tt.ch, tt.cols)
		if col != tt.wantCol || row != tt.wantRow {
			t.Errorf("atlasCell(%q, %d) = (%d, %d), want (%d, %d)",
				tt.ch, tt.cols, col, row, tt.wantCol, tt.wantRow)
		}
	}
}

func TestAddQuadGlyph(t *testing.T) {
	o, _ := newTestOverlay(t)

	for ch := rune(32); ch < 127; ch++ {
		o.addQuad(3, 4, 1, 1, ch, RGBA{0.5, 0.25, 1, 0.75})
	}

	for i, q := range o.quads.Used() {
		ch := rune(32 + i)
		wantCol := float32((int(ch) - 32) % testCols)
		wantRow := float32((int(ch) - 32) / testCols)
		if q.PositionAndUV != (Vec4{3, 4, wantCol, wantRow}) {
			t.Errorf("%q: PositionAndUV = %v, want (3, 4, %v, %v)", ch, q.PositionAndUV, wantCol, wantRow)
		}
		if q.Color != (Vec4{0.5, 0.25, 1, 0}) {
			t.Errorf("%q: Color = %v, want alpha forced to 0", ch, q.Color)
		}
		if q.Size != (Vec4{1, 1, 0, 0}) {
			t.Errorf("%q: Size = %v, want (1, 1, 0, 0)", ch, q.Size)
		}
	}
}

func TestAddQuadRectangleKeepsAlpha(t *testing.T) {
	o, _ := newTestOverlay(t)

	o.addQuad(1, 2, 10, 3, noGlyph, RGBA{0, 0, 0, 0.5})

	q := o.quads.At(0)
	if q.PositionAndUV != (Vec4{1, 2, 0, 0}) {
		t.Errorf("PositionAndUV = %v, want atlas cell (0, 0)", q.PositionAndUV)
	}
	if q.Size != (Vec4{10, 3, 0, 0}) {
		t.Errorf("Size = %v, want (10, 3, 0, 0)", q.Size)
	}
	if q.Color[3] != 0.5 {
		t.Errorf("alpha = %v, want 0.5 preserved", q.Color[3])
	}
}

func TestAddLine(t *testing.T) {
	o, _ := newTestOverlay(t)

	o.addLine(1, 2, 3, 4, Red)

	l := o.lines.At(0)
	if l.Position != (Vec4{1, 2, 3, 4}) {
		t.Errorf("Position = %v, want (1, 2, 3, 4)", l.Position)
	}
	if l.Color != (Vec4{1, 0, 0, 1}) {
		t.Errorf("Color = %v, want opaque red", l.Color)
	}
}

func TestDrawTextColorEscape(t *testing.T) {
	o, _ := newTestOverlay(t)
	o.SetColor(White)

	o.drawText(0, 0, []rune("^F00X"))

	if o.quads.Len() != 1 {
		t.Fatalf("emitted %d quads, want 1", o.quads.Len())
	}
	q := o.quads.At(0)
	if q.Color != (Vec4{1, 0, 0, 0}) {
		t.Errorf("Color = %v, want red with glyph alpha 0", q.Color)
	}
	if q.PositionAndUV[0] != 0 {
		t.Errorf("x = %v, want 0: escapes must not advance the cursor", q.PositionAndUV[0])
	}
	if o.Color() != White {
		t.Errorf("persistent color changed to %+v", o.Color())
	}
}

func TestDrawTextEscapes(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantChars string
		wantX     []float32
	}{
		{"plain", "abc", "abc", []float32{0, 1, 2}},
		{"escape mid text", "a^0F0bc", "abc", []float32{0, 1, 2}},
		{"two escapes", "^F00a^00Fb", "ab", []float32{0, 1}},
		{"marker at end is literal", "ab^", "ab^", []float32{0, 1, 2}},
		{"short escape is literal", "a^F0", "a^F0", []float32{0, 1, 2, 3}},
		{"exact escape consumes all", "^FFF", "", nil},
		{"empty", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newTestOverlay(t)
			o.drawText(0, 0, []rune(tt.text))

			quads := o.quads.Used()
			if len(quads) != len([]rune(tt.wantChars)) {
				t.Fatalf("emitted %d quads, want %d", len(quads), len([]rune(tt.wantChars)))
			}
			for i, ch := range []rune(tt.wantChars) {
				col, row := atlasCell(ch, testCols)
				q := quads[i]
				if q.PositionAndUV != (Vec4{tt.wantX[i], 0, float32(col), float32(row)}) {
					t.Errorf("quad %d = %v, want %q at x=%v", i, q.PositionAndUV, ch, tt.wantX[i])
				}
			}
		})
	}
}

func TestDrawTextEscapeColors(t *testing.T) {
	o, _ := newTestOverlay(t, WithColor(RGBA{0.2, 0.2, 0.2, 1}))

	o.drawText(0, 0, []rune("a^F80b^zzzc"))

	quads := o.quads.Used()
	if len(quads) != 3 {
		t.Fatalf("emitted %d quads, want 3", len(quads))
	}
	wants := []Vec4{
		{0.2, 0.2, 0.2, 0},
		{1, 136.0 / 255, 0, 0},
		{0, 0, 0, 0}, // invalid digits decode as 0
	}
	for i, want := range wants {
		if !approxVec4(quads[i].Color, want) {
			t.Errorf("quad %d color = %v, want %v", i, quads[i].Color, want)
		}
	}
}

func TestDrawTextAppliesOrigin(t *testing.T) {
	o, _ := newTestOverlay(t)
	o.SetOrigin(10, 5)

	o.drawText(2, 1, []rune("hi"))

	quads := o.quads.Used()
	if quads[0].PositionAndUV[0] != 12 || quads[0].PositionAndUV[1] != 6 {
		t.Errorf("first glyph at (%v, %v), want (12, 6)", quads[0].PositionAndUV[0], quads[0].PositionAndUV[1])
	}
	if quads[1].PositionAndUV[0] != 13 {
		t.Errorf("second glyph x = %v, want 13", quads[1].PositionAndUV[0])
	}
}

func approxVec4(a, b Vec4) bool {
	const eps = 1e-6
	for i := range a {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}
