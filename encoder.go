package overlay

// FirstGlyph is the character stored in atlas cell (0, 0).
const FirstGlyph = ' '

// noGlyph marks a quad as a plain filled rectangle.
const noGlyph rune = 0

// escapeMarker starts a "^RGB" color escape in overlay text.
const escapeMarker = '^'

// addQuad appends one quad instance.
//
// A glyph quad addresses the atlas cell of ch and carries alpha 0, which
// tells the shader to sample the atlas rather than fill. A quad with
// ch == noGlyph keeps atlas cell (0, 0) and the fill alpha of col.
func (o *Overlay) addQuad(x, y, w, h float32, ch rune, col RGBA) {
	q := QuadInstance{
		PositionAndUV: Vec4{x, y, 0, 0},
		Size:          Vec4{w, h, 0, 0},
		Color:         col.vec4(),
	}
	if ch != noGlyph {
		c, r := atlasCell(ch, o.res.CharCols)
		q.PositionAndUV[2] = float32(c)
		q.PositionAndUV[3] = float32(r)
		q.Color[3] = 0
	}
	o.quads.Append(q)
}

// atlasCell returns the atlas column and row of ch in an atlas with cols
// cells per row, starting at FirstGlyph.
func atlasCell(ch rune, cols int) (col, row int) {
	i := int(ch - FirstGlyph)
	return i % cols, i / cols
}

// addLine appends one line instance from (x1, y1) to (x2, y2).
func (o *Overlay) addLine(x1, y1, x2, y2 float32, col RGBA) {
	o.lines.Append(LineInstance{
		Position: Vec4{x1, y1, x2, y2},
		Color:    col.vec4(),
	})
}

// drawText lays text out as one row of unit cells starting at (x, y)
// relative to the origin.
//
// "^RGB" with three hex digits switches the color of the following
// characters and occupies no cell. The color change is local to this call.
// A marker with fewer than three characters after it is drawn literally.
func (o *Overlay) drawText(x, y float32, text []rune) {
	col := o.color
	cursor := 0
	for i := 0; i < len(text); i++ {
		if text[i] == escapeMarker && i < len(text)-3 {
			col = col.withEscape(text[i+1], text[i+2], text[i+3])
			i += 3
			continue
		}
		o.addQuad(o.originX+x+float32(cursor), o.originY+y, 1, 1, text[i], col)
		cursor++
	}
}
