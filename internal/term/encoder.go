package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/overlay"
)

// verticesPerInstance is the number of procedural vertices the overlay
// issues per instance.
const verticesPerInstance = 6

// Encoder draws overlay frames into a tcell screen. The overlay grid is
// stretched over the whole screen using the scales vector of each
// material, so an 80x25 overlay on an 80x25 terminal maps one to one.
// Lines are given in reference pixels and use the zw half of the line
// scales instead.
type Encoder struct {
	screen  tcell.Screen
	current *Material
}

var _ overlay.RenderEncoder = (*Encoder)(nil)

// NewEncoder returns an encoder drawing into screen. The caller shows the
// screen after Render.
func NewEncoder(screen tcell.Screen) *Encoder {
	return &Encoder{screen: screen}
}

// SetPass selects m for the following draws.
func (e *Encoder) SetPass(m overlay.Material, pass int) {
	e.current = nil
	mat, ok := m.(*Material)
	if !ok || pass != 0 {
		overlay.Logger().Warn("term: unsupported pass", "type", fmt.Sprintf("%T", m), "pass", pass)
		return
	}
	if mat.positions == nil {
		return
	}
	e.current = mat
}

// DrawProcedural draws vertexCount/6 instances of the current material.
func (e *Encoder) DrawProcedural(topology overlay.Topology, vertexCount, instanceCount int) {
	if e.current == nil || topology != overlay.TopologyTriangles || vertexCount <= 0 || instanceCount <= 0 {
		return
	}
	buf := e.current.positions
	n := min(vertexCount/verticesPerInstance, len(buf.Bytes())/buf.Stride())
	if e.current.glyphs {
		e.drawQuads(overlay.DecodeQuads(buf.Bytes(), n), e.current.scales)
	} else {
		e.drawLines(overlay.DecodeLines(buf.Bytes(), n), e.current.scales)
	}
}

func (e *Encoder) drawQuads(quads []overlay.QuadInstance, scales overlay.Vec4) {
	for _, q := range quads {
		col, row := int(q.PositionAndUV[2]), int(q.PositionAndUV[3])
		x0, y0 := e.toScreen(q.PositionAndUV[0], q.PositionAndUV[1], scales[0], scales[1])

		if col == 0 && row == 0 && q.Color[3] > 0 {
			x1, y1 := e.toScreen(q.PositionAndUV[0]+q.Size[0], q.PositionAndUV[1]+q.Size[1], scales[0], scales[1])
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					e.fill(x, y, q.Color)
				}
			}
			continue
		}

		ch := overlay.FirstGlyph + rune(row*AtlasColumns+col)
		e.put(x0, y0, ch, q.Color)
	}
}

func (e *Encoder) drawLines(lines []overlay.LineInstance, scales overlay.Vec4) {
	for _, l := range lines {
		x0, y0 := e.toScreen(l.Position[0], l.Position[1], scales[2], scales[3])
		x1, y1 := e.toScreen(l.Position[2], l.Position[3], scales[2], scales[3])
		ch := lineRune(x1-x0, y1-y0)

		// Bresenham.
		dx, sx := abs(x1-x0), sign(x1-x0)
		dy, sy := -abs(y1-y0), sign(y1-y0)
		err := dx + dy
		for {
			e.put(x0, y0, ch, l.Color)
			if x0 == x1 && y0 == y1 {
				break
			}
			e2 := 2 * err
			if e2 >= dy {
				err += dy
				x0 += sx
			}
			if e2 <= dx {
				err += dx
				y0 += sy
			}
		}
	}
}

// toScreen maps (x, y) to screen cells, where sx and sy are the
// reciprocals of the coordinate range. They are float32, so products are
// nudged before flooring to land exact cell boundaries on the right cell.
func (e *Encoder) toScreen(x, y, sx, sy float32) (int, int) {
	const eps = 1e-3
	w, h := e.screen.Size()
	return int(math.Floor(float64(x)*float64(sx)*float64(w) + eps)),
		int(math.Floor(float64(y)*float64(sy)*float64(h) + eps))
}

// put writes ch in color c and keeps the cell background.
func (e *Encoder) put(x, y int, ch rune, c overlay.Vec4) {
	if !e.inside(x, y) {
		return
	}
	_, _, style, _ := e.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	e.screen.SetContent(x, y, ch, nil, style.Foreground(toTcell(vecColor(c))))
}

// fill blends c over the cell background and keeps its rune.
func (e *Encoder) fill(x, y int, c overlay.Vec4) {
	if !e.inside(x, y) {
		return
	}
	ch, _, style, _ := e.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	if ch == 0 {
		ch = ' '
	}
	_, bg, _ := style.Decompose()
	blended := fromTcell(bg).BlendRgb(vecColor(c), float64(c[3]))
	e.screen.SetContent(x, y, ch, nil, style.Background(toTcell(blended)))
}

func (e *Encoder) inside(x, y int) bool {
	w, h := e.screen.Size()
	return x >= 0 && y >= 0 && x < w && y < h
}

// lineRune picks an ASCII stroke for a line with screen delta (dx, dy).
func lineRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '-'
	case dx == 0:
		return '|'
	case abs(dx) > 2*abs(dy):
		return '-'
	case abs(dy) > 2*abs(dx):
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func vecColor(v overlay.Vec4) colorful.Color {
	return colorful.Color{R: float64(v[0]), G: float64(v[1]), B: float64(v[2])}.Clamped()
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// fromTcell converts a cell color; the terminal default counts as black.
func fromTcell(c tcell.Color) colorful.Color {
	if !c.Valid() {
		return colorful.Color{}
	}
	r, g, b := c.RGB()
	if r < 0 {
		return colorful.Color{}
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
