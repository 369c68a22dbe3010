package viz

import (
	"math"
	"strings"

	"github.com/san-kum/lensim/internal/geodesic"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights a dot at sub-pixel (x, y). The canvas is Width*2 by
// Height*4 sub-pixels; out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle of radius r sub-pixels. With dashed set
// only every other segment is drawn.
func (c *Canvas) DrawCircle(cx, cy int, r float64, dashed bool) {
	if r < 0.5 {
		c.Set(cx, cy)
		return
	}
	segments := 4 * int(math.Ceil(math.Max(16, 2*math.Pi*r)/4))
	for i := 0; i < segments; i++ {
		if dashed && (i/2)%2 == 1 {
			continue
		}
		a := 2 * math.Pi * float64(i) / float64(segments)
		c.Set(cx+int(math.Round(r*math.Cos(a))), cy+int(math.Round(r*math.Sin(a))))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps world metres onto canvas sub-pixels with the black hole
// at the centre. Half is the world distance from centre to the nearer
// canvas edge.
type Viewport struct {
	Half   float64
	cw, ch int
}

func NewViewport(c *Canvas, half float64) Viewport {
	if !(half > 0) {
		half = 1
	}
	return Viewport{Half: half, cw: c.Width * 2, ch: c.Height * 4}
}

// FitViewport picks a window holding every finite trail point and the
// photon sphere.
func FitViewport(c *Canvas, rs float64, results ...*geodesic.Result) Viewport {
	half := 1.5 * rs
	for _, res := range results {
		for _, p := range res.Trail {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				continue
			}
			half = math.Max(half, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	return NewViewport(c, 1.05*half)
}

// scale is sub-pixels per metre. Braille dots are close enough to square
// that both axes share it.
func (v Viewport) scale() float64 {
	return math.Min(float64(v.cw), float64(v.ch)) / 2 / v.Half
}

func (v Viewport) Project(x, y float64) (int, int) {
	s := v.scale()
	px := float64(v.cw)/2 + x*s
	py := float64(v.ch)/2 - y*s
	return int(math.Round(px)), int(math.Round(py))
}

// DrawBlackHole draws the horizon and the dashed photon sphere.
func (v Viewport) DrawBlackHole(c *Canvas, rs float64) {
	cx, cy := v.Project(0, 0)
	s := v.scale()
	c.DrawCircle(cx, cy, 1.5*rs*s, true)
	c.DrawCircle(cx, cy, rs*s, false)
}

// DrawTrail connects consecutive trail points, skipping non-finite ones.
func (v Viewport) DrawTrail(c *Canvas, trail []geodesic.Point) {
	havePrev := false
	var px, py int
	for _, p := range trail {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			havePrev = false
			continue
		}
		x, y := v.Project(p.X, p.Y)
		if havePrev {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, havePrev = x, y, true
	}
}

// RenderTrails draws every result around the black hole on a fresh
// cols by rows canvas.
func RenderTrails(results []*geodesic.Result, rs float64, cols, rows int) string {
	c := NewCanvas(cols, rows)
	v := FitViewport(c, rs, results...)
	v.DrawBlackHole(c, rs)
	for _, res := range results {
		v.DrawTrail(c, res.Trail)
	}
	return c.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
