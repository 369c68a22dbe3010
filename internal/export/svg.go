package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/lensim/internal/geodesic"
)

const (
	capturedColor = "#ff5555"
	escapedColor  = "#00d7ff"
	horizonColor  = "#000000"
	sphereColor   = "#888888"
)

// Bounds is a square world-space window in metres.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// FitBounds returns a square window holding every trail point and the
// photon sphere, padded by 10%.
func FitBounds(rs float64, results ...*geodesic.Result) Bounds {
	half := 1.5 * rs
	for _, res := range results {
		for _, p := range res.Trail {
			if !finite(p.X) || !finite(p.Y) {
				continue
			}
			half = math.Max(half, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	half *= 1.1
	return Bounds{MinX: -half, MaxX: half, MinY: -half, MaxY: half}
}

// TrajectoriesToSVG draws every trail around the horizon disc and the
// dashed photon sphere. Captured rays are red, escaping rays cyan.
func TrajectoriesToSVG(results []*geodesic.Result, rs float64, size int) string {
	if size <= 0 {
		size = 800
	}
	b := FitBounds(rs, results...)
	scale := float64(size) / (b.MaxX - b.MinX)
	toX := func(x float64) float64 { return (x - b.MinX) * scale }
	toY := func(y float64) float64 { return float64(size) - (y-b.MinY)*scale }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	cx, cy := toX(0), toY(0)
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="none" stroke="%s" stroke-dasharray="4 4"/>
`, cx, cy, 1.5*rs*scale, sphereColor))
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" stroke="#444444"/>
`, cx, cy, rs*scale, horizonColor))

	for _, res := range results {
		if len(res.Trail) < 2 {
			continue
		}
		color := escapedColor
		if res.HitHorizon {
			color = capturedColor
		}

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))
		pen := false
		for _, p := range res.Trail {
			if !finite(p.X) || !finite(p.Y) {
				pen = false
				continue
			}
			cmd := "L"
			if !pen {
				cmd = "M"
				pen = true
			}
			sb.WriteString(fmt.Sprintf("%s%.1f,%.1f ", cmd, toX(p.X), toY(p.Y)))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func WriteSVG(w io.Writer, results []*geodesic.Result, rs float64, size int) error {
	_, err := io.WriteString(w, TrajectoriesToSVG(results, rs, size))
	return err
}

func ExportSVG(path string, results []*geodesic.Result, rs float64, size int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteSVG(file, results, rs, size)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
