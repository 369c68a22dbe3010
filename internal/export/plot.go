package export

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/lensim/internal/geodesic"
)

var (
	capturedRGBA = color.RGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}
	escapedRGBA  = color.RGBA{R: 0x00, G: 0xa0, B: 0xd0, A: 0xff}
)

const circleSegments = 128

// circle returns a closed ring of radius r around the origin.
func circle(r float64) plotter.XYs {
	pts := make(plotter.XYs, circleSegments+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = plotter.XY{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return pts
}

// trailXYs converts a trail to units of rs, dropping non-finite points
// which plotter rejects.
func trailXYs(trail []geodesic.Point, rs float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(trail))
	for _, p := range trail {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		pts = append(pts, plotter.XY{X: p.X / rs, Y: p.Y / rs})
	}
	return pts
}

// NewTrajectoryPlot lays out the trails in units of rs with the horizon
// disc and the dashed photon sphere.
func NewTrajectoryPlot(title string, results []*geodesic.Result, rs float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x / rs"
	p.Y.Label.Text = "y / rs"
	p.Add(plotter.NewGrid())

	horizon, err := plotter.NewPolygon(circle(1))
	if err != nil {
		return nil, err
	}
	horizon.Color = color.Black
	p.Add(horizon)

	sphere, err := plotter.NewLine(circle(1.5))
	if err != nil {
		return nil, err
	}
	sphere.LineStyle.Color = color.Gray{Y: 0x80}
	sphere.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(sphere)

	for _, res := range results {
		pts := trailXYs(res.Trail, rs)
		if len(pts) < 2 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = escapedRGBA
		if res.HitHorizon {
			line.LineStyle.Color = capturedRGBA
		}
		p.Add(line)
	}

	b := FitBounds(rs, results...)
	p.X.Min, p.X.Max = b.MinX/rs, b.MaxX/rs
	p.Y.Min, p.Y.Max = b.MinY/rs, b.MaxY/rs

	return p, nil
}

// ExportPlot saves a square trajectory plot. The image format follows
// the file extension (png, jpg, svg, pdf, eps, tif).
func ExportPlot(path, title string, results []*geodesic.Result, rs float64, size vg.Length) error {
	p, err := NewTrajectoryPlot(title, results, rs)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = 6 * vg.Inch
	}
	return p.Save(size, size, path)
}
