package export

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/physics"
)

func traced(t *testing.T, launch geodesic.Launch) *geodesic.Result {
	t.Helper()
	res, err := geodesic.IntegrateTrajectory(1e31, launch.X, launch.Y, launch.VX, launch.VY, 200, 1.0)
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}
	return res
}

func TestTrajectoriesToSVG(t *testing.T) {
	escaped := traced(t, geodesic.Launch{X: 1e6, VY: 5e4})
	captured := traced(t, geodesic.Launch{X: 1e6, VX: -3e4})

	svg := TrajectoriesToSVG([]*geodesic.Result{escaped, captured}, escaped.Rs, 400)

	if !strings.HasPrefix(svg, "<?xml") {
		t.Error("missing xml header")
	}
	if !strings.Contains(svg, `width="400"`) {
		t.Error("size not applied")
	}
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 paths, got %d", strings.Count(svg, "<path"))
	}
	if !strings.Contains(svg, escapedColor) || !strings.Contains(svg, capturedColor) {
		t.Error("expected both capture colors")
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("photon sphere not drawn")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("svg contains NaN coordinates")
	}
}

func TestTrajectoriesToSVG_SkipsShortTrails(t *testing.T) {
	res := &geodesic.Result{Trail: []geodesic.Point{{X: 1, Y: 1}}, Rs: 1}
	svg := TrajectoriesToSVG([]*geodesic.Result{res}, 1, 0)

	if strings.Contains(svg, "<path") {
		t.Error("single point trail should not be drawn")
	}
	if !strings.Contains(svg, `width="800"`) {
		t.Error("expected default size")
	}
}

func TestFitBounds(t *testing.T) {
	res := &geodesic.Result{Trail: []geodesic.Point{
		{X: 100, Y: -20},
		{X: math.NaN(), Y: 0},
		{X: -40, Y: 60},
	}}
	b := FitBounds(1, res)

	if math.Abs(b.MaxX-110) > 1e-9 || math.Abs(b.MinY+110) > 1e-9 {
		t.Errorf("unexpected bounds %+v", b)
	}

	b = FitBounds(100)
	if math.Abs(b.MaxX-165) > 1e-9 {
		t.Errorf("empty bounds should cover the photon sphere, got %+v", b)
	}
}

func TestExportSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rays.svg")
	res := traced(t, geodesic.Launch{X: 1e6, VY: 5e4})

	if err := ExportSVG(path, []*geodesic.Result{res}, res.Rs, 300); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("</svg>")) {
		t.Error("svg not terminated")
	}
}

func TestWriteJSON(t *testing.T) {
	launch := geodesic.Launch{X: 1e6, VY: 5e4}
	res := traced(t, launch)
	res.Metrics = map[string]float64{"periapsis": 1e6, "deflection": math.NaN()}

	var buf bytes.Buffer
	data := NewTraceData(1e31, launch, geodesic.DefaultOptions(), res)
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var decoded struct {
		Trail      [][2]float64       `json:"trail"`
		HitHorizon bool               `json:"hit_horizon"`
		Rs         float64            `json:"rs"`
		Energy     *float64           `json:"energy"`
		Metrics    map[string]float64 `json:"metrics"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.Trail) != len(res.Trail) {
		t.Errorf("expected %d points, got %d", len(res.Trail), len(decoded.Trail))
	}
	if decoded.Trail[0] != [2]float64{1e6, 0} {
		t.Errorf("expected launch point first, got %v", decoded.Trail[0])
	}
	if decoded.HitHorizon || decoded.Rs != res.Rs {
		t.Errorf("unexpected header: %+v", decoded)
	}
	if decoded.Energy == nil || *decoded.Energy != res.E {
		t.Error("energy not exported")
	}
	if _, ok := decoded.Metrics["deflection"]; ok {
		t.Error("NaN metric should be dropped")
	}
}

func TestNewTraceData_NonFiniteEnergy(t *testing.T) {
	res := &geodesic.Result{E: math.Inf(1), HitHorizon: true}
	data := NewTraceData(1e31, geodesic.Launch{X: 1}, geodesic.DefaultOptions(), res)

	if data.Energy != nil {
		t.Error("infinite energy should be omitted")
	}

	path := filepath.Join(t.TempDir(), "inside.json")
	if err := ExportJSON(path, data); err != nil {
		t.Fatalf("export failed: %v", err)
	}
}

func TestWriteDerived(t *testing.T) {
	bh, err := physics.NewBlackHole(1e31)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteDerived(&buf, bh); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]float64
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["mass"] != 1e31 || decoded["schwarzschild_radius"] != bh.Radius() {
		t.Errorf("unexpected derived document %v", decoded)
	}
	if decoded["photon_sphere"] != 1.5*bh.Radius() {
		t.Errorf("unexpected photon sphere %g", decoded["photon_sphere"])
	}
}

func TestExportPlot(t *testing.T) {
	escaped := traced(t, geodesic.Launch{X: 1e6, VY: 5e4})
	captured := traced(t, geodesic.Launch{X: 1e6, VX: -3e4})
	results := []*geodesic.Result{escaped, captured}

	dir := t.TempDir()
	for _, name := range []string{"rays.png", "rays.svg"} {
		path := filepath.Join(dir, name)
		if err := ExportPlot(path, "test", results, escaped.Rs, 0); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	if err := ExportPlot(filepath.Join(dir, "rays.nope"), "test", results, escaped.Rs, 0); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestNewTrajectoryPlotBounds(t *testing.T) {
	res := &geodesic.Result{
		Trail: []geodesic.Point{{X: 10, Y: 0}, {X: math.Inf(1), Y: 0}, {X: 0, Y: 10}},
		Rs:    1,
	}
	p, err := NewTrajectoryPlot("bounds", []*geodesic.Result{res}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.X.Max-11) > 1e-9 || math.Abs(p.Y.Min+11) > 1e-9 {
		t.Errorf("unexpected axes x [%g, %g] y [%g, %g]", p.X.Min, p.X.Max, p.Y.Min, p.Y.Max)
	}
}
