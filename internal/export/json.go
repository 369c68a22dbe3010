package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/physics"
)

// TraceData is the JSON document for one trace. Energy and metrics that
// are not finite are omitted since JSON cannot carry them.
type TraceData struct {
	Mass       float64            `json:"mass"`
	Launch     geodesic.Launch    `json:"launch"`
	Integrator string             `json:"integrator"`
	Dlam       float64            `json:"dlam"`
	Steps      int                `json:"steps"`
	Trail      []geodesic.Point   `json:"trail"`
	HitHorizon bool               `json:"hit_horizon"`
	Rs         float64            `json:"rs"`
	Energy     *float64           `json:"energy,omitempty"`
	StepsTaken int                `json:"steps_taken"`
	Diverged   bool               `json:"diverged,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

func NewTraceData(mass float64, launch geodesic.Launch, opts geodesic.Options, result *geodesic.Result) TraceData {
	data := TraceData{
		Mass:       mass,
		Launch:     launch,
		Integrator: opts.Integrator,
		Dlam:       opts.StepSize,
		Steps:      opts.Steps,
		Trail:      result.Trail,
		HitHorizon: result.HitHorizon,
		Rs:         result.Rs,
		StepsTaken: result.StepsTaken,
		Diverged:   result.Diverged,
	}
	if finite(result.E) {
		e := result.E
		data.Energy = &e
	}
	if len(result.Metrics) > 0 {
		data.Metrics = make(map[string]float64, len(result.Metrics))
		for k, v := range result.Metrics {
			if finite(v) {
				data.Metrics[k] = v
			}
		}
	}
	return data
}

func WriteJSON(w io.Writer, data TraceData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data TraceData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}

func ExportJSONStdout(data TraceData) error {
	return WriteJSON(os.Stdout, data)
}

// Derived holds the quantities that follow from the mass alone.
type Derived struct {
	Mass                float64 `json:"mass"`
	SchwarzschildRadius float64 `json:"schwarzschild_radius"`
	PhotonSphere        float64 `json:"photon_sphere"`
	CriticalImpact      float64 `json:"critical_impact"`
}

func NewDerived(bh physics.BlackHole) Derived {
	return Derived{
		Mass:                bh.Mass(),
		SchwarzschildRadius: bh.Radius(),
		PhotonSphere:        bh.PhotonSphere(),
		CriticalImpact:      bh.CriticalImpact(),
	}
}

func WriteDerived(w io.Writer, bh physics.BlackHole) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewDerived(bh))
}
