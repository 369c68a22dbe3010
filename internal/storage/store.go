package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/lensim/internal/geodesic"
)

const (
	metadataFile = "metadata.json"
	trailFile    = "trail.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Mass       float64            `json:"mass"`
	Launch     geodesic.Launch    `json:"launch"`
	Steps      int                `json:"steps"`
	Dlam       float64            `json:"dlam"`
	Integrator string             `json:"integrator"`
	Rs         float64            `json:"rs"`
	Energy     *float64           `json:"energy,omitempty"`
	StepsTaken int                `json:"steps_taken"`
	HitHorizon bool               `json:"hit_horizon"`
	Diverged   bool               `json:"diverged,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// EnergyValue is the stored energy, or NaN when none was recorded.
func (m *RunMetadata) EnergyValue() float64 {
	if m.Energy == nil {
		return math.NaN()
	}
	return *m.Energy
}

// Save writes a run directory holding metadata.json and trail.csv and
// returns the run id.
func (s *Store) Save(name string, mass float64, launch geodesic.Launch, opts geodesic.Options, result *geodesic.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		Mass:       mass,
		Launch:     launch,
		Steps:      opts.Steps,
		Dlam:       opts.StepSize,
		Integrator: opts.Integrator,
		Rs:         result.Rs,
		Energy:     finite(result.E),
		StepsTaken: result.StepsTaken,
		HitHorizon: result.HitHorizon,
		Diverged:   result.Diverged,
		Metrics:    finiteMetrics(result.Metrics),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeTrail(filepath.Join(runDir, trailFile), result.Trail); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	return runID, nil
}

// finite returns nil for NaN and Inf. A ray launched inside the horizon
// has no defined energy.
func finite(v float64) *float64 {
	if v-v != 0 {
		return nil
	}
	return &v
}

// finiteMetrics drops NaN and Inf values, which encoding/json rejects.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if v-v == 0 {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrail(path string, trail []geodesic.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "x", "y", "r"}); err != nil {
		return err
	}
	for i, p := range trail {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			strconv.FormatFloat(p.Radius(), 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrail reads the Cartesian trail of a run.
func (s *Store) LoadTrail(runID string) ([]geodesic.Point, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trailFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []geodesic.Point{}, nil
	}

	trail := make([]geodesic.Point, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 3 {
			return nil, fmt.Errorf("%s line %d: expected at least 3 fields, got %d", trailFile, i+2, len(record))
		}
		x, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", trailFile, i+2, err)
		}
		y, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", trailFile, i+2, err)
		}
		trail = append(trail, geodesic.Point{X: x, Y: y})
	}

	return trail, nil
}
