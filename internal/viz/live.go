package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/lensim/internal/dynamo"
	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/metrics"
	"github.com/san-kum/lensim/internal/physics"
)

const (
	width      = 60
	height     = 22
	graphWidth = 36
	frameRate  = 30
	// a full trace plays back in roughly this many ticks at the default speed
	playbackTicks = 300
	maxSpeed      = 1 << 12
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	labelStyle  = lipgloss.NewStyle().Width(12)
	valueStyle  = lipgloss.NewStyle()
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Frame is one recorded integration step.
type Frame struct {
	Lambda float64
	R      float64
	Energy float64
}

// recorder collects a frame for every state the tracer observes, so
// frames line up one to one with the trail.
type recorder struct {
	sys    *geodesic.Schwarzschild
	frames []Frame
}

func (r *recorder) OnStep(step int, x dynamo.State, lam float64) {
	r.frames = append(r.frames, Frame{Lambda: lam, R: x[0], Energy: r.sys.Energy(x)})
}

// Model plays back a traced ray point by point.
type Model struct {
	title    string
	rs       float64
	result   *geodesic.Result
	frames   []Frame
	canvas   *Canvas
	view     Viewport
	cursor   int
	speed    int
	running  bool
	theme    int
	showHelp bool
}

// NewModel traces the ray up front and returns a model positioned at
// the launch point.
func NewModel(title string, bh physics.BlackHole, launch geodesic.Launch, opts geodesic.Options) (Model, error) {
	rec := &recorder{sys: &geodesic.Schwarzschild{Rs: bh.Radius()}}
	tr := geodesic.NewTracer()
	for _, m := range metrics.Defaults() {
		tr.AddMetric(m)
	}
	tr.AddObserver(rec)

	res, err := tr.Run(bh, launch, opts)
	if err != nil {
		return Model{}, err
	}

	canvas := NewCanvas(width, height)
	return Model{
		title:   title,
		rs:      res.Rs,
		result:  res,
		frames:  rec.frames,
		canvas:  canvas,
		view:    FitViewport(canvas, res.Rs, res),
		speed:   defaultSpeed(len(rec.frames)),
		running: true,
	}, nil
}

// WithTheme selects a theme by name. Unknown names keep the first theme.
func (m Model) WithTheme(name string) Model {
	t := GetTheme(name)
	for i := range Themes {
		if Themes[i].Name == t.Name {
			m.theme = i
		}
	}
	return m
}

func defaultSpeed(n int) int {
	return max(1, n/playbackTicks)
}

func (m Model) Result() *geodesic.Result { return m.result }

// Frames returns the per-step playback record.
func (m Model) Frames() []Frame { return m.frames }

// Cursor is the index of the trail point currently shown.
func (m Model) Cursor() int { return m.cursor }

func (m Model) Done() bool { return m.cursor >= len(m.frames)-1 }

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.cursor = 0
			m.running = true
		case "[":
			m.running = false
			m.seek(-m.speed)
		case "]":
			m.running = false
			m.seek(m.speed)
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.seek(m.speed)
			if m.Done() {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) seek(delta int) {
	m.cursor = max(0, min(m.cursor+delta, len(m.frames)-1))
}

func (m Model) status(theme Theme) string {
	switch {
	case m.Done():
		return theme.Outcome(m.result.HitHorizon)
	case m.running:
		return "RUNNING"
	default:
		return "PAUSED"
	}
}

func (m Model) draw() {
	m.canvas.Clear()
	m.view.DrawBlackHole(m.canvas, m.rs)
	end := min(m.cursor+1, len(m.result.Trail))
	m.view.DrawTrail(m.canvas, m.result.Trail[:end])
}

// trailColor is the theme's trail colour during playback and the
// outcome colour once the ray has finished.
func (m Model) trailColor(theme Theme) lipgloss.Color {
	switch {
	case !m.Done():
		return theme.Trail
	case m.result.HitHorizon:
		return theme.Captured
	default:
		return theme.Escaped
	}
}

// View renders the canvas beside the stats panel.
func (m Model) View() string {
	theme := Themes[m.theme]
	label := labelStyle.Foreground(theme.Muted)
	value := valueStyle.Foreground(theme.Text)
	m.draw()
	canvasView := canvasStyle.Foreground(m.trailColor(theme)).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status(theme) + "\n\n")

	if m.cursor > 0 {
		radii := make([]float64, m.cursor+1)
		for i := range radii {
			radii[i] = m.frames[i].R / m.rs
		}
		chart := asciigraph.Plot(Downsample(radii, graphWidth),
			asciigraph.Height(6),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("r / rs"))
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Trail).Render(chart) + "\n\n")
	}

	if len(m.frames) > 0 {
		f := m.frames[m.cursor]
		s.WriteString(label.Render("lambda") + value.Render(fmt.Sprintf("%.2f", f.Lambda)) + "\n")
		s.WriteString(label.Render("r / rs") + value.Render(fmt.Sprintf("%.4f", f.R/m.rs)) + "\n")
		s.WriteString(label.Render("E") + value.Render(fmt.Sprintf("%.6g", f.Energy)) + "\n")
		s.WriteString(label.Render("dE / E") + value.Render(fmt.Sprintf("%.2e", relDrift(f.Energy, m.result.E))) + "\n")
	}
	s.WriteString(label.Render("step") + value.Render(fmt.Sprintf("%d / %d", m.cursor, m.result.StepsTaken)) + "\n")
	s.WriteString(label.Render("speed") + value.Render(fmt.Sprintf("x%d", m.speed)) + "\n")

	progress := 1.0
	if len(m.frames) > 1 {
		progress = float64(m.cursor) / float64(len(m.frames)-1)
	}
	s.WriteString("\n" + ProgressBar(progress, 30) + "\n")

	if m.showHelp {
		s.WriteString(helpStyle.Render("SPACE pause/resume\nR     restart\n[ ]   step back/forward\n+ -   playback speed\nT     theme (" + theme.Name + ")\nQ     quit"))
	} else {
		s.WriteString(helpStyle.Render("SP:Pause R:Restart Q:Quit ?:Help"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func relDrift(e, e0 float64) float64 {
	if e0 == 0 || math.IsNaN(e) {
		return math.NaN()
	}
	return (e - e0) / e0
}

// Downsample keeps at most n evenly spaced values, always including the
// last one.
func Downsample(values []float64, n int) []float64 {
	if len(values) <= n || n <= 0 {
		return values
	}
	if n == 1 {
		return values[len(values)-1:]
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = values[i*(len(values)-1)/(n-1)]
	}
	return out
}

// Run opens the live view full screen until the user quits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
