package viz

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/hexbounce/internal/config"
	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
)

const (
	defaultCols     = 60
	defaultRows     = 30
	statsWidth      = 45
	historyCapacity = 600
	frameRate       = 60
	maxSubsteps     = 8
	// maxRecordFrames bounds a recording to ten seconds; it is saved when
	// the limit is hit.
	maxRecordFrames = 600
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// snapshot is one recorded frame for replay.
type snapshot struct {
	time   float64
	offset geom.Vec2
	bodies []physics.Body
	energy float64
}

type Option func(*Model)

// WithTitle sets the header shown above the stats pane.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

func WithTheme(name string) Option {
	return func(m *Model) { m.setTheme(GetTheme(name)) }
}

// WithSize sets the terminal size in cells before the first WindowSizeMsg.
func WithSize(width, height int) Option {
	return func(m *Model) { m.resize(width, height) }
}

// WithGIFPath sets where recordings are written. An empty path disables
// recording.
func WithGIFPath(path string) Option {
	return func(m *Model) { m.gifPath = path }
}

// Model is the live terminal view of a shaking container.
type Model struct {
	cfg      *config.Config
	world    *physics.World
	seeded   physics.SeedResult
	substeps int

	canvas *Canvas
	keys   KeyMap
	help   help.Model
	theme  Theme
	styles styles
	title  string

	running  bool
	showHelp bool

	paramKeys     []string
	selected      int
	initialParams map[string]float64

	energy   []float64
	history  []snapshot
	playHead int

	recording bool
	frames    []*image.Paletted
	gifPath   string
	notice    string
}

// NewModel builds a seeded world from cfg and wraps it in a Model.
func NewModel(cfg *config.Config, opts ...Option) (Model, error) {
	world, seeded, err := cfg.World(cfg.Rand())
	if err != nil {
		return Model{}, err
	}

	params := world.GetParams()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := Model{
		cfg:           cfg,
		world:         world,
		seeded:        seeded,
		substeps:      substepsFor(cfg.Dt),
		canvas:        NewCanvas(defaultCols, defaultRows),
		keys:          DefaultKeyMap(),
		help:          help.New(),
		title:         "hexbounce",
		running:       true,
		paramKeys:     keys,
		initialParams: params,
		energy:        make([]float64, 0, historyCapacity),
		history:       make([]snapshot, 0, historyCapacity),
		playHead:      -1,
		gifPath:       "hexbounce.gif",
	}
	m.setTheme(Themes[0])
	for _, opt := range opts {
		opt(&m)
	}
	if seeded.Placed < seeded.Requested {
		m.notice = fmt.Sprintf("placed %d of %d bodies", seeded.Placed, seeded.Requested)
	}
	return m, nil
}

// substepsFor returns how many physics ticks of dt fit in one frame.
func substepsFor(dt float64) int {
	n := int(math.Round(1.0 / frameRate / dt))
	return max(1, min(n, maxSubsteps))
}

func (m Model) World() *physics.World { return m.world }

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Shake):
			if m.playHead == -1 {
				m.world.Shake(m.cfg.Shake.Magnitude)
			}
		case key.Matches(msg, m.keys.Pause):
			m.running = !m.running
		case key.Matches(msg, m.keys.Reset):
			m.reset()
		case key.Matches(msg, m.keys.Rewind):
			m.scrub(-1)
		case key.Matches(msg, m.keys.Forward):
			m.scrub(1)
		case key.Matches(msg, m.keys.Next):
			m.cycleParam()
		case key.Matches(msg, m.keys.Up):
			m.adjustParam(1.05)
		case key.Matches(msg, m.keys.Down):
			m.adjustParam(0.95)
		case key.Matches(msg, m.keys.Theme):
			m.setTheme(NextTheme(m.theme.Name))
		case key.Matches(msg, m.keys.Record):
			if m.recording {
				m.stopRecording()
			} else if m.gifPath == "" {
				m.notice = "recording disabled"
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
				m.notice = "recording"
			}
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.advance()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.frames = append(m.frames, rasterize(m.canvas))
			if len(m.frames) >= maxRecordFrames {
				m.stopRecording()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) setTheme(t Theme) {
	m.theme = t
	m.styles = newStyles(t)
}

// resize fits the canvas into the space left of the stats pane.
func (m *Model) resize(width, height int) {
	cols := width - statsWidth - 8
	rows := height - 3
	// Keep the drawing area square in sub-pixels.
	cols = min(cols, rows*2)
	cols = max(cols, 10)
	rows = max(rows, 5)
	m.canvas.Resize(cols, rows)
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	name := m.paramKeys[m.selected]
	val := m.world.GetParams()[name]
	if val == 0 {
		// Scaling zero does nothing, so step off it.
		val = 0.01 * m.initialParams[name]
		if val == 0 {
			val = 0.01
		}
	}
	if err := m.world.SetParam(name, val*factor); err != nil {
		m.notice = err.Error()
	}
}

// advance runs one frame's worth of physics ticks and records history.
func (m *Model) advance() {
	contacts := 0
	for i := 0; i < m.substeps; i++ {
		m.world.Step(m.cfg.Dt)
		contacts += m.world.LastStats().Contacts()
	}

	e := m.world.KineticEnergy()
	m.energy = append(m.energy, e)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}

	m.history = append(m.history, snapshot{
		time:   m.world.Time,
		offset: m.world.Container.Offset,
		bodies: m.world.Snapshot(),
		energy: e,
	})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset reseeds the world from the config, which also restores the
// starting parameters.
func (m *Model) reset() {
	world, seeded, err := m.cfg.World(m.cfg.Rand())
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.world = world
	m.seeded = seeded
	m.energy = m.energy[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.notice = ""
}

func (m *Model) stopRecording() {
	m.recording = false
	if err := writeGIF(m.gifPath, m.frames); err != nil {
		m.notice = err.Error()
	} else if len(m.frames) > 0 {
		m.notice = fmt.Sprintf("saved %s (%d frames)", m.gifPath, len(m.frames))
	}
	m.frames = nil
}

// scene is what gets drawn: live state or a replayed snapshot.
func (m *Model) scene() (offset geom.Vec2, bodies []physics.Body) {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		s := m.history[m.playHead]
		return s.offset, s.bodies
	}
	return m.world.Container.Offset, m.world.Bodies
}

// project maps world pixels to canvas sub-pixels with a uniform scale
// centred on the container's rest position.
func (m *Model) project(p geom.Vec2) (int, int, float64) {
	w, h := float64(m.canvas.Width*2), float64(m.canvas.Height*4)
	c := m.world.Container
	span := 2 * c.Radius * 1.1
	scale := math.Min(w, h) / span
	x := w/2 + (p[0]-c.Center[0])*scale
	y := h/2 + (p[1]-c.Center[1])*scale
	return int(math.Round(x)), int(math.Round(y)), scale
}

func (m *Model) draw() {
	m.canvas.Clear()
	offset, bodies := m.scene()
	c := m.world.Container

	// Replayed frames carry their own offset; rebuild the outline from it.
	verts := geom.RegularPolygon(geom.Add(c.Center, offset), c.Radius, c.Sides, c.StartAngle)
	pts := make([][2]int, len(verts))
	for i, v := range verts {
		x, y, _ := m.project(v)
		pts[i] = [2]int{x, y}
	}
	m.canvas.DrawPolygon(pts)

	for _, b := range bodies {
		x, y, scale := m.project(b.Pos)
		r := int(math.Round(b.Radius * scale))
		if r <= 2 {
			m.canvas.FillCircle(x, y, r)
		} else {
			m.canvas.DrawCircle(x, y, r)
		}
	}
}

// View renders the canvas next to the stats pane.
func (m Model) View() string {
	m.draw()
	st := m.styles

	status := st.running.Render("RUNNING")
	t := m.world.Time
	energy := 0.0
	if len(m.energy) > 0 {
		energy = m.energy[len(m.energy)-1]
	}
	if m.playHead >= 0 && m.playHead < len(m.history) {
		snap := m.history[m.playHead]
		t, energy = snap.time, snap.energy
		status = st.paused.Render(fmt.Sprintf("REPLAY (%.1fs)", snap.time-m.world.Time))
	} else if !m.running {
		status = st.paused.Render("PAUSED")
	}
	if m.recording {
		status += " " + st.rec.Render("● REC")
	}

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	c := m.world.Container
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", t))
	row("Bodies", fmt.Sprintf("%d/%d", m.seeded.Placed, m.seeded.Requested))
	row("Energy", fmt.Sprintf("%.0f", energy))
	row("Contacts", fmt.Sprintf("%d", m.world.LastStats().Contacts()))
	row("Offset", fmt.Sprintf("%+.1f, %+.1f", c.Offset[0], c.Offset[1]))
	s.WriteString(st.label.Render("Shake") + st.sparkline(m.offsetHistory(), 20) + "\n")

	s.WriteString("\nPARAMETERS\n")
	params := m.world.GetParams()
	for i, k := range m.paramKeys {
		val, initial := params[k], m.initialParams[k]
		ratio := 0.5
		if initial != 0 {
			ratio = val / (2 * initial)
		}
		line := fmt.Sprintf("%-16s %s %.3g", k, ProgressBar(ratio, 10), val)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.UnsetWidth().Render(line) + "\n")
		}
	}

	if m.notice != "" {
		s.WriteString("\n" + st.value.Render(m.notice) + "\n")
	}
	s.WriteString(st.help.Render(m.help.View(m.keys)))

	canvasView := st.canvas.Render(m.canvas.String())
	statsView := st.stats.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// offsetHistory returns the recent container displacement magnitudes.
func (m Model) offsetHistory() []float64 {
	out := make([]float64, len(m.history))
	for i, s := range m.history {
		out[i] = geom.Length(s.offset)
	}
	return out
}
