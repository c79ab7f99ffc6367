package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/arena"
	"github.com/san-kum/boxsim/internal/logging"
	"github.com/san-kum/boxsim/internal/storage"
)

const (
	canvasWidth     = 60
	canvasHeight    = 30
	historyCapacity = 300
	trailLength     = 120
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	FPS     int
	SaveDir string
	Theme   string
	// FrameLimit caps a GIF recording; 0 means DefaultFrameLimit.
	FrameLimit int
	Log        *zap.Logger
}

// Model drives an arena at a fixed frame rate and renders it.
type Model struct {
	arena      *arena.Arena
	canvas     *Canvas
	fps        int
	saveDir    string
	running    bool
	theme      Theme
	styles     styles
	trails     [][]arena.Vector
	redX       []float64
	blueX      []float64
	contacts   []float64
	total      int
	notice     string
	recorder   *Recorder
	frameLimit int
	log        *zap.Logger
}

// NewModel wraps an already initialized arena.
func NewModel(a *arena.Arena, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.FrameLimit <= 0 {
		opts.FrameLimit = DefaultFrameLimit
	}
	theme := GetTheme(opts.Theme)
	return Model{
		arena:      a,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		fps:        opts.FPS,
		saveDir:    opts.SaveDir,
		running:    true,
		theme:      theme,
		styles:     newStyles(theme),
		redX:       make([]float64, 0, historyCapacity),
		blueX:      make([]float64, 0, historyCapacity),
		contacts:   make([]float64, 0, historyCapacity),
		frameLimit: opts.FrameLimit,
		log:        logging.OrNop(opts.Log),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Running reports whether the simulation advances on each frame.
func (m Model) Running() bool { return m.running }

func (m Model) Theme() Theme { return m.theme }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "r":
			m.restart()
		case "s":
			m.saveSnapshot()
		case "g":
			m.toggleRecording()
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.arena.Step()
	m.total += m.arena.Contacts()

	snap := m.arena.Snapshot()
	mobile := snap.Mobile()
	if len(m.trails) != len(mobile) {
		m.trails = make([][]arena.Vector, len(mobile))
	}
	for i, b := range mobile {
		m.trails[i] = appendCapped(m.trails[i], b.Position, trailLength)
	}
	if red, ok := snap.Find(arena.RedBlock); ok {
		m.redX = appendCapped(m.redX, red.Position.X, historyCapacity)
	}
	if blue, ok := snap.Find(arena.BlueBlock); ok {
		m.blueX = appendCapped(m.blueX, blue.Position.X, historyCapacity)
	}
	m.contacts = appendCapped(m.contacts, float64(m.arena.Contacts()), historyCapacity)

	if m.recorder != nil {
		m.recorder.Capture(snap)
		if m.recorder.Full() {
			m.toggleRecording()
		}
	}
}

func appendCapped[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		s = s[1:]
	}
	return s
}

// restart re-initializes the arena with fresh headings.
func (m *Model) restart() {
	m.arena.Initialize()
	m.trails = nil
	m.redX = m.redX[:0]
	m.blueX = m.blueX[:0]
	m.contacts = m.contacts[:0]
	m.total = 0
	m.notice = "restarted"
	m.log.Info("arena restarted")
}

func (m *Model) saveSnapshot() {
	snap := m.arena.Snapshot()
	path := filepath.Join(m.saveDir, storage.SnapshotFileName(snap.Tick))
	if err := m.ensureSaveDir(); err != nil {
		m.fail("save", err)
		return
	}
	if err := storage.SaveSnapshot(path, snap); err != nil {
		m.fail("save", err)
		return
	}
	m.notice = "saved " + path
	m.log.Info("snapshot saved", zap.String("path", path), zap.Int("tick", snap.Tick))
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder(300)
		m.recorder.Limit = m.frameLimit
		m.notice = "recording"
		return
	}

	rec := m.recorder
	m.recorder = nil
	path := filepath.Join(m.saveDir, fmt.Sprintf("arena_%d.gif", m.arena.Tick()))
	if err := m.ensureSaveDir(); err != nil {
		m.fail("record", err)
		return
	}
	frames, full := rec.Len(), rec.Full()
	if err := rec.Save(path); err != nil {
		m.fail("record", err)
		return
	}
	m.notice = "saved " + path
	if full {
		m.notice += " (frame limit reached)"
	}
	m.log.Info("recording saved", zap.String("path", path), zap.Int("frames", frames))
}

func (m *Model) ensureSaveDir() error {
	if m.saveDir == "" {
		return nil
	}
	return os.MkdirAll(m.saveDir, 0755)
}

func (m *Model) fail(op string, err error) {
	m.notice = op + " failed: " + err.Error()
	m.log.Warn(op+" failed", zap.Error(err))
}

func (m *Model) draw() {
	m.canvas.Clear()
	snap := m.arena.Snapshot()
	sx := float64(m.canvas.PixelWidth()) / snap.GridSize
	sy := float64(m.canvas.PixelHeight()) / snap.GridSize

	mobile := snap.Mobile()
	for i, trail := range m.trails {
		if i >= len(mobile) {
			break
		}
		color := lipgloss.Color(mobile[i].Color.Hex())
		for j := 1; j < len(trail); j++ {
			a, b := trail[j-1], trail[j]
			m.canvas.DrawLine(int(a.X*sx), int(a.Y*sy), int(b.X*sx), int(b.Y*sy), color)
		}
	}

	for _, b := range snap.Bodies {
		bd := b.Bounds()
		x0, y0 := int(float64(bd.Left)*sx), int(float64(bd.Top)*sy)
		x1, y1 := int(float64(bd.Right)*sx)-1, int(float64(bd.Bottom)*sy)-1
		m.canvas.FillRect(x0, y0, max(x0, x1), max(y0, y1), lipgloss.Color(b.Color.Hex()))
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := m.styles

	var s strings.Builder
	s.WriteString(st.header.Render("BOXSIM") + "\n")

	status := st.running.Render("RUNNING")
	if !m.running {
		status = st.paused.Render("PAUSED")
	}
	if m.recorder != nil {
		status += " " + st.alert.Render(fmt.Sprintf("REC %d", m.recorder.Len()))
	}
	s.WriteString(status + "\n\n")

	snap := m.arena.Snapshot()
	s.WriteString(st.label.Render("Step") + st.value.Render(fmt.Sprintf("%d", snap.Tick)) + "\n")
	for _, b := range snap.Mobile() {
		s.WriteString(st.label.Render(b.Kind.String()) +
			st.value.Render(fmt.Sprintf("(%.1f, %.1f)", b.Position.X, b.Position.Y)) + "\n")
	}
	s.WriteString(st.label.Render("Contacts") + st.value.Render(fmt.Sprintf("%d", m.total)) + "\n")
	s.WriteString(st.label.Render("Theme") + st.value.Render(m.theme.Name) + "\n")

	if len(m.redX) > 1 && len(m.blueX) > 1 {
		chart := asciigraph.PlotMany([][]float64{m.redX, m.blueX},
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption("x position"),
		)
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	s.WriteString(st.label.Render("hits/tick") + SparklineChart(m.contacts, 24) + "\n")

	if m.notice != "" {
		s.WriteString("\n" + st.value.Render(m.notice) + "\n")
	}
	s.WriteString(st.help.Render("SPACE:Pause R:Restart S:Save\nG:Record T:Theme Q:Quit"))

	canvasView := st.canvas.Render(strings.TrimRight(m.canvas.Render(), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
}

// Run starts the live view and blocks until the user quits.
func Run(a *arena.Arena, opts Options) error {
	p := tea.NewProgram(NewModel(a, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
