// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiweld/internal/joint"
	"github.com/verte-zerg/tuiweld/internal/model"
	statsPkg "github.com/verte-zerg/tuiweld/internal/stats"
	"github.com/verte-zerg/tuiweld/internal/store"
	"github.com/verte-zerg/tuiweld/internal/weld"
)

const (
	meterWidth = 20
	// seamTolerance is how far from the joint a bead still counts as on it, in canvas pixels.
	seamTolerance  = 24.0
	tooShortNotice = "Weld path too short - drag across the joint to weld."
)

// ConfigMsg delivers a reloaded practice config to a running model.
type ConfigMsg struct {
	Config model.Config
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config  model.Config
	store   *store.Store
	log     *zap.Logger
	keys    keyMap
	help    help.Model
	session *weld.Session

	clock       func() time.Time
	epoch       time.Time
	lastT       float64
	passStarted time.Time

	width  int
	height int

	modal     string
	modalDone bool

	lastScore int
	bestScore int
	passCount int
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	meterOnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB8FF"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	modalStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// NewModel constructs a practice TUI model. A nil store disables history.
func NewModel(cfg model.Config, st *store.Store, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		config:  cfg,
		store:   st,
		log:     log,
		keys:    newKeyMap(),
		help:    help.New(),
		session: weld.NewSession(),
		clock:   time.Now,
	}
	m.epoch = m.clock()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case ConfigMsg:
		m.applyConfig(msg.Config)
		return m, nil
	case tea.MouseMsg:
		// A release always ends the stroke, even one that a modal interrupted.
		if m.modal == "" || msg.Action == tea.MouseActionRelease {
			m.handleMouse(msg)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modal != "" {
			m.dismissModal()
			return m, nil
		}
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.modal != "" {
		box := modalStyle.Render(m.modal)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	c := m.buildCanvas()
	lines := []string{
		padRight(m.renderHeader(), m.width),
		c.render(),
		padRight(m.renderMeter(), m.width),
		padRight(m.renderFooter(), m.width),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Filler):
		if m.session.AddFiller(m.now()) {
			m.log.Debug("filler added", zap.Int("samples", m.session.Len()))
		}
	case key.Matches(msg, m.keys.Finish):
		m.finishPass()
	case key.Matches(msg, m.keys.Reset):
		m.resetPass()
	case key.Matches(msg, m.keys.AmpUp):
		m.config.Amp = clampAmp(m.config.Amp + model.AmpStep)
	case key.Matches(msg, m.keys.AmpDown):
		m.config.Amp = clampAmp(m.config.Amp - model.AmpStep)
	case key.Matches(msg, m.keys.Position):
		m.config.Position = m.config.Position.Next()
	case key.Matches(msg, m.keys.Ghost):
		m.config.Ghost = !m.config.Ghost
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true
		m.modal = m.help.View(m.keys)
		m.help.ShowAll = false
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p, inside := m.toCanvas(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		t := m.now()
		if m.session.Len() == 0 {
			m.passStarted = m.clock()
		}
		m.session.BeginStroke(p, t)
	case tea.MouseActionMotion:
		if msg.Button != tea.MouseButtonLeft || !m.session.Welding() {
			return
		}
		m.session.Move(p, m.now(), m.settings())
	case tea.MouseActionRelease:
		m.session.EndStroke()
	}
}

// toCanvas converts a terminal cell to canvas pixel space, clamped to the canvas.
func (m *Model) toCanvas(x, y int) (weld.Point, bool) {
	cols, rows := m.canvasSize()
	row := y - 1
	inside := x >= 0 && x < cols && row >= 0 && row < rows
	x = max(0, min(cols-1, x))
	row = max(0, min(rows-1, row))
	return weld.Point{
		X: (float64(x) + 0.5) * m.config.CellWidth,
		Y: (float64(row) + 0.5) * m.config.CellHeight,
	}, inside
}

// canvasSize returns the canvas grid in cells; one row each is reserved for
// the header, meter and footer.
func (m *Model) canvasSize() (cols, rows int) {
	return max(1, m.width), max(1, m.height-3)
}

// now returns milliseconds since the model was created. Successive readings
// strictly increase so sample timestamps never tie.
func (m *Model) now() float64 {
	t := float64(m.clock().Sub(m.epoch).Nanoseconds()) / 1e6
	if t <= m.lastT {
		t = m.lastT + 0.001
	}
	m.lastT = t
	return t
}

func (m *Model) settings() model.Settings {
	return model.Settings{Amp: m.config.Amp, Position: m.config.Position}
}

func (m *Model) seam() joint.Seam {
	cols, rows := m.canvasSize()
	return joint.For(float64(cols)*m.config.CellWidth, float64(rows)*m.config.CellHeight)
}

func (m *Model) buildCanvas() *canvas {
	cols, rows := m.canvasSize()
	c := newCanvas(cols, rows, m.config.CellWidth, m.config.CellHeight)
	c.drawSeam(m.seam(), m.config.Ghost)
	c.drawBead(m.session.Samples(), m.session.Temperatures())
	if p, ok := m.session.Anchor(); ok && m.session.Welding() {
		temp, ok := m.session.LastTemp()
		if !ok {
			temp = 0.2
		}
		c.drawTorch(p, temp)
	}
	return c
}

func (m *Model) applyConfig(cfg model.Config) {
	m.config.Amp = cfg.Amp
	m.config.Position = cfg.Position
	m.config.Ghost = cfg.Ghost
	// Cell scale only changes between passes so recorded speeds stay comparable.
	if m.session.Len() == 0 {
		m.config.CellWidth = cfg.CellWidth
		m.config.CellHeight = cfg.CellHeight
	}
	m.log.Info("practice config applied",
		zap.Int("amp", m.config.Amp),
		zap.String("position", string(m.config.Position)),
		zap.Bool("ghost", m.config.Ghost))
}

func (m *Model) finishPass() {
	samples := m.session.Samples()
	temps := m.session.Temperatures()
	result, err := weld.Score(samples, temps)
	if err != nil {
		if errors.Is(err, weld.ErrPathTooShort) {
			m.log.Info("pass rejected", zap.Int("samples", len(samples)))
			m.modal = noticeStyle.Render(tooShortNotice)
			return
		}
		m.log.Error("failed to score pass", zap.Error(err))
		m.modal = noticeStyle.Render(err.Error())
		return
	}

	summary := weld.Summarize(samples)
	stats := model.PassStats{
		UID:        uuid.NewString(),
		StartedAt:  m.passStarted,
		EndedAt:    m.clock(),
		Position:   summary.Position,
		MeanAmp:    summary.MeanAmp,
		Strokes:    summary.Strokes,
		Samples:    len(samples),
		DurationMs: summary.DurationMs,
		Result:     result,
	}
	m.log.Info("pass finished",
		zap.String("uid", stats.UID),
		zap.Int("score", result.Score),
		zap.Int("samples", len(samples)),
		zap.Int("strokes", summary.Strokes))
	if m.store != nil {
		if _, err := m.store.InsertPass(context.Background(), stats, samples, temps); err != nil {
			m.log.Error("failed to save pass", zap.String("uid", stats.UID), zap.Error(err))
		}
	}
	m.recordScore(result.Score)

	m.modal = renderScore(result, m.seam(), samples)
	m.modalDone = true
}

func renderScore(result model.PassResult, seam joint.Seam, samples []model.Sample) string {
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.X
		ys[i] = s.Y
	}
	coverage := seam.Coverage(xs, ys, seamTolerance)
	lines := []string{
		scoreStyle.Render(fmt.Sprintf("Weld scored: %d/100", result.Score)),
		"",
		weld.Report(result),
		mutedStyle.Render(fmt.Sprintf("Seam covered: %.0f%%", coverage*100)),
		"",
		mutedStyle.Render("Press any key for a new pass"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) dismissModal() {
	if m.modalDone {
		m.resetPass()
	}
	m.modal = ""
	m.modalDone = false
}

func (m *Model) resetPass() {
	m.session.Reset()
	m.passStarted = time.Time{}
}

func (m *Model) recordScore(score int) {
	m.lastScore = score
	if m.passCount == 0 || score > m.bestScore {
		m.bestScore = score
	}
	m.passCount++
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	passes, err := m.store.ListPasses(context.Background(), model.StatsConfig{})
	if err != nil {
		m.log.Error("failed to load pass history", zap.Error(err))
		return
	}
	if len(passes) == 0 {
		return
	}
	summary := statsPkg.Summarize(passes)
	m.lastScore = passes[len(passes)-1].Result.Score
	m.bestScore = summary.BestScore
	m.passCount = summary.Passes
}

func (m *Model) renderHeader() string {
	state := "Idle"
	if m.session.Welding() {
		state = "Welding"
	}
	ghost := "off"
	if m.config.Ghost {
		ghost = "on"
	}
	return headerStyle.Render(fmt.Sprintf("%dA", m.config.Amp)) +
		mutedStyle.Render(fmt.Sprintf("  %s  ghost %s  %s", m.config.Position, ghost, state))
}

func (m *Model) renderMeter() string {
	speeds := m.session.SpeedHistory()
	last := 0.0
	if len(speeds) > 0 {
		last = speeds[len(speeds)-1]
	}
	filled := int(weld.MeterLevel(last)*meterWidth + 0.5)
	bar := meterOnStyle.Render(strings.Repeat("=", filled)) + mutedStyle.Render(strings.Repeat(".", meterWidth-filled))
	segments := []string{"Speed [" + bar + "]"}
	if temp, ok := m.session.LastTemp(); ok {
		segments = append(segments, lipgloss.NewStyle().Foreground(heatTint(temp)).Render(fmt.Sprintf("Heat %.2f", temp)))
	}
	segments = append(segments, mutedStyle.Render(statsPkg.Sparkline(speeds)))
	segments = append(segments, mutedStyle.Render(fmt.Sprintf("Samples %d", m.session.Len())))
	return strings.Join(segments, "  ")
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.passCount > 0 {
		segments = append(segments, fmt.Sprintf("Last %d", m.lastScore), fmt.Sprintf("Best %d", m.bestScore), fmt.Sprintf("Passes %d", m.passCount))
	}
	segments = append(segments, m.help.ShortHelpView(m.keys.ShortHelp()))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func clampAmp(amp int) int {
	return max(model.MinAmp, min(model.MaxAmp, amp))
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
