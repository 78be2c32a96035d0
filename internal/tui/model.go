// Package tui provides the Bubble Tea typing panel.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/scribe/internal/host"
	"github.com/verte-zerg/scribe/internal/typewriter"
)

const targetField = "target"

type focusArea int

const (
	focusCompose focusArea = iota
	focusTarget
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

type progressMsg struct {
	session int
	percent int
}

type completeMsg struct {
	session int
}

type doneMsg struct {
	session int
	err     error
}

// Model implements the Bubble Tea typing panel. The compose area holds the
// text to type; the target field is an input the engine can type into.
type Model struct {
	engine *typewriter.Engine
	form   *host.Form
	target *host.Field
	opts   typewriter.Options
	send   func(tea.Msg)

	compose textarea.Model
	focus   focusArea

	session  int
	typing   bool
	paused   bool
	progress int

	notice     string
	noticeKind noticeKind

	width  int
	height int
}

var (
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	boxStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A")).Padding(0, 1)
	activeBoxStyle  = boxStyle.BorderForeground(lipgloss.Color("#C89A3A"))
	valueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	caretStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	infoStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	progressOnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs the panel. The engine must resolve targets through form.
func NewModel(engine *typewriter.Engine, form *host.Form, opts typewriter.Options) *Model {
	target, ok := form.Field(targetField)
	if !ok {
		target = form.AddField(targetField)
	}
	ta := textarea.New()
	ta.Placeholder = "Paste or write the text to type..."
	ta.ShowLineNumbers = false
	ta.Focus()

	m := &Model{
		engine:  engine,
		form:    form,
		target:  target,
		opts:    opts,
		compose: ta,
	}
	form.Blur()
	return m
}

// SetSender sets the function used to deliver engine callbacks from the
// typing goroutine, usually (*tea.Program).Send.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.compose.SetWidth(max(msg.Width-4, 10))
		m.compose.SetHeight(max(msg.Height/3, 3))
		return m, nil
	case progressMsg:
		if msg.session == m.session {
			m.progress = msg.percent
		}
		return m, nil
	case completeMsg:
		if msg.session == m.session {
			m.setNotice(noticeSuccess, "Typing completed!")
		}
		return m, nil
	case doneMsg:
		return m, m.handleDone(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.focus == focusCompose {
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.engine.Stop()
		return m, tea.Quit
	case tea.KeyTab:
		m.toggleFocus()
		return m, nil
	case tea.KeyCtrlS:
		return m, m.start()
	case tea.KeyCtrlP:
		m.togglePause()
		return m, nil
	case tea.KeyCtrlX:
		m.stop()
		return m, nil
	case tea.KeyCtrlL:
		m.target.Clear()
		return m, nil
	}
	if m.focus == focusCompose {
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == focusCompose {
		m.focus = focusTarget
		m.compose.Blur()
		m.form.Focus(targetField)
		return
	}
	m.focus = focusCompose
	m.form.Blur()
	m.compose.Focus()
}

func (m *Model) start() tea.Cmd {
	if m.typing {
		return nil
	}
	text := m.compose.Value()
	if err := typewriter.Validate(text); err != nil {
		m.setNotice(noticeError, "Please enter some text to type")
		return nil
	}

	m.session++
	session := m.session
	m.typing = true
	m.paused = false
	m.progress = 0
	m.setNotice(noticeInfo, "Started typing! Focus the target field with tab.")

	opts := m.opts
	opts.OnProgress = func(p int) {
		m.deliver(progressMsg{session: session, percent: p})
	}
	opts.OnComplete = func() {
		m.deliver(completeMsg{session: session})
	}
	// Pause and resume callbacks run synchronously inside Update.
	opts.OnPause = func() {
		m.paused = true
		m.setNotice(noticeInfo, "Typing paused")
	}
	opts.OnResume = func() {
		m.paused = false
		m.setNotice(noticeInfo, "Typing resumed")
	}

	engine := m.engine
	return func() tea.Msg {
		err := engine.Start(context.Background(), text, opts)
		return doneMsg{session: session, err: err}
	}
}

func (m *Model) deliver(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

func (m *Model) togglePause() {
	if !m.typing {
		return
	}
	if m.paused {
		m.engine.Resume()
		return
	}
	m.engine.Pause()
}

func (m *Model) stop() {
	if !m.typing {
		return
	}
	m.engine.Stop()
	// Drop progress and completion messages still in flight from this session.
	m.session++
	m.typing = false
	m.paused = false
	m.setNotice(noticeInfo, "Typing stopped")
}

func (m *Model) handleDone(msg doneMsg) tea.Cmd {
	if msg.session != m.session {
		return nil
	}
	m.typing = false
	m.paused = false
	if msg.err == nil {
		return nil
	}
	var derr *typewriter.DeliveryError
	if errors.As(msg.err, &derr) {
		m.setNotice(noticeError, fmt.Sprintf("Typing interrupted: %v", derr.Err))
		return nil
	}
	m.setNotice(noticeError, "Typing interrupted")
	return nil
}

func (m *Model) setNotice(kind noticeKind, text string) {
	m.noticeKind = kind
	m.notice = text
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := m.width - 4
	if contentWidth < 10 {
		contentWidth = 40
	}

	composeBox := boxStyle
	targetBox := boxStyle
	if m.focus == focusCompose {
		composeBox = activeBoxStyle
	} else {
		targetBox = activeBoxStyle
	}

	value := []rune(m.target.Value())
	caret := -1
	if m.focus == focusTarget {
		caret, _ = m.target.Selection()
	}
	wrapped := wrapStyledRunes(buildStyledRunes(value, caret), contentWidth)

	sections := []string{
		titleStyle.Render("scribe"),
		composeBox.Width(contentWidth).Render(m.compose.View()),
		footerStyle.Render(m.target.Name()),
		targetBox.Width(contentWidth).Render(wrapped),
		m.renderStatus(contentWidth),
	}
	if notice := m.renderNotice(); notice != "" {
		sections = append(sections, notice)
	}
	sections = append(sections, footerStyle.Render(helpLine))
	return strings.Join(sections, "\n")
}

const helpLine = "tab focus · ctrl+s start · ctrl+p pause/resume · ctrl+x stop · ctrl+l clear · ctrl+c quit"

func (m *Model) renderStatus(width int) string {
	state := "idle"
	switch {
	case m.typing && m.paused:
		state = "paused"
	case m.typing:
		state = "typing"
	}
	segments := []string{
		fmt.Sprintf("Progress %d%%", m.progress),
		state,
	}
	if m.focus == focusTarget {
		segments = append(segments, "target focused")
	} else {
		segments = append(segments, "no target focused")
	}
	line := strings.Join(segments, "  ")
	barWidth := width - len(line) - 3
	if barWidth < 10 {
		return footerStyle.Render(line)
	}
	return renderBar(m.progress, barWidth) + " " + footerStyle.Render(line)
}

func renderBar(progress, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	filled := progress * width / 100
	return progressOnStyle.Render(strings.Repeat("█", filled)) + footerStyle.Render(strings.Repeat("░", width-filled))
}

func (m *Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	switch m.noticeKind {
	case noticeSuccess:
		return successStyle.Render(m.notice)
	case noticeError:
		return errorStyle.Render(m.notice)
	default:
		return infoStyle.Render(m.notice)
	}
}
