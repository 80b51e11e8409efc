package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/bookshelf/internal/logtail"
)

// logTailLines is how many lines the overlay reads from the end of the log.
const logTailLines = 400

// logState holds the log overlay state.
type logState struct {
	open       bool
	errorsOnly bool
	lines      []string
	err        error
}

type logsLoadedMsg struct {
	lines []string
	err   error
}

func readLogsCmd(path string, errorsOnly bool) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logsLoadedMsg{}
		}
		var keep func(string) bool
		if errorsOnly {
			keep = logtail.IsError
		}
		lines, err := logtail.ReadFunc(path, logTailLines, keep)
		return logsLoadedMsg{lines: lines, err: err}
	}
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(1, m.width-4), max(1, m.height-4))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport resizes the viewport and refreshes its content.
func (m *Model) updateLogViewport() {
	// Box inner height = m.height - 1 (status line) - 2 (borders)
	m.logViewport.Width = max(1, m.width-4)
	m.logViewport.Height = max(1, m.height-3)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.CardFocus))
	m.logViewport.SetContent(m.renderLogContent())
}

func (m *Model) openLogs() tea.Cmd {
	m.logState.open = true
	m.updateLogViewport()
	return readLogsCmd(m.logFile, m.logState.errorsOnly)
}

func (m *Model) handleLogsLoaded(msg logsLoadedMsg) {
	if msg.err != nil {
		slog.Warn("read log", "path", m.logFile, "error", msg.err)
	}
	m.logState.lines = msg.lines
	m.logState.err = msg.err
	m.updateLogViewport()
	m.logViewport.GotoBottom()
}

// handleLogsKey processes keyboard input for the log overlay.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.logState.open = false
		return m, nil
	case key.Matches(msg, m.keys.ErrorsOnly):
		m.logState.errorsOnly = !m.logState.errorsOnly
		return m, readLogsCmd(m.logFile, m.logState.errorsOnly)
	case key.Matches(msg, m.keys.Reload):
		return m, readLogsCmd(m.logFile, m.logState.errorsOnly)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// renderLogs renders the log overlay.
func (m Model) renderLogs() string {
	title := "Application log"
	if m.logState.errorsOnly {
		title += " · errors only"
	}
	box := m.renderTitledBox(title, m.logViewport.View(), m.width, m.height-1, true)
	return box + "\n" + m.renderLogStatus()
}

func (m Model) renderLogStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Render(":", styles.FaintText)

	filter := "All"
	if m.logState.errorsOnly {
		filter = "Errors"
	}
	segments := []string{
		bg.Render("E", styles.AccentText) + colon + bg.Render(filter, styles.MutedText),
		bg.Render("r", styles.AccentText) + colon + bg.Render("Refresh", styles.MutedText),
		bg.Render("j/k", styles.AccentText) + colon + bg.Render("Scroll", styles.MutedText),
		bg.Render("L/esc", styles.AccentText) + colon + bg.Render("Close", styles.MutedText),
		bg.Render(fmt.Sprintf("%d lines", len(m.logState.lines)), styles.FaintText),
	}
	if path := strings.TrimSpace(m.logFile); path != "" {
		segments = append(segments, bg.Render(truncate(path, 50), styles.FaintText))
	}
	return styles.Header.Width(m.width).MaxWidth(m.width).MaxHeight(1).Render(bg.Join(segments, "  "))
}

// renderLogContent renders the colorized log lines.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.CardFocus)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if m.logState.err != nil {
		return bg.FillLine(bg.Render("Cannot read log file", styles.DangerText), width)
	}
	if len(m.logState.lines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	var b strings.Builder
	for i, line := range m.logState.lines {
		style := levelStyle(logtail.Level(line), styles)
		b.WriteString(bg.FillLine(bg.Render(truncate(line, width), style), width))
		if i < len(m.logState.lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.Text
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.MutedText
	}
}
