package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmModal asks before deleting a book. Its answer arrives as a
// deleteAnswerMsg.
type confirmModal struct {
	title string
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes), key.Matches(km, keys.Confirm):
		return c, answerDelete(true), true
	case key.Matches(km, keys.No):
		return c, answerDelete(false), true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	title := strings.TrimSpace(c.title)
	if title == "" {
		title = "this book"
	} else {
		title = "“" + truncate(title, 40) + "”"
	}

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete book"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("Delete " + title + "?"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("This cannot be undone."))
	b.WriteString("\n\n")
	b.WriteString(formHint(styles, "y", "delete") + "  " + formHint(styles, "n/esc", "keep"))

	box := styles.Overlay.BorderForeground(lipgloss.Color(theme.Danger)).Render(b.String())
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func answerDelete(confirmed bool) tea.Cmd {
	return func() tea.Msg {
		return deleteAnswerMsg{confirmed: confirmed}
	}
}
