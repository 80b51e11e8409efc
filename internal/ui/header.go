package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, book count, activity and the
// current error message.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("bookshelf", styles.Logo),
		bg.Render(bookCount(len(m.screen.Books)), styles.MutedText),
	}

	if activity := m.activity(); activity != "" {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+
			bg.Render(activity, styles.WarningText))
	}

	if m.screen.Err != "" {
		parts = append(parts, bg.Render("● "+m.screen.Err, styles.DangerText))
	}

	if failed := m.screen.FailedCovers(); failed > 0 && m.width >= 100 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d cover(s) unavailable", failed), styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		MaxWidth(m.width).
		MaxHeight(1).
		Render(bg.Join(parts, "  "))
}

// activity describes the running request, if any.
func (m Model) activity() string {
	switch {
	case m.screen.InFlight:
		return "Saving..."
	case m.deleting:
		return "Deleting..."
	case m.loading:
		return "Loading..."
	}
	return ""
}

func bookCount(n int) string {
	if n == 1 {
		return "1 book"
	}
	return fmt.Sprintf("%d books", n)
}

// renderCommandBar renders the command hints bar from the key map.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Render(":", styles.FaintText)

	bindings := m.keys.ShortHelp()
	segments := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		segments = append(segments, commandSegment(b, bg, styles, colon))
	}
	segments = append(segments,
		bg.Render("+/-", styles.AccentText)+colon+bg.Render(fmt.Sprintf("Width %d", m.cardWidth), styles.FaintText),
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText),
	)

	return styles.Header.Width(m.width).MaxWidth(m.width).MaxHeight(1).Render(bg.Join(segments, "  "))
}

func commandSegment(b key.Binding, bg BgStyle, styles Styles, colon string) string {
	h := b.Help()
	return bg.Render(h.Key, styles.AccentText) + colon + bg.Render(h.Desc, styles.MutedText)
}
