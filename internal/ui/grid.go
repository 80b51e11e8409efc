package ui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/bookshelf/internal/catalog"
	"github.com/five82/bookshelf/internal/cover"
	"github.com/five82/bookshelf/internal/state"
)

// Card layout: border, cover, blank, author, description lines, actions.
const (
	cardDescriptionLines = 2
	cardChromeLines      = 2 + 1 + 1 + cardDescriptionLines + 1
	minCoverRows         = 4
)

// coverArt holds a rendered thumbnail for the normal and selected card
// backgrounds.
type coverArt struct {
	normal   string
	selected string
}

// selectedBook returns the book under the cursor.
func (m Model) selectedBook() (catalog.Book, bool) {
	if m.selected < 0 || m.selected >= len(m.screen.Books) {
		return catalog.Book{}, false
	}
	return m.screen.Books[m.selected], true
}

func (m Model) selectedID() string {
	if book, ok := m.selectedBook(); ok {
		return book.ID
	}
	return ""
}

// restoreSelection moves the cursor back to id after the list changed.
// When id is gone the cursor is clamped to the new list.
func (m *Model) restoreSelection(id string) {
	if id != "" {
		for i, book := range m.screen.Books {
			if book.ID == id {
				m.selected = i
				m.ensureVisible()
				return
			}
		}
	}
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if n := len(m.screen.Books); m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.ensureVisible()
}

// handleGridKey moves the selection through the card grid.
func (m *Model) handleGridKey(msg tea.KeyMsg) {
	count := len(m.screen.Books)
	if count == 0 {
		return
	}
	cols := m.columns()

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Right):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected-cols >= 0 {
			m.selected -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected+cols < count {
			m.selected += cols
		} else if m.selected/cols < (count-1)/cols {
			// Partial last row: land on its last card.
			m.selected = count - 1
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	}
	m.ensureVisible()
}

// ensureVisible scrolls so the selected card's row is on screen.
func (m *Model) ensureVisible() {
	cols := m.columns()
	rows := m.visibleRows()
	row := m.selected / cols
	if row < m.scrollRow {
		m.scrollRow = row
	}
	if row >= m.scrollRow+rows {
		m.scrollRow = row - rows + 1
	}
	if m.scrollRow < 0 {
		m.scrollRow = 0
	}
}

// columns returns how many cards fit side by side.
func (m Model) columns() int {
	if m.cardWidth <= 0 {
		return 1
	}
	return max(1, m.width/m.cardWidth)
}

func (m Model) gridHeight() int {
	return max(0, m.height-2) // header + command bar
}

func (m Model) visibleRows() int {
	return max(1, m.gridHeight()/m.cardHeight())
}

// coverSize returns the thumbnail size in cells.
func (m Model) coverSize() (int, int) {
	inner := m.cardWidth - 2
	return inner, max(minCoverRows, inner/2)
}

func (m Model) cardHeight() int {
	_, rows := m.coverSize()
	return rows + cardChromeLines
}

// renderArt draws the stored image for id at the current card size and theme.
func (m *Model) renderArt(id string) {
	img, ok := m.images[id]
	if !ok {
		return
	}
	w, h := m.coverSize()
	normal, err := cover.RenderImage(img, w, h, m.theme.Card)
	if err != nil {
		slog.Warn("render cover", "id", id, "error", err)
		m.failCover(id)
		return
	}
	selected, err := cover.RenderImage(img, w, h, m.theme.CardFocus)
	if err != nil {
		slog.Warn("render cover", "id", id, "error", err)
		m.failCover(id)
		return
	}
	m.art[id] = coverArt{normal: normal, selected: selected}
}

// rerenderCovers redraws every stored image after a theme or size change.
func (m *Model) rerenderCovers() {
	for id := range m.images {
		m.renderArt(id)
	}
}

// renderGrid renders the visible rows of cards.
func (m Model) renderGrid(height int) string {
	styles := m.theme.Styles()
	cards := m.screen.Cards()

	if len(cards) == 0 {
		msg := "No books yet. Press n to add one."
		if m.loading {
			msg = "Loading books..."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	cols := m.columns()
	rows := max(1, height/m.cardHeight())
	start := m.scrollRow * cols

	var lines []string
	for r := 0; r < rows; r++ {
		var row []string
		for c := 0; c < cols; c++ {
			i := start + r*cols + c
			if i >= len(cards) {
				break
			}
			row = append(row, m.renderCard(cards[i], i == m.selected))
		}
		if len(row) == 0 {
			break
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(lines, "\n")
}

// renderCard renders one book: cover, author, description and actions
// inside a box titled with the book's title.
func (m Model) renderCard(card state.Card, selected bool) string {
	bgColor := m.theme.Card
	if selected {
		bgColor = m.theme.CardFocus
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	inner := m.cardWidth - 2
	coverW, coverH := m.coverSize()

	var coverBlock string
	art, hasArt := m.art[card.Book.ID]
	switch {
	case card.Fallback:
		coverBlock = cover.Placeholder(card.Book.Title, coverW, coverH,
			styles.MutedText.Background(lipgloss.Color(bgColor)),
			styles.FaintText.Background(lipgloss.Color(bgColor)))
	case hasArt && selected:
		coverBlock = art.selected
	case hasArt:
		coverBlock = art.normal
	default:
		coverBlock = lipgloss.Place(coverW, coverH, lipgloss.Center, lipgloss.Center,
			bg.Render("loading cover", styles.FaintText))
	}

	lines := strings.Split(coverBlock, "\n")
	lines = append(lines, "")
	lines = append(lines, bg.Render("by "+truncate(card.Book.Author, inner-3), styles.MutedText))

	desc := wrapLines(card.Book.Description, inner, cardDescriptionLines)
	for i := 0; i < cardDescriptionLines; i++ {
		if i < len(desc) {
			lines = append(lines, bg.Render(desc[i], styles.Text))
		} else {
			lines = append(lines, "")
		}
	}

	keyStyle := styles.FaintText
	if selected {
		keyStyle = styles.Key
	}
	lines = append(lines,
		bg.Render("e", keyStyle)+bg.Render(" edit", styles.MutedText)+bg.Spaces(2)+
			bg.Render("d", keyStyle)+bg.Render(" delete", styles.MutedText))

	title := truncate(card.Book.Title, inner-4)
	if title == "" {
		title = "Untitled"
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.cardWidth, m.cardHeight(), selected)
}

// renderTitledBox renders content in a box with the title embedded in the top border:
// ┌─── Title ───┐
// Focused boxes use the focus border and background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.CardFocus
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.Card
	}
	bg := NewBgStyle(bgColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := width - 2
	titleLen := lipgloss.Width(title)
	leftPad := max(0, (innerWidth-titleLen-2)/2) // -2 for spaces around title
	rightPad := max(0, innerWidth-titleLen-2-leftPad)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	var paddedLines []string
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
