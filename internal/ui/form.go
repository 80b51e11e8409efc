package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/bookshelf/internal/catalog"
	"github.com/five82/bookshelf/internal/config"
	"github.com/five82/bookshelf/internal/state"
)

type formField int

const (
	formTitle formField = iota
	formAuthor
	formDescription
	formCover
	formFieldCount
)

const (
	maxFormWidth      = 72
	descriptionHeight = 5
)

// bookForm holds the widgets of the create/edit overlay. The values are
// mirrored into state.Screen after every edit.
type bookForm struct {
	title       textinput.Model
	author      textinput.Model
	description textarea.Model
	coverPath   textinput.Model

	focus      formField
	editing    bool
	coverName  string // file name of the loaded cover
	coverSize  int
	loadedPath string
	coverErr   string
	missing    []state.Field
}

func newBookForm(f state.Form, editing bool, width int) (bookForm, tea.Cmd) {
	form := bookForm{
		title:       newTextInput("Title"),
		author:      newTextInput("Author"),
		description: textarea.New(),
		coverPath:   newTextInput("Path to an image file (optional)"),
		editing:     editing,
	}
	form.title.SetValue(f.Title)
	form.author.SetValue(f.Author)

	form.description.Placeholder = "Description"
	form.description.ShowLineNumbers = false
	// No limits: SetValue would silently cut an existing description.
	form.description.CharLimit = 0
	form.description.MaxHeight = 0
	form.description.SetHeight(descriptionHeight)
	form.description.SetValue(f.Description)

	form.setWidth(width)
	cmd := form.focusField(formTitle)
	return form, cmd
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 0
	ti.Prompt = ""
	return ti
}

func (f *bookForm) setWidth(width int) {
	f.title.Width = width
	f.author.Width = width
	f.coverPath.Width = width
	f.description.SetWidth(width)
}

// focusField moves input focus to field.
func (f *bookForm) focusField(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.author.Blur()
	f.description.Blur()
	f.coverPath.Blur()

	switch field {
	case formTitle:
		return f.title.Focus()
	case formAuthor:
		return f.author.Focus()
	case formDescription:
		return f.description.Focus()
	case formCover:
		return f.coverPath.Focus()
	}
	return nil
}

func (f *bookForm) cycleFocus(delta int) tea.Cmd {
	next := (int(f.focus) + delta + int(formFieldCount)) % int(formFieldCount)
	return f.focusField(formField(next))
}

// update forwards msg to the focused widget.
func (f bookForm) update(msg tea.Msg) (bookForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case formTitle:
		f.title, cmd = f.title.Update(msg)
	case formAuthor:
		f.author, cmd = f.author.Update(msg)
	case formDescription:
		f.description, cmd = f.description.Update(msg)
	case formCover:
		f.coverPath, cmd = f.coverPath.Update(msg)
	}
	return f, cmd
}

func (m *Model) formWidth() int {
	return max(20, min(maxFormWidth, m.width-12))
}

func (m *Model) resizeForm() {
	if m.screen.ModalOpen {
		m.form.setWidth(m.formWidth())
	}
}

// syncForm copies the widget values into the screen's form.
func (m *Model) syncForm() {
	m.screen.UpdateField(state.FieldTitle, m.form.title.Value())
	m.screen.UpdateField(state.FieldAuthor, m.form.author.Value())
	m.screen.UpdateField(state.FieldDescription, m.form.description.Value())
}

// handleFormKey processes keyboard input while the form is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.screen.CancelForm()
		m.form = bookForm{}
		return m, nil

	case m.screen.SavingOpenForm():
		// Edits would be discarded when the save completes.
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()

	case key.Matches(msg, m.keys.NextField):
		return m, m.form.cycleFocus(1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.cycleFocus(-1)

	case key.Matches(msg, m.keys.Confirm) && m.form.focus == formCover:
		path := strings.TrimSpace(m.form.coverPath.Value())
		if path == "" {
			return m, nil
		}
		return m, readCoverCmd(path, false)

	case key.Matches(msg, m.keys.Confirm) && m.form.focus != formDescription:
		return m, m.form.cycleFocus(1)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	m.syncForm()
	if m.form.focus == formCover && strings.TrimSpace(m.form.coverPath.Value()) == "" {
		m.dropCover()
	}
	if len(m.form.missing) > 0 {
		m.form.missing = m.screen.Form.Missing()
	}
	return m, cmd
}

// submitForm loads a newly entered cover path first, then submits.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.form.coverPath.Value())
	if path == "" {
		m.dropCover()
	} else if path != m.form.loadedPath {
		return m, readCoverCmd(path, true)
	}
	return m.beginSubmit()
}

// dropCover forgets a previously loaded cover file.
func (m *Model) dropCover() {
	m.screen.ClearCover()
	m.form.coverName = ""
	m.form.coverSize = 0
	m.form.loadedPath = ""
	m.form.coverErr = ""
}

func (m Model) beginSubmit() (tea.Model, tea.Cmd) {
	m.syncForm()
	req, err := m.screen.BeginSubmit()
	if err != nil {
		switch {
		case errors.Is(err, state.ErrIncomplete):
			m.form.missing = m.screen.Form.Missing()
		case errors.Is(err, state.ErrInFlight):
			slog.Debug("submit refused", "error", err)
		}
		return m, nil
	}
	m.form.missing = nil
	return m, tea.Batch(m.spinner.Tick, submitCmd(m.ctx, m.client, req))
}

// applyCoverFile stores a cover read from disk as the pending upload.
func (m Model) applyCoverFile(msg coverFileMsg) (tea.Model, tea.Cmd) {
	if !m.screen.ModalOpen {
		return m, nil
	}
	if msg.err != nil {
		slog.Warn("read cover file", "path", msg.path, "error", msg.err)
		m.form.coverErr = "Cannot read " + filepath.Base(msg.path)
		return m, nil
	}
	m.screen.UpdateCover([]catalog.CoverFile{msg.file})
	m.form.coverName = msg.file.Name
	m.form.coverSize = len(msg.file.Data)
	m.form.loadedPath = msg.path
	m.form.coverErr = ""
	if msg.submit {
		return m.beginSubmit()
	}
	return m, nil
}

type coverFileMsg struct {
	path   string
	file   catalog.CoverFile
	err    error
	submit bool
}

func readCoverCmd(path string, submit bool) tea.Cmd {
	return func() tea.Msg {
		resolved, err := config.ExpandPath(path)
		if err != nil {
			return coverFileMsg{path: path, err: err, submit: submit}
		}
		data, err := os.ReadFile(resolved)
		if err == nil && len(data) == 0 {
			err = fmt.Errorf("%s is empty", resolved)
		}
		if err != nil {
			return coverFileMsg{path: path, err: err, submit: submit}
		}
		return coverFileMsg{
			path:   path,
			file:   catalog.CoverFile{Name: filepath.Base(resolved), Data: data},
			submit: submit,
		}
	}
}

// renderForm renders the create/edit overlay.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form

	heading := "New book"
	if f.editing {
		heading = "Edit book"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(heading))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", m.formWidth())))
	b.WriteString("\n\n")

	fields := []struct {
		label string
		field state.Field
		view  string
		focus formField
	}{
		{"Title", state.FieldTitle, f.title.View(), formTitle},
		{"Author", state.FieldAuthor, f.author.View(), formAuthor},
		{"Description", state.FieldDescription, f.description.View(), formDescription},
	}
	for _, fld := range fields {
		b.WriteString(m.formLabel(fld.label+" *", f.focus == fld.focus, slices.Contains(f.missing, fld.field)))
		b.WriteString("\n")
		b.WriteString(fld.view)
		b.WriteString("\n\n")
	}

	b.WriteString(m.formLabel("Cover", f.focus == formCover, false))
	b.WriteString("\n")
	b.WriteString(f.coverPath.View())
	b.WriteString("\n")
	b.WriteString(m.coverStatus())
	b.WriteString("\n\n")

	if m.screen.Err != "" {
		b.WriteString(styles.DangerText.Render(m.screen.Err))
		b.WriteString("\n")
	}

	if m.screen.SavingOpenForm() {
		b.WriteString(m.spinner.View() + " " + styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(formHint(styles, "tab", "next field") + "  " +
			formHint(styles, "enter", "load cover") + "  " +
			formHint(styles, "ctrl+s", "save") + "  " +
			formHint(styles, "esc", "cancel"))
	}

	box := styles.Overlay.Width(m.formWidth() + 6).Render(b.String())
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

func (m Model) formLabel(label string, focused, missing bool) string {
	styles := m.theme.Styles()
	style := styles.MutedText
	if focused {
		style = styles.AccentText.Bold(true)
	}
	out := style.Render(label)
	if missing {
		out += " " + styles.DangerText.Render("required")
	}
	return out
}

func (m Model) coverStatus() string {
	styles := m.theme.Styles()
	f := m.form
	switch {
	case f.coverErr != "":
		return styles.DangerText.Render(f.coverErr)
	case f.coverName != "":
		return styles.SuccessText.Render(fmt.Sprintf("Selected %s (%s)", f.coverName, humanSize(f.coverSize)))
	case f.editing:
		return styles.FaintText.Render("Current cover is kept unless a new file is chosen")
	default:
		return styles.FaintText.Render("No cover selected")
	}
}

func formHint(styles Styles, k, desc string) string {
	return styles.Key.Render(k) + " " + styles.MutedText.Render(desc)
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
