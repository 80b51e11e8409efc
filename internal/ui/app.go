package ui

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bookshelf/internal/catalog"
	"github.com/five82/bookshelf/internal/cover"
	"github.com/five82/bookshelf/internal/prefs"
	"github.com/five82/bookshelf/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    catalog.BookAPI
	Prefs     prefs.Prefs
	PrefsPath string
	LogFile   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    catalog.BookAPI
	keys      keyMap
	prefsPath string
	logFile   string

	// UI state
	theme     Theme
	cardWidth int
	width     int
	height    int
	ready     bool
	spinner   spinner.Model
	help      help.Model

	// Data state
	screen   *state.Screen
	loading  bool
	deleting bool

	// Grid state
	selected  int
	scrollRow int

	// Covers keyed by book id
	images map[string]image.Image
	art    map[string]coverArt

	// Overlays
	form     bookForm
	modal    Modal
	showHelp bool

	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs.Theme = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(userPrefs.Theme)
	return Model{
		ctx:       ctx,
		client:    opts.Client,
		keys:      DefaultKeyMap(),
		prefsPath: prefsPath,
		logFile:   opts.LogFile,
		theme:     theme,
		cardWidth: prefs.ClampCardWidth(userPrefs.CardWidth),
		spinner:   newSpinner(theme),
		help:      help.New(),
		screen:    state.New(),
		loading:   true,
		images:    make(map[string]image.Image),
		art:       make(map[string]coverArt),
	}
}

func newSpinner(theme Theme) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Styles().AccentText),
	)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.client))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.resizeForm()
		m.updateLogViewport()
		m.ensureVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case booksLoadedMsg:
		m.loading = false
		return m, m.applyLoad(msg.result)

	case submitDoneMsg:
		prev := m.selectedID()
		m.screen.FinishSubmit(msg.result)
		if !m.screen.ModalOpen {
			m.form = bookForm{}
		}
		if msg.result.Reload == nil {
			return m, nil
		}
		m.restoreSelection(prev)
		return m, m.afterLoad(*msg.result.Reload)

	case deleteAnswerMsg:
		id, ok := m.screen.ResolveDelete(msg.confirmed)
		if !ok {
			return m, nil
		}
		m.deleting = true
		return m, tea.Batch(m.spinner.Tick, deleteCmd(m.ctx, m.client, id))

	case deleteDoneMsg:
		m.deleting = false
		prev := m.selectedID()
		m.screen.FinishDelete(msg.result)
		if msg.result.Reload == nil {
			return m, nil
		}
		m.restoreSelection(prev)
		return m, m.afterLoad(*msg.result.Reload)

	case coverMsg:
		m.applyCover(msg)
		return m, nil

	case coverFileMsg:
		return m.applyCoverFile(msg)

	case logsLoadedMsg:
		m.handleLogsLoaded(msg)
		return m, nil
	}

	// Cursor blink and other widget messages belong to the open form.
	if m.screen.ModalOpen {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.logState.open {
		return m.renderLogs()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	if m.screen.ModalOpen {
		return m.renderForm()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		var (
			cmd    tea.Cmd
			closed bool
		)
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.logState.open {
		return m.handleLogsKey(msg)
	}

	if m.screen.ModalOpen {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = m.theme.Styles().AccentText
		m.savePrefs()
		m.rerenderCovers()
		return m, nil

	case key.Matches(msg, m.keys.WiderCard):
		m.resizeCards(2)
		return m, nil

	case key.Matches(msg, m.keys.NarrowCard):
		m.resizeCards(-2)
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		return m, m.openLogs()

	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.client))

	case key.Matches(msg, m.keys.New):
		m.screen.StartCreate()
		var cmd tea.Cmd
		m.form, cmd = newBookForm(m.screen.Form, m.screen.IsEditing(), m.formWidth())
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		book, ok := m.selectedBook()
		if !ok {
			return m, nil
		}
		m.screen.StartEdit(book)
		var cmd tea.Cmd
		m.form, cmd = newBookForm(m.screen.Form, m.screen.IsEditing(), m.formWidth())
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		book, ok := m.selectedBook()
		if !ok || m.deleting {
			return m, nil
		}
		if m.screen.RequestDelete(book.ID) {
			m.modal = confirmModal{title: book.Title}
		}
		return m, nil
	}

	m.handleGridKey(msg)
	return m, nil
}

// busy reports whether a request is running.
func (m Model) busy() bool {
	return m.loading || m.deleting || m.screen.InFlight
}

// applyLoad applies a list result, keeping the selection on the same book.
func (m *Model) applyLoad(r state.LoadResult) tea.Cmd {
	prev := m.selectedID()
	m.screen.ApplyLoad(r)
	if r.Err != nil {
		return nil
	}
	m.restoreSelection(prev)
	return m.afterLoad(r)
}

// afterLoad refreshes covers for every listed book not already in fallback.
func (m *Model) afterLoad(r state.LoadResult) tea.Cmd {
	if r.Err != nil {
		return nil
	}
	m.clampSelection()

	listed := make(map[string]struct{}, len(m.screen.Books))
	var cmds []tea.Cmd
	for _, book := range m.screen.Books {
		listed[book.ID] = struct{}{}
		if m.screen.CoverFailed(book.ID) {
			continue
		}
		cmds = append(cmds, coverCmd(m.ctx, m.client, book))
	}
	for id := range m.images {
		if _, ok := listed[id]; !ok {
			delete(m.images, id)
			delete(m.art, id)
		}
	}
	return tea.Batch(cmds...)
}

// applyCover stores a decoded cover or moves the book to its fallback.
// Results for books no longer listed are dropped.
func (m *Model) applyCover(msg coverMsg) {
	if _, ok := m.screen.Book(msg.id); !ok || m.screen.CoverFailed(msg.id) {
		return
	}
	if msg.err != nil {
		slog.Warn("cover unavailable", "id", msg.id, "error", msg.err)
		m.failCover(msg.id)
		return
	}
	m.images[msg.id] = msg.img
	m.renderArt(msg.id)
}

func (m *Model) failCover(id string) {
	m.screen.MarkCoverFailed(id)
	delete(m.images, id)
	delete(m.art, id)
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, CardWidth: m.cardWidth}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		slog.Warn("save prefs", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) resizeCards(delta int) {
	width := prefs.ClampCardWidth(m.cardWidth + delta)
	if width == m.cardWidth {
		return
	}
	m.cardWidth = width
	m.savePrefs()
	m.rerenderCovers()
	m.ensureVisible()
}

// renderMain renders the header, command bar and card grid.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderGrid(m.gridHeight()))
	return b.String()
}

// Messages

type booksLoadedMsg struct{ result state.LoadResult }

type submitDoneMsg struct{ result state.SubmitResult }

type deleteDoneMsg struct{ result state.DeleteResult }

type deleteAnswerMsg struct{ confirmed bool }

type coverMsg struct {
	id  string
	img image.Image
	err error
}

// Commands

var errNoCover = errors.New("book has no cover")

func loadCmd(ctx context.Context, api catalog.BookAPI) tea.Cmd {
	return func() tea.Msg {
		return booksLoadedMsg{result: state.Load(ctx, api)}
	}
}

func submitCmd(ctx context.Context, api catalog.BookAPI, req state.SubmitRequest) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{result: state.Submit(ctx, api, req)}
	}
}

func deleteCmd(ctx context.Context, api catalog.BookAPI, id string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{result: state.Delete(ctx, api, id)}
	}
}

func coverCmd(ctx context.Context, api catalog.BookAPI, book catalog.Book) tea.Cmd {
	return func() tea.Msg {
		if !book.HasCover() {
			return coverMsg{id: book.ID, err: errNoCover}
		}
		data, err := api.FetchCover(ctx, book.Cover)
		if err != nil {
			return coverMsg{id: book.ID, err: err}
		}
		img, err := cover.Decode(data)
		return coverMsg{id: book.ID, img: img, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
