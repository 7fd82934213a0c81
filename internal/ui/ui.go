package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TrackListView ViewState = iota
	ConfirmView
	ResolveView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	resolver     tasks.Resolver
	queries      []models.TrackQuery
	width        int
	height       int
	trackList    list.Model
	resultList   list.Model
	progressChan chan models.ProgressInfo
	progress     models.ProgressInfo
	results      []models.TrackResult
	err          error
	help         help.Model
	keys         keyMap
}

type progressMsg models.ProgressInfo

type resolveCompleteMsg struct {
	results []models.TrackResult
	err     error
}

// NewModel creates a new TUI model over an already-parsed playlist.
func NewModel(ctx context.Context, resolver tasks.Resolver, queries []models.TrackQuery) *Model {
	items := make([]list.Item, len(queries))
	for i, q := range queries {
		items[i] = queryItem{query: q}
	}
	trackList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	trackList.Title = fmt.Sprintf("Playlist (%d tracks)", len(queries))

	return &Model{
		ctx:       ctx,
		view:      TrackListView,
		resolver:  resolver,
		queries:   queries,
		trackList: trackList,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		if m.resultList.Width() != 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case progressMsg:
		m.progress = models.ProgressInfo(msg)
		return m, m.waitForProgress()

	case resolveCompleteMsg:
		m.results = msg.results
		m.err = msg.err
		m.view = ResultView
		m.buildResultList()
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case ResolveView:
		return m.renderResolve()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = ResolveView
		return m, m.startResolve()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = TrackListView
		m.results = nil
		m.err = nil
		m.progress = models.ProgressInfo{}
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	case ResultView:
		m.resultList, cmd = m.resultList.Update(msg)
	}
	return m, cmd
}

func (m *Model) startResolve() tea.Cmd {
	m.progressChan = make(chan models.ProgressInfo, 50)

	go func() {
		results, err := m.resolver.ResolvePlaylist(m.ctx, m.queries, m.progressChan)
		m.results = results
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return resolveCompleteMsg{results: m.results, err: m.err}
		}

		info, ok := <-m.progressChan
		if !ok {
			m.progressChan = nil
			return resolveCompleteMsg{results: m.results, err: m.err}
		}
		return progressMsg(info)
	}
}

func (m *Model) buildResultList() {
	items := make([]list.Item, len(m.results))
	for i, res := range m.results {
		items[i] = matchItem{result: res}
	}
	m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.resultList.Title = "Resolution Results"
	m.resultList.SetSize(m.width-4, m.height-8)
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.resolve, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Resolve %d tracks against the catalog?", len(m.queries)))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func (m *Model) renderResolve() string {
	title := styles.title.Render("Resolving Playlist")

	status := fmt.Sprintf("%d/%d resolved • %s matched • %s unmatched",
		m.progress.CompletedTracks,
		m.progress.TotalTracks,
		styles.ok.Render(fmt.Sprintf("%d", m.progress.MatchedCount)),
		styles.warn.Render(fmt.Sprintf("%d", m.progress.UnmatchedCount)),
	)

	current := ""
	if m.progress.CurrentTrack != "" {
		current = styles.help.Render(m.progress.CurrentTrack)
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, status, current)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Resolution failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	matched := 0
	for _, res := range m.results {
		if res.Matched() {
			matched++
		}
	}

	summary := fmt.Sprintf("%s  %s",
		styles.ok.Render(fmt.Sprintf("✓ %d matched", matched)),
		styles.warn.Render(fmt.Sprintf("✗ %d unmatched", len(m.results)-matched)),
	)

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", summary, m.resultList.View(), helpView)
}
