package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/services"
	"github.com/fernwalter/tunex/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	ConfirmView
	MigrateView
	ResultView
)

type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

type eventMsg tasks.Event

type migrationDoneMsg struct {
	summary *models.MigrationSummary
	err     error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	source       services.Source
	engine       *tasks.MigrationEngine
	width        int
	height       int
	playlistList list.Model
	playlists    []models.Playlist
	eventChan    chan tasks.Event
	lastEvent    tasks.Event
	summary      *models.MigrationSummary
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, source services.Source, engine *tasks.MigrationEngine) *Model {
	return &Model{
		ctx:    ctx,
		view:   PlaylistListView,
		source: source,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching playlists from the source.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlists != nil {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Source Playlists"
		if m.width > 0 {
			m.playlistList.SetSize(m.width-4, m.height-8)
		}
		return m, nil

	case eventMsg:
		m.lastEvent = tasks.Event(msg)
		return m, m.waitForEvent()

	case migrationDoneMsg:
		m.summary = msg.summary
		m.err = msg.err
		m.view = ResultView
		m.eventChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case ConfirmView:
		return m.renderConfirm()
	case MigrateView:
		return m.renderMigrate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.playlists == nil {
		if s := msg.String(); s == "q" || s == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		index := m.playlistList.Index()
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			item.selected = !item.selected
			return m, m.playlistList.SetItem(index, item)
		}
	case "enter":
		if len(m.selectedPlaylists()) > 0 {
			m.view = ConfirmView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = PlaylistListView
		return m, nil
	case "y":
		m.view = MigrateView
		return m, m.startMigration()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PlaylistListView
		m.summary = nil
		m.err = nil
		return m, m.fetchPlaylists()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == PlaylistListView && m.playlists != nil {
		m.playlistList, cmd = m.playlistList.Update(msg)
	}
	return m, cmd
}

// selectedPlaylists returns the playlists toggled for migration.
func (m *Model) selectedPlaylists() []models.Playlist {
	var selected []models.Playlist
	for _, item := range m.playlistList.Items() {
		if pl, ok := item.(playlistItem); ok && pl.selected {
			selected = append(selected, pl.playlist)
		}
	}
	return selected
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.source.GetPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

// startMigration launches the engine in a goroutine, bridging its sink into
// the TUI's event channel.
func (m *Model) startMigration() tea.Cmd {
	m.eventChan = make(chan tasks.Event, 64)
	events := m.eventChan
	selected := m.selectedPlaylists()

	go func() {
		sink := tasks.SinkFunc(func(event tasks.Event) {
			select {
			case events <- event:
			default:
			}
		})

		summary, err := m.engine.Migrate(m.ctx, selected, sink)
		m.summary = summary
		m.err = err
		close(events)
	}()

	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return migrationDoneMsg{summary: m.summary, err: m.err}
		}

		event, ok := <-m.eventChan
		if !ok {
			return migrationDoneMsg{summary: m.summary, err: m.err}
		}
		return eventMsg(event)
	}
}

func (m *Model) renderPlaylistList() string {
	if m.playlists == nil {
		return styles.help.Render("Loading playlists...")
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	selected := m.selectedPlaylists()
	title := styles.title.Render(fmt.Sprintf("Migrate %d playlist(s)?", len(selected)))

	info := ""
	for _, playlist := range selected {
		info += fmt.Sprintf("  • %s (%d tracks)\n", playlist.Name, playlist.TrackCount)
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderMigrate() string {
	title := styles.title.Render("Migrating Playlists")

	var status string
	switch m.lastEvent.Type {
	case tasks.EventPlaylistStarted:
		status = fmt.Sprintf("[%d/%d] %s", m.lastEvent.PlaylistIndex, m.lastEvent.TotalPlaylists, m.lastEvent.PlaylistName)
	case tasks.EventTracksLoaded:
		status = fmt.Sprintf("%s: %d tracks loaded", m.lastEvent.PlaylistName, m.lastEvent.TrackCount)
	case tasks.EventPlaylistCreated:
		status = fmt.Sprintf("Created %s", m.lastEvent.Title)
	case tasks.EventTrackProgress:
		status = fmt.Sprintf("[%d/%d] %s", m.lastEvent.Current, m.lastEvent.Total, m.lastEvent.Track)
	case tasks.EventPlaylistCompleted:
		status = fmt.Sprintf("%s: %d matched, %d unmatched", m.lastEvent.PlaylistName, m.lastEvent.Matched, m.lastEvent.Unmatched)
	case tasks.EventError:
		status = styles.warn.Render(m.lastEvent.Message)
	default:
		status = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s", title, status)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Migration failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.summary == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Migration Complete")
	info := fmt.Sprintf(
		"\nPlaylists: %d (%d migrated, %d failed)\nTracks: %d/%d matched (%.1f%%)",
		m.summary.TotalPlaylists,
		m.summary.Succeeded,
		m.summary.Failed,
		m.summary.MatchedTracks,
		m.summary.TotalTracks,
		m.summary.MatchRate(),
	)

	var unmatched string
	if m.summary.UnmatchedTracks > 0 {
		unmatched = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d tracks went unmatched:", m.summary.UnmatchedTracks)))
		for _, report := range m.summary.Reports {
			for _, label := range report.UnmatchedLabels {
				unmatched += fmt.Sprintf("\n  • %s", label)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, unmatched, helpView)
}
