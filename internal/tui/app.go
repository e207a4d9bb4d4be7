package tui

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/clipshare/internal/catalog"
	"github.com/mmcdole/clipshare/internal/domain"
	"github.com/mmcdole/clipshare/internal/tui/components"
)

const (
	tickInterval   = 100 * time.Millisecond
	statusTimeout  = 3 * time.Second
	errorTimeout   = 5 * time.Second
	defaultTimeout = 30 * time.Second
)

// Player opens a media URL outside the terminal
type Player interface {
	Play(url string) error
}

// Options configures the model's collaborators
type Options struct {
	Columns int
	History domain.HistoryStore // nil disables search history
	Player  Player              // nil disables playback
	Resolve func(string) string // makes a videoUrl absolute; identity when nil
	Timeout time.Duration       // deadline for each catalog request; 30s when zero
	Logger  *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	store   *catalog.Store
	history domain.HistoryStore
	player  Player
	resolve func(string) string
	timeout time.Duration
	logger  *slog.Logger

	// UI Components
	Grid   components.Grid
	Detail components.Detail
	Search components.SearchModal
	Upload components.UploadForm

	// Last store snapshot; refreshed after every settled intent
	State catalog.State

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	ShowHelp     bool
	StatusMsg    string
	StatusIsErr  bool
	statusID     int
	SpinnerFrame int
	pendingLikes int

	progress chan UploadProgressMsg
}

// NewModel creates the application model around store
func NewModel(store *catalog.Store, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	resolve := opts.Resolve
	if resolve == nil {
		resolve = func(u string) string { return u }
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var suggest components.SuggestFunc
	if opts.History != nil {
		suggest = opts.History.Suggest
	}

	return Model{
		store:   store,
		history: opts.History,
		player:  opts.Player,
		resolve: resolve,
		timeout: timeout,
		logger:  logger,
		Grid:    components.NewGrid(opts.Columns),
		Detail:  components.NewDetail(),
		Search:  components.NewSearchModal(suggest),
		Upload:  components.NewUploadForm(),
		State:   store.Snapshot(),
	}
}

// Init loads the catalog and stats and starts the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		RefreshCmds(m.store, m.timeout),
		TickCmd(tickInterval),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(tickInterval)

	case CatalogLoadedMsg:
		// Failures render as the error state, not a notice
		m.sync()
		return m, nil

	case StatsLoadedMsg:
		m.sync()
		return m, nil

	case SearchDoneMsg:
		m.sync()
		if errors.Is(msg.Err, catalog.ErrSuperseded) {
			return m, nil
		}
		if msg.Err != nil {
			return m, m.setStatus("Search failed: "+userMessage(msg.Err), true)
		}
		if msg.Query != "" && m.history != nil {
			if err := m.history.Add(msg.Query); err != nil {
				m.logger.Warn("failed to save search history", "error", err)
			}
		}
		return m, nil

	case LikeDoneMsg:
		m.pendingLikes--
		m.sync()
		if errors.Is(msg.Err, catalog.ErrSuperseded) {
			return m, nil
		}
		if msg.Err != nil {
			return m, m.setStatus("Like failed: "+userMessage(msg.Err), true)
		}
		return m, nil

	case ViewRecordedMsg:
		return m, nil

	case UploadProgressMsg:
		if m.progress == nil {
			// Late report after the upload settled
			return m, nil
		}
		m.Upload.SetProgress(msg.Sent, msg.Total)
		return m, WaitForProgressCmd(m.progress)

	case UploadDoneMsg:
		m.progress = nil
		m.sync()
		if msg.Err != nil {
			if domain.KindOf(msg.Err) == domain.KindValidation {
				m.Upload.SetError(userMessage(msg.Err))
				return m, nil
			}
			m.Upload.SetError("Upload failed: " + userMessage(msg.Err))
			return m, m.setStatus("Upload failed", true)
		}
		m.Upload.Hide()
		return m, m.setStatus("Video uploaded!", false)

	case PlaybackStartedMsg:
		return m, m.setStatus("Playing: "+msg.Title, false)

	case ErrMsg:
		m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.ID == m.statusID {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	switch {
	case m.Search.IsVisible():
		m.Search, cmd, _ = m.Search.Update(msg)
	case m.Upload.IsVisible():
		m.Upload, cmd, _ = m.Upload.Update(msg)
	case m.Grid.IsFilterTyping():
		m.Grid, cmd = m.Grid.Update(msg)
	}
	return m, cmd
}

// sync re-reads the store and pushes the snapshot into the components
func (m *Model) sync() {
	m.State = m.store.Snapshot()
	m.Grid.SetVideos(m.State.Videos)
	if m.State.Selected != nil {
		m.Detail.SetVideo(*m.State.Selected)
	}
}

// setStatus shows a temporary notice
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	d := statusTimeout
	if isErr {
		d = errorTimeout
	}
	return ClearStatusCmd(m.statusID, d)
}

// busy reports whether any request the footer should show is in flight
func (m Model) busy() bool {
	return m.State.Loading || m.pendingLikes > 0 || m.Upload.IsUploading()
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	header := RenderHeader(m.State.Stats, m.State.Query, m.Width)
	footer := RenderFooter(m.StatusMsg, m.StatusIsErr, m.busy(), m.SpinnerFrame, m.Width)
	bodyHeight := max(m.Height-ChromeHeight, 1)

	var body string
	if modal := m.activeModal(); modal != "" {
		body = lipgloss.Place(m.Width, bodyHeight, lipgloss.Center, lipgloss.Center, modal)
	} else {
		body = lipgloss.NewStyle().
			Width(m.Width).
			Height(bodyHeight).
			Padding(0, 1).
			Render(m.renderBody())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderBody renders exactly one of the four display states
func (m Model) renderBody() string {
	switch m.State.Display() {
	case catalog.DisplayLoading:
		return RenderLoading(m.SpinnerFrame)
	case catalog.DisplayError:
		return RenderError(m.State.Err, m.Width-2)
	case catalog.DisplayEmpty:
		return RenderEmpty(m.State.Query)
	default:
		return m.Grid.View()
	}
}

// activeModal returns the rendered overlay, if any
func (m Model) activeModal() string {
	switch {
	case m.ShowHelp:
		return RenderHelp(Keys)
	case m.Upload.IsVisible():
		return m.Upload.View()
	case m.Search.IsVisible():
		return m.Search.View()
	case m.Detail.IsVisible():
		return m.Detail.View()
	}
	return ""
}
