package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/clipshare/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.ShowHelp = false
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Escape):
		// Clear active filter first, then the server search
		if m.Grid.IsFiltering() {
			m.Grid.ClearFilter()
			return m, nil
		}
		if m.State.Query != "" {
			m.State.Loading = true
			return m, SearchCmd(m.store, "", m.timeout)
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.Grid.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.Search.Show(m.State.Query)
		return m, m.Search.Init()

	case key.Matches(msg, Keys.Upload):
		m.Upload.Show()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.State.Loading = true
		return m, RefreshCmds(m.store, m.timeout)

	case key.Matches(msg, Keys.Open):
		return m.openSelected()

	case key.Matches(msg, Keys.Like):
		if v, ok := m.Grid.Selected(); ok {
			return m.like(v.ID)
		}
		return m, nil

	case key.Matches(msg, Keys.Play):
		if v, ok := m.Grid.Selected(); ok {
			return m, m.play(v.Title, m.resolve(v.VideoURL))
		}
		return m, nil
	}

	// Let the grid handle remaining keys (h/j/k/l navigation)
	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	return m, cmd
}

// routeToModal routes key input to active modals
// Returns (handled, model, cmd) where handled is true if a modal consumed the input
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	if m.Upload.IsVisible() {
		wasUploading := m.Upload.IsUploading()
		var cmd tea.Cmd
		var submitted bool
		m.Upload, cmd, submitted = m.Upload.Update(msg)
		if submitted && !wasUploading {
			return true, m, m.startUpload()
		}
		return true, m, cmd
	}

	if m.Search.IsVisible() {
		var cmd tea.Cmd
		var action components.SearchAction
		m.Search, cmd, action = m.Search.Update(msg)
		switch action {
		case components.SearchSubmit:
			m.State.Loading = true
			return true, m, SearchCmd(m.store, m.Search.Query(), m.timeout)
		case components.SearchCancel:
			m.Search.Hide()
			return true, m, nil
		case components.SearchClearHistory:
			return true, m, m.clearHistory()
		}
		return true, m, cmd
	}

	if m.Detail.IsVisible() {
		video := m.Detail.Video()
		switch {
		case key.Matches(msg, Keys.Escape):
			m.Detail.Hide()
			m.store.Deselect()
			m.sync()
		case key.Matches(msg, Keys.Like):
			var cmd tea.Cmd
			m, cmd = m.like(video.ID)
			return true, m, cmd
		case key.Matches(msg, Keys.Play):
			return true, m, m.play(video.Title, m.Detail.MediaURL())
		case key.Matches(msg, Keys.Quit):
			return true, m, tea.Quit
		}
		return true, m, nil
	}

	if m.Grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		return true, m, cmd
	}

	return false, m, nil
}

// openSelected selects the highlighted video, counts the view and shows its details
func (m Model) openSelected() (Model, tea.Cmd) {
	v, ok := m.Grid.Selected()
	if !ok {
		return m, nil
	}
	selected, record, ok := m.store.Select(v.ID)
	if !ok {
		return m, nil
	}
	m.sync()
	m.Detail.Show(selected, m.resolve(selected.VideoURL))
	return m, RecordViewCmd(record, selected.ID, m.timeout)
}

func (m Model) like(id string) (Model, tea.Cmd) {
	m.pendingLikes++
	return m, LikeCmd(m.store, id, m.timeout)
}

// clearHistory forgets every saved search and empties the suggestion list
func (m *Model) clearHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	if err := m.history.Clear(); err != nil {
		m.logger.Error("failed to clear search history", "error", err)
		return m.setStatus("Could not clear search history", true)
	}
	m.Search.RefreshSuggestions()
	return m.setStatus("Search history cleared", false)
}

func (m Model) play(title, url string) tea.Cmd {
	if m.player == nil {
		return m.setStatusCmd("No video player configured", true)
	}
	return PlayCmd(m.player, title, url)
}

// setStatusCmd emits a status message from a value receiver
func (m Model) setStatusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Message: text, IsError: isErr}
	}
}

// startUpload kicks off the upload command and its progress listener
func (m *Model) startUpload() tea.Cmd {
	m.progress = make(chan UploadProgressMsg, 16)
	m.Upload.SetUploading(0)
	return tea.Batch(
		UploadCmd(m.store, m.Upload.Values(), m.progress),
		WaitForProgressCmd(m.progress),
	)
}
