package tui

// ChromeHeight is the header plus the footer
const ChromeHeight = 2

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(m.Height-ChromeHeight, 1)

	// Body padding takes one column each side
	m.Grid.SetSize(m.Width-2, contentHeight)

	// Modals size themselves relative to the window
	m.Detail.SetSize(m.Width, contentHeight)
	m.Search.SetSize(m.Width, contentHeight)
	m.Upload.SetSize(m.Width, contentHeight)
}
