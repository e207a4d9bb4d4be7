package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/clipshare/internal/tui/styles"
)

const maxSuggestions = 6

// SearchAction is what the search modal asks the app to do
type SearchAction int

const (
	SearchNone SearchAction = iota
	SearchSubmit
	SearchCancel
	SearchClearHistory
)

// SuggestFunc returns recent queries ranked against the typed text
type SuggestFunc func(input string, limit int) []string

// SearchModal is the server search prompt with query history
type SearchModal struct {
	input       textinput.Model
	suggest     SuggestFunc
	suggestions []string
	cursor      int // -1 while the input line is selected
	visible     bool
	width       int
	height      int
	prevInput   string
}

// NewSearchModal creates a search modal. suggest may be nil.
func NewSearchModal(suggest SuggestFunc) SearchModal {
	ti := textinput.New()
	ti.Placeholder = "Search titles and descriptions..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchModal{input: ti, suggest: suggest, cursor: -1}
}

// Show opens the modal prefilled with the active query
func (s *SearchModal) Show(current string) {
	s.visible = true
	s.input.SetValue(current)
	s.input.CursorEnd()
	s.input.Focus()
	s.cursor = -1
	s.prevInput = current
	s.RefreshSuggestions()
}

// Hide closes the modal
func (s *SearchModal) Hide() {
	s.visible = false
	s.input.Blur()
}

// IsVisible returns whether the modal is shown
func (s SearchModal) IsVisible() bool {
	return s.visible
}

// Query returns the query to submit: the highlighted suggestion or the input
func (s SearchModal) Query() string {
	if s.cursor >= 0 && s.cursor < len(s.suggestions) {
		return s.suggestions[s.cursor]
	}
	return strings.TrimSpace(s.input.Value())
}

// Suggestions returns the suggestions currently listed
func (s SearchModal) Suggestions() []string {
	return s.suggestions
}

// SetSize updates the component dimensions
func (s *SearchModal) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.input.Width = max(width*2/3-10, 20)
}

// RefreshSuggestions re-reads the suggestions for the current input
func (s *SearchModal) RefreshSuggestions() {
	s.suggestions = nil
	if s.suggest != nil {
		s.suggestions = s.suggest(s.input.Value(), maxSuggestions)
	}
	if s.cursor >= len(s.suggestions) {
		s.cursor = -1
	}
}

// Init starts the cursor blink
func (s SearchModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input; the returned action tells the caller what to do
func (s SearchModal) Update(msg tea.Msg) (SearchModal, tea.Cmd, SearchAction) {
	if !s.visible {
		return s, nil, SearchNone
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, searchKeys.Escape):
			s.Hide()
			return s, nil, SearchCancel
		case key.Matches(keyMsg, searchKeys.Enter):
			s.Hide()
			return s, nil, SearchSubmit
		case key.Matches(keyMsg, searchKeys.ClearHistory):
			s.cursor = -1
			return s, nil, SearchClearHistory
		case key.Matches(keyMsg, searchKeys.Down):
			if s.cursor < len(s.suggestions)-1 {
				s.cursor++
			}
			return s, nil, SearchNone
		case key.Matches(keyMsg, searchKeys.Up):
			if s.cursor >= 0 {
				s.cursor--
			}
			return s, nil, SearchNone
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != s.prevInput {
		s.prevInput = s.input.Value()
		s.cursor = -1
		s.RefreshSuggestions()
	}
	return s, cmd, SearchNone
}

// View renders the modal centered in the window
func (s SearchModal) View() string {
	if !s.visible {
		return ""
	}

	modalWidth := min(max(s.width*2/3, 40), 80)

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	if len(s.suggestions) > 0 {
		b.WriteString(styles.DimStyle.Render("Recent searches"))
		b.WriteString("\n")
		for i, q := range s.suggestions {
			text := styles.Truncate(q, modalWidth-10)
			if i == s.cursor {
				b.WriteString(styles.SelectedItemStyle.Render("› " + text))
			} else {
				b.WriteString(styles.NormalItemStyle.Render("  " + text))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" search  ") +
		styles.HelpKeyStyle.Render("empty enter") + styles.HelpDescStyle.Render(" show all  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" cancel"))
	if len(s.suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.HelpKeyStyle.Render(searchKeys.ClearHistory.Help().Key) +
			styles.HelpDescStyle.Render(" "+searchKeys.ClearHistory.Help().Desc))
	}

	content := lipgloss.NewStyle().Width(modalWidth - 6).Render(b.String())
	return styles.ModalStyle.Width(modalWidth).Render(content)
}
