package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/clipshare/internal/domain"
	"github.com/mmcdole/clipshare/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for video cards
const (
	// Rounded border, 1 cell on each side
	CardBorder = 2

	// Padding(0,1) inside the border
	CardPadding = 2

	// title, description, counters, date
	CardLines = 4

	// Gap between cards in a row
	CardGap = 1

	MinCardWidth = 18
)

// videoTitles implements fuzzy.Source over the grid's videos
type videoTitles []domain.Video

func (v videoTitles) String(i int) string { return strings.ToLower(v[i].Title) }
func (v videoTitles) Len() int            { return len(v) }

// Grid shows the catalog as rows of video cards
type Grid struct {
	videos  []domain.Video
	columns int

	// Selection, as an index into the visible (filtered) list
	cursor    int
	rowOffset int

	width  int
	height int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filtered     []fuzzy.Match // nil when no query
}

// NewGrid creates a grid with the given number of columns
func NewGrid(columns int) Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter titles..."
	ti.Prompt = "f "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)

	if columns < 1 {
		columns = 1
	}
	return Grid{columns: columns, filterInput: ti}
}

// SetVideos replaces the displayed videos. The cursor stays on the same
// video when it is still present.
func (g *Grid) SetVideos(videos []domain.Video) {
	selectedID := ""
	if v, ok := g.Selected(); ok {
		selectedID = v.ID
	}

	g.videos = videos
	g.applyFilter()

	g.cursor = 0
	for i := 0; i < g.count(); i++ {
		if g.at(i).ID == selectedID {
			g.cursor = i
			break
		}
	}
	g.ensureVisible()
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.filterInput.Width = width - 4
	g.ensureVisible()
}

// Columns returns the effective column count for the current width
func (g Grid) Columns() int {
	cols := g.columns
	if g.width > 0 {
		for cols > 1 && g.cardWidth(cols) < MinCardWidth {
			cols--
		}
	}
	return cols
}

func (g Grid) cardWidth(cols int) int {
	return (g.width-(cols-1)*CardGap)/cols - CardBorder
}

// visibleRows is how many card rows fit in the height
func (g Grid) visibleRows() int {
	h := g.height
	if g.filterActive {
		h--
	}
	rows := h / (CardLines + CardBorder)
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Selected returns the video under the cursor
func (g Grid) Selected() (domain.Video, bool) {
	if g.cursor < 0 || g.cursor >= g.count() {
		return domain.Video{}, false
	}
	return g.at(g.cursor), true
}

// Cursor returns the cursor position in the visible list
func (g Grid) Cursor() int {
	return g.cursor
}

// VisibleCount returns the number of cards after filtering
func (g Grid) VisibleCount() int {
	return g.count()
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
}

// IsFiltering returns true if filter mode is active
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if the filter input has focus
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all videos
func (g *Grid) ClearFilter() {
	g.filterActive = false
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.filtered = nil
	g.cursor = 0
	g.rowOffset = 0
}

// applyFilter matches titles against the filter query
func (g *Grid) applyFilter() {
	query := strings.TrimSpace(g.filterInput.Value())
	if !g.filterActive || query == "" {
		g.filtered = nil
		return
	}
	matches := fuzzy.FindFrom(strings.ToLower(query), videoTitles(g.videos))
	if matches == nil {
		matches = []fuzzy.Match{}
	}
	g.filtered = matches
}

func (g Grid) count() int {
	if g.filtered != nil {
		return len(g.filtered)
	}
	return len(g.videos)
}

func (g Grid) at(i int) domain.Video {
	if g.filtered != nil {
		return g.videos[g.filtered[i].Index]
	}
	return g.videos[i]
}

func (g Grid) matchedIndexes(i int) []int {
	if g.filtered != nil {
		return g.filtered[i].MatchedIndexes
	}
	return nil
}

// ensureVisible scrolls so the cursor row is on screen
func (g *Grid) ensureVisible() {
	if g.cursor >= g.count() {
		g.cursor = g.count() - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
	cols := g.Columns()
	row := g.cursor / cols
	rows := g.visibleRows()
	if row < g.rowOffset {
		g.rowOffset = row
	}
	if row >= g.rowOffset+rows {
		g.rowOffset = row - rows + 1
	}
}

// Update handles navigation and filter typing
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	// Typing into the filter
	if g.IsFilterTyping() {
		if isKey {
			switch {
			case key.Matches(keyMsg, gridKeys.Escape):
				g.ClearFilter()
				return g, nil
			case key.Matches(keyMsg, gridKeys.Enter):
				// Accept filter, blur input to allow navigation
				g.filterInput.Blur()
				return g, nil
			case keyMsg.Type == tea.KeyBackspace && g.filterInput.Value() == "":
				g.ClearFilter()
				return g, nil
			}
		}
		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		g.cursor = 0
		g.rowOffset = 0
		return g, cmd
	}

	if !isKey {
		return g, nil
	}

	count := g.count()
	if count == 0 {
		return g, nil
	}
	cols := g.Columns()

	page := g.visibleRows() * cols

	switch {
	case key.Matches(keyMsg, gridKeys.Right):
		if g.cursor < count-1 {
			g.cursor++
		}
	case key.Matches(keyMsg, gridKeys.Left):
		if g.cursor > 0 {
			g.cursor--
		}
	case key.Matches(keyMsg, gridKeys.Down):
		if g.cursor+cols < count {
			g.cursor += cols
		} else {
			g.cursor = count - 1
		}
	case key.Matches(keyMsg, gridKeys.Up):
		if g.cursor-cols >= 0 {
			g.cursor -= cols
		}
	case key.Matches(keyMsg, gridKeys.PageDown):
		g.cursor = min(g.cursor+page, count-1)
	case key.Matches(keyMsg, gridKeys.PageUp):
		g.cursor = max(g.cursor-page, 0)
	case key.Matches(keyMsg, gridKeys.Home):
		g.cursor = 0
	case key.Matches(keyMsg, gridKeys.End):
		g.cursor = count - 1
	}
	g.ensureVisible()
	return g, nil
}

// View renders the visible rows of cards
func (g Grid) View() string {
	var sections []string
	if g.filterActive {
		sections = append(sections, g.filterInput.View())
	}

	count := g.count()
	if count == 0 {
		sections = append(sections, styles.DimStyle.Render("No matches"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	cols := g.Columns()
	cardWidth := g.cardWidth(cols)
	if cardWidth < 4 {
		cardWidth = 4
	}

	start := g.rowOffset * cols
	end := min(start+g.visibleRows()*cols, count)

	for rowStart := start; rowStart < end; rowStart += cols {
		var cards []string
		for i := rowStart; i < min(rowStart+cols, end); i++ {
			if len(cards) > 0 {
				cards = append(cards, strings.Repeat(" ", CardGap))
			}
			cards = append(cards, g.renderCard(i, cardWidth))
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderCard renders the card for visible index i
func (g Grid) renderCard(i, width int) string {
	v := g.at(i)
	inner := width - CardPadding

	title := styles.Truncate(v.Title, inner)
	titleStyle := styles.TitleStyle
	var titleLine string
	if idx := g.matchedIndexes(i); len(idx) > 0 && title == v.Title {
		titleLine = styles.RenderHighlighted(title, idx, titleStyle)
	} else {
		titleLine = titleStyle.Render(title)
	}

	desc := v.Description
	if desc == "" {
		desc = " "
	}

	lines := []string{
		titleLine,
		styles.SubtitleStyle.Render(styles.Truncate(desc, inner)),
		RenderCounters(v),
		styles.DimStyle.Render(v.FormattedDate()),
	}

	style := styles.CardStyle
	if i == g.cursor {
		style = styles.CardSelectedStyle
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// RenderCounters renders the views and likes line
func RenderCounters(v domain.Video) string {
	return styles.SubtitleStyle.Render("👁 "+strconv.Itoa(v.Views)) + "  " + styles.LikeStyle.Render("❤ "+strconv.Itoa(v.Likes))
}
