package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/clipshare/internal/catalog"
	"github.com/mmcdole/clipshare/internal/domain"
	"github.com/mmcdole/clipshare/internal/tui/styles"
)

// EmptyCatalogText is shown when a load returns no videos
const EmptyCatalogText = catalog.EmptyText

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
}

// RenderLoading renders the loading state
func RenderLoading(frame int) string {
	return RenderSpinner(frame) + styles.DimStyle.Render(" Loading videos...")
}

// RenderError renders the error state with a retry hint
func RenderError(err error, width int) string {
	lines := []string{
		styles.ErrorStyle.Render(wordWrap("Error: "+userMessage(err), width-4)),
		"",
		styles.DimStyle.Render("Press r to retry"),
	}
	return strings.Join(lines, "\n")
}

// RenderEmpty renders the empty state. A search with no hits gets its own text.
func RenderEmpty(query string) string {
	if query != "" {
		return styles.DimStyle.Render(fmt.Sprintf("No videos match %q. Press esc to show all.", query))
	}
	return styles.DimStyle.Render(EmptyCatalogText)
}

// RenderHeader renders the title bar with aggregate stats, once loaded
func RenderHeader(stats *domain.Stats, query string, width int) string {
	left := styles.LogoStyle.Render("🎬 clipshare")
	if query != "" {
		left += styles.DimStyle.Render("  search: ") + styles.AccentStyle.Render(styles.Truncate(query, 30))
	}

	var parts []string
	if stats != nil {
		parts = append(parts,
			styles.SubtitleStyle.Render(fmt.Sprintf("%d videos", stats.TotalVideos)),
			styles.SubtitleStyle.Render(fmt.Sprintf("%d views", stats.TotalViews)),
			styles.LikeStyle.Render(fmt.Sprintf("%d likes", stats.TotalLikes)),
		)
		if label := stats.StorageMode.Label(); label != "" {
			parts = append(parts, styles.DimBadgeStyle.Render(label))
		}
		if stats.CognitiveServices {
			parts = append(parts, styles.BadgeStyle.Render("AI"))
		}
	}
	right := strings.Join(parts, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return styles.HeaderStyle.Render(left)
	}
	return styles.HeaderStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// RenderFooter renders the status line
func RenderFooter(status string, isErr bool, busy bool, frame int, width int) string {
	var left string
	switch {
	case status != "" && isErr:
		left = styles.ErrorStyle.Render(status)
	case status != "":
		left = styles.SuccessStyle.Render(status)
	case busy:
		left = RenderSpinner(frame)
	}

	right := styles.HelpKeyStyle.Render("?") + styles.HelpDescStyle.Render(" help")
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

// RenderHelp renders the key binding reference
func RenderHelp(keys KeyMap) string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Keys"))
	b.WriteString("\n")
	for _, k := range keys.HelpBindings() {
		h := k.Help()
		b.WriteString(styles.HelpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key)))
		b.WriteString(" ")
		b.WriteString(styles.HelpDescStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	return styles.ModalStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// userMessage turns a catalog error into the text shown to the user
func userMessage(err error) string {
	var apiErr *domain.Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind {
	case domain.KindNetwork:
		return "cannot reach the video service"
	case domain.KindNotFound:
		return "video not found"
	case domain.KindValidation:
		return apiErr.Message
	case domain.KindServer:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("server error (status %d)", apiErr.StatusCode)
	}
	return err.Error()
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)
		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}
		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}
		result.WriteString(word)
		lineLen += wordLen
	}
	return result.String()
}
