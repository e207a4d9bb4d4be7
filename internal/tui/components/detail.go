package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/clipshare/internal/domain"
	"github.com/mmcdole/clipshare/internal/tui/styles"
)

// Detail is the modal showing the selected video
type Detail struct {
	video    domain.Video
	mediaURL string // absolute player URL
	visible  bool
	width    int
}

// NewDetail creates a hidden detail modal
func NewDetail() Detail {
	return Detail{}
}

// Show opens the modal for video
func (d *Detail) Show(video domain.Video, mediaURL string) {
	d.video = video
	d.mediaURL = mediaURL
	d.visible = true
}

// SetVideo refreshes the displayed counters without reopening
func (d *Detail) SetVideo(video domain.Video) {
	if d.visible && video.ID == d.video.ID {
		d.video = video
	}
}

// Hide closes the modal
func (d *Detail) Hide() {
	d.visible = false
}

// IsVisible returns whether the modal is shown
func (d Detail) IsVisible() bool {
	return d.visible
}

// Video returns the displayed video
func (d Detail) Video() domain.Video {
	return d.video
}

// MediaURL returns the URL handed to the player
func (d Detail) MediaURL() string {
	return d.mediaURL
}

// SetSize updates the available width
func (d *Detail) SetSize(width, _ int) {
	d.width = width
}

// View renders the modal
func (d Detail) View() string {
	if !d.visible {
		return ""
	}

	modalWidth := min(max(d.width*2/3, 40), 80)
	contentWidth := modalWidth - 6

	v := d.video
	lines := []string{
		styles.ModalTitleStyle.Render(styles.Truncate(v.Title, contentWidth)),
	}

	if v.Description != "" {
		lines = append(lines, styles.SubtitleStyle.Render(wordWrap(v.Description, contentWidth)), "")
	}

	lines = append(lines, RenderCounters(v))
	if date := v.FormattedDate(); date != "" {
		lines = append(lines, styles.DimStyle.Render("Uploaded "+date))
	}
	if v.Status != "" && v.Status != "ready" {
		lines = append(lines, styles.DimBadgeStyle.Render(v.Status))
	}
	if len(v.Tags) > 0 {
		tags := make([]string, len(v.Tags))
		for i, t := range v.Tags {
			tags[i] = styles.DimBadgeStyle.Render(t)
		}
		lines = append(lines, "", wordWrapBlocks(tags, contentWidth))
	}
	if d.mediaURL != "" {
		lines = append(lines, "", styles.DimStyle.Render(styles.Truncate(d.mediaURL, contentWidth)))
	}

	lines = append(lines, "",
		styles.HelpKeyStyle.Render("L")+styles.HelpDescStyle.Render(" like  ")+
			styles.HelpKeyStyle.Render("o")+styles.HelpDescStyle.Render(" play  ")+
			styles.HelpKeyStyle.Render("esc")+styles.HelpDescStyle.Render(" close"))

	return styles.ModalStyle.Width(modalWidth).Render(strings.Join(lines, "\n"))
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

// wordWrapBlocks lays rendered blocks out in lines no wider than width
func wordWrapBlocks(blocks []string, width int) string {
	var lines []string
	var line string
	for _, b := range blocks {
		if line != "" && lipgloss.Width(line)+1+lipgloss.Width(b) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += b
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
