package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/clipshare/internal/tui/styles"
)

// Upload form fields, in focus order
const (
	FieldTitle = iota
	FieldDescription
	FieldPath
	fieldCount
)

// UploadForm collects title, description and file path for an upload
type UploadForm struct {
	visible bool
	inputs  [fieldCount]textinput.Model
	focus   int
	errMsg  string

	uploading bool
	sent      int64
	total     int64

	width int
}

// UploadValues is the submitted form content
type UploadValues struct {
	Title       string
	Description string
	Path        string
}

// NewUploadForm creates a hidden upload form
func NewUploadForm() UploadForm {
	var f UploadForm
	placeholders := [fieldCount]string{"Title (required)", "Description", "Path to video file"}
	limits := [fieldCount]int{100, 500, 1024}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 40
		ti.Prompt = ""
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		f.inputs[i] = ti
	}
	return f
}

// Show opens an empty form
func (f *UploadForm) Show() {
	f.visible = true
	f.errMsg = ""
	f.uploading = false
	f.sent, f.total = 0, 0
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.setFocus(FieldTitle)
}

// Hide closes the form
func (f *UploadForm) Hide() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// IsVisible returns whether the form is shown
func (f UploadForm) IsVisible() bool {
	return f.visible
}

// IsUploading returns true while an upload is in flight
func (f UploadForm) IsUploading() bool {
	return f.uploading
}

// Values returns the trimmed form fields
func (f UploadForm) Values() UploadValues {
	return UploadValues{
		Title:       strings.TrimSpace(f.inputs[FieldTitle].Value()),
		Description: strings.TrimSpace(f.inputs[FieldDescription].Value()),
		Path:        strings.TrimSpace(f.inputs[FieldPath].Value()),
	}
}

// SetError shows a validation or upload failure and re-enables editing
func (f *UploadForm) SetError(msg string) {
	f.errMsg = msg
	f.uploading = false
}

// SetUploading switches the form into its progress display
func (f *UploadForm) SetUploading(total int64) {
	f.uploading = true
	f.errMsg = ""
	f.sent, f.total = 0, total
}

// SetProgress records bytes sent so far
func (f *UploadForm) SetProgress(sent, total int64) {
	f.sent = sent
	if total > 0 {
		f.total = total
	}
}

// Percent returns upload progress in [0, 100]
func (f UploadForm) Percent() float64 {
	if f.total <= 0 {
		return 0
	}
	return min(float64(f.sent)*100/float64(f.total), 100)
}

// SetSize updates the available width
func (f *UploadForm) SetSize(width, _ int) {
	f.width = width
	for i := range f.inputs {
		f.inputs[i].Width = max(min(width*2/3, 80)-8, 20)
	}
}

func (f *UploadForm) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// Update handles input events, returns (form, cmd, submitted)
func (f UploadForm) Update(msg tea.Msg) (UploadForm, tea.Cmd, bool) {
	if !f.visible {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Input is ignored while the upload runs
		if f.uploading {
			return f, nil, false
		}
		switch keyMsg.String() {
		case "esc":
			f.Hide()
			return f, nil, false
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return f, nil, false
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return f, nil, false
		case "ctrl+s":
			return f, nil, true
		case "enter":
			if f.focus == FieldPath {
				return f, nil, true
			}
			f.setFocus(f.focus + 1)
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

// View renders the form
func (f UploadForm) View() string {
	if !f.visible {
		return ""
	}

	modalWidth := max(min(f.width*2/3, 80), 40)
	labels := [fieldCount]string{"Title", "Description", "File"}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Upload video"))
	b.WriteString("\n")

	for i := range f.inputs {
		label := styles.DimStyle.Render(labels[i])
		if i == f.focus && !f.uploading {
			label = styles.AccentStyle.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case f.uploading:
		pct := f.Percent()
		b.WriteString(styles.AccentStyle.Render(fmt.Sprintf("Uploading… %.0f%%", pct)))
		b.WriteString("\n")
		b.WriteString(styles.RenderProgressBar(pct, modalWidth-8))
	case f.errMsg != "":
		b.WriteString(styles.ErrorStyle.Render(f.errMsg))
	default:
		b.WriteString(styles.HelpKeyStyle.Render("tab") + styles.HelpDescStyle.Render(" next  ") +
			styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" upload  ") +
			styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" cancel"))
	}

	return styles.ModalStyle.Width(modalWidth).Render(b.String())
}
