package tui

import "github.com/mmcdole/clipshare/internal/domain"

// Message types for the TUI. Catalog state is never carried in a message;
// handlers re-read it from the store snapshot.

// CatalogLoadedMsg signals that a Load settled
type CatalogLoadedMsg struct {
	Err error
}

// StatsLoadedMsg signals that a stats fetch settled
type StatsLoadedMsg struct{}

// SearchDoneMsg signals that a Search settled
type SearchDoneMsg struct {
	Query string
	Err   error
}

// LikeDoneMsg signals that a Like settled
type LikeDoneMsg struct {
	VideoID string
	Likes   int
	Err     error
}

// ViewRecordedMsg signals that the best-effort view call returned
type ViewRecordedMsg struct {
	VideoID string
}

// UploadProgressMsg reports bytes sent for the running upload
type UploadProgressMsg struct {
	Sent  int64
	Total int64
}

// UploadDoneMsg signals that an upload and its refresh settled
type UploadDoneMsg struct {
	Video *domain.Video
	Err   error
}

// PlaybackStartedMsg signals that the external player was launched
type PlaybackStartedMsg struct {
	Title string
}

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// TickMsg advances the spinner
type TickMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct {
	ID int // only the status with this id is cleared
}
