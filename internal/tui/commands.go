package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/clipshare/internal/catalog"
	"github.com/mmcdole/clipshare/internal/domain"
	"github.com/mmcdole/clipshare/internal/tui/components"
)

// Uploads are excluded from the per-request timeout, like the API client's
const uploadTimeout = 30 * time.Minute

// Command factories for async operations

// LoadCmd reloads the catalog
func LoadCmd(store *catalog.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return CatalogLoadedMsg{Err: store.Load(ctx)}
	}
}

// LoadStatsCmd refreshes the header stats. Failures are logged by the store.
func LoadStatsCmd(store *catalog.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		store.LoadStats(ctx)
		return StatsLoadedMsg{}
	}
}

// RefreshCmds runs Load and the stats fetch as independent commands
func RefreshCmds(store *catalog.Store, timeout time.Duration) tea.Cmd {
	return tea.Batch(LoadCmd(store, timeout), LoadStatsCmd(store, timeout))
}

// SearchCmd runs a server search; a blank query reloads the full list
func SearchCmd(store *catalog.Store, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return SearchDoneMsg{Query: strings.TrimSpace(query), Err: store.Search(ctx, query)}
	}
}

// LikeCmd likes a video
func LikeCmd(store *catalog.Store, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		likes, err := store.Like(ctx, id)
		return LikeDoneMsg{VideoID: id, Likes: likes, Err: err}
	}
}

// RecordViewCmd reports the view counted by Select; the outcome never
// reaches the user
func RecordViewCmd(record catalog.ViewRecorder, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		record(ctx)
		return ViewRecordedMsg{VideoID: id}
	}
}

// UploadCmd uploads the form's file, reporting progress on ch. ch is closed
// when the upload settles.
func UploadCmd(store *catalog.Store, values components.UploadValues, ch chan UploadProgressMsg) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)

		req := domain.UploadRequest{Title: values.Title, Description: values.Description}

		if values.Path != "" && values.Title != "" {
			f, size, err := openMedia(values.Path)
			if err != nil {
				return UploadDoneMsg{Err: domain.NewValidationError("upload video", err.Error())}
			}
			defer f.Close()
			req.Media = &domain.MediaPayload{Filename: filepath.Base(values.Path), Size: size, Reader: f}
		}

		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()

		video, err := store.Upload(ctx, req, NewProgressObserver(ch).OnProgress)
		return UploadDoneMsg{Video: video, Err: err}
	}
}

// WaitForProgressCmd waits for the next progress report
func WaitForProgressCmd(ch <-chan UploadProgressMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// openMedia opens a regular file for upload and returns its size
func openMedia(path string) (*os.File, int64, error) {
	path = expandHome(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot open %s", filepath.Base(path))
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("%s is a directory", filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot open %s", filepath.Base(path))
	}
	return f, info.Size(), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// PlayCmd opens a media URL in the external player
func PlayCmd(player Player, title, url string) tea.Cmd {
	return func() tea.Msg {
		if err := player.Play(url); err != nil {
			return ErrMsg{Err: err, Context: "starting playback"}
		}
		return PlaybackStartedMsg{Title: title}
	}
}

// TickCmd returns a command that sends a tick after the given duration
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears status id after the given duration
func ClearStatusCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
