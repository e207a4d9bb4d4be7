// Package catalog owns the client-side video catalog: the loaded videos, the
// open selection and the aggregate stats. All mutation goes through the
// intent methods on Store.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/clipshare/internal/domain"
)

// Sequence kinds. Load and Search share one since both replace the catalog.
const (
	seqCatalog = "catalog"
	seqStats   = "stats"
	seqLike    = "like:"
)

// ErrSuperseded is returned by an intent whose result was dropped because a
// newer request of the same kind already settled the state it would touch.
var ErrSuperseded = errors.New("superseded by a newer request")

// EmptyText is shown when the full catalog has no videos
const EmptyText = "No videos yet. Upload one!"

// DisplayState is the one state combination the grid area renders
type DisplayState int

const (
	DisplayLoading DisplayState = iota
	DisplayError
	DisplayEmpty
	DisplayPopulated
)

func (d DisplayState) String() string {
	switch d {
	case DisplayLoading:
		return "loading"
	case DisplayError:
		return "error"
	case DisplayEmpty:
		return "empty"
	default:
		return "populated"
	}
}

// State is an immutable snapshot of the store
type State struct {
	Videos   []domain.Video
	Selected *domain.Video
	Stats    *domain.Stats
	Loading  bool
	Loaded   bool   // at least one catalog request has settled
	Err      error  // last Load failure, cleared by the next success
	Query    string // active search, empty when showing the full list
}

// Display picks the state to render: loading, then error, then empty
func (s State) Display() DisplayState {
	switch {
	case s.Loading || !s.Loaded:
		return DisplayLoading
	case s.Err != nil:
		return DisplayError
	case len(s.Videos) == 0:
		return DisplayEmpty
	default:
		return DisplayPopulated
	}
}

// Video returns the catalog entry with the given id
func (s State) Video(id string) (domain.Video, bool) {
	for _, v := range s.Videos {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Video{}, false
}

// Store is the single owner of Catalog and Selection
type Store struct {
	client domain.CatalogClient
	logger *slog.Logger

	mu       sync.RWMutex
	videos   []domain.Video
	selected *domain.Video
	stats    *domain.Stats
	loading  bool
	loaded   bool
	err      error
	query    string
	seq      map[string]uint64
	liked    map[string]uint64 // like seq last applied, per video id
}

// NewStore creates a store backed by client
func NewStore(client domain.CatalogClient, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		logger: logger,
		seq:    make(map[string]uint64),
		liked:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Videos:  append([]domain.Video(nil), s.videos...),
		Loading: s.loading,
		Loaded:  s.loaded,
		Err:     s.err,
		Query:   s.query,
	}
	if s.selected != nil {
		sel := *s.selected
		st.Selected = &sel
	}
	if s.stats != nil {
		stats := *s.stats
		st.Stats = &stats
	}
	return st
}

// Load replaces the catalog with the server's full list
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	seq := s.next(seqCatalog)
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	videos, err := s.client.ListVideos(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(seqCatalog, seq) {
		s.logger.Debug("discarding stale load", "seq", seq, "error", err)
		return ErrSuperseded
	}
	s.loading = false
	s.loaded = true
	if err != nil {
		s.err = err
		s.logger.Error("failed to load videos", "error", err)
		return err
	}
	s.query = ""
	s.replace(videos)
	s.logger.Debug("loaded videos", "count", len(videos))
	return nil
}

// LoadStats refreshes the aggregate stats. Failure is logged only.
func (s *Store) LoadStats(ctx context.Context) {
	s.mu.Lock()
	seq := s.next(seqStats)
	s.mu.Unlock()

	stats, err := s.client.FetchStats(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch stats", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(seqStats, seq) {
		return
	}
	s.stats = stats
}

// Refresh runs Load and LoadStats concurrently and waits for both.
// Only the Load error is returned.
func (s *Store) Refresh(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.LoadStats(ctx)
	}()

	err := s.Load(ctx)
	wg.Wait()
	return err
}

// Search replaces the catalog with the results for query. A blank query
// reloads the full list. On failure the catalog is left untouched.
func (s *Store) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Load(ctx)
	}

	s.mu.Lock()
	seq := s.next(seqCatalog)
	s.loading = true
	s.mu.Unlock()

	videos, err := s.client.SearchVideos(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(seqCatalog, seq) {
		s.logger.Debug("discarding stale search", "query", query, "seq", seq, "error", err)
		return ErrSuperseded
	}
	s.loading = false
	if err != nil {
		s.logger.Error("search failed", "query", query, "error", err)
		if !s.loaded {
			// Nothing on screen yet, so the failure is the catalog state
			s.loaded = true
			s.err = err
		}
		return err
	}
	s.loaded = true
	s.err = nil
	s.query = query
	s.replace(videos)
	s.logger.Debug("search applied", "query", query, "count", len(videos))
	return nil
}

// ViewRecorder reports one view to the server. Errors are logged and
// dropped.
type ViewRecorder func(ctx context.Context)

// Select opens the video and counts one view locally. The returned recorder
// reports that view to the server and is meant to run off the caller's
// goroutine; the local count is never reconciled with the server.
func (s *Store) Select(id string) (domain.Video, ViewRecorder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Video{}, nil, false
	}
	s.videos[i].Views++
	sel := s.videos[i]
	s.selected = &sel
	return sel, func(ctx context.Context) { s.recordView(ctx, id) }, true
}

// Deselect closes the detail view
func (s *Store) Deselect() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

func (s *Store) recordView(ctx context.Context, id string) {
	if err := s.client.RecordView(ctx, id); err != nil {
		s.logger.Warn("failed to record view", "videoID", id, "error", err)
	}
}

// Like asks the server to count a like and applies the returned count to
// the catalog entry and the selection. On failure nothing changes. A reply
// is dropped only when a newer like for the same video was already applied.
func (s *Store) Like(ctx context.Context, id string) (int, error) {
	kind := seqLike + id

	s.mu.Lock()
	seq := s.next(kind)
	s.mu.Unlock()

	likes, err := s.client.LikeVideo(ctx, id)
	if err != nil {
		s.logger.Error("failed to like video", "videoID", id, "error", err)
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.liked[id] > seq {
		s.logger.Debug("discarding stale like", "videoID", id, "seq", seq)
		return likes, ErrSuperseded
	}
	s.liked[id] = seq
	if i := s.indexOf(id); i >= 0 {
		s.videos[i].Likes = likes
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected.Likes = likes
	}
	return likes, nil
}

// Upload validates the form, uploads it and refreshes catalog and stats.
// The new entry appears through the refresh, never by local insert.
func (s *Store) Upload(ctx context.Context, req domain.UploadRequest, onProgress domain.ProgressFunc) (*domain.Video, error) {
	const op = "upload video"

	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.NewValidationError(op, "title is required")
	}
	if req.Media == nil || req.Media.Reader == nil {
		return nil, domain.NewValidationError(op, "video file is required")
	}

	video, err := s.client.UploadVideo(ctx, req, onProgress)
	if err != nil {
		s.logger.Error("upload failed", "title", req.Title, "error", err)
		return nil, err
	}

	s.logger.Info("upload complete", "videoID", video.ID)
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after upload failed", "error", err)
	}
	return video, nil
}

// next bumps and returns the sequence for kind. Caller holds mu.
func (s *Store) next(kind string) uint64 {
	s.seq[kind]++
	return s.seq[kind]
}

// current reports whether seq is still the latest for kind. Caller holds mu.
func (s *Store) current(kind string, seq uint64) bool {
	return s.seq[kind] == seq
}

// replace swaps in a new catalog and resyncs the selection. Caller holds mu.
func (s *Store) replace(videos []domain.Video) {
	if videos == nil {
		videos = []domain.Video{}
	}
	s.videos = videos
	if s.selected == nil {
		return
	}
	if i := s.indexOf(s.selected.ID); i >= 0 {
		sel := s.videos[i]
		s.selected = &sel
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.videos {
		if s.videos[i].ID == id {
			return i
		}
	}
	return -1
}
