package domain

import (
	"context"
	"io"
)

// CatalogClient is the remote video API as consumed by the client.
// Every method fails with an *Error of kind Network, Server, Validation or
// NotFound.
type CatalogClient interface {
	// ListVideos returns the full catalog; an empty slice is not an error
	ListVideos(ctx context.Context) ([]Video, error)

	// FetchStats returns the aggregate snapshot
	FetchStats(ctx context.Context) (*Stats, error)

	// UploadVideo validates the request locally, then uploads it
	UploadVideo(ctx context.Context, req UploadRequest, onProgress ProgressFunc) (*Video, error)

	// LikeVideo increments the like counter and returns the authoritative count
	LikeVideo(ctx context.Context, id string) (int, error)

	// RecordView is best-effort; callers log and drop its error
	RecordView(ctx context.Context, id string) error

	// SearchVideos runs a free-text search; query must not be blank
	SearchVideos(ctx context.Context, query string) ([]Video, error)
}

// MediaPayload is the binary video blob of an upload
type MediaPayload struct {
	Filename string
	Size     int64 // bytes, 0 if unknown
	Reader   io.Reader
}

// UploadRequest carries the upload form fields
type UploadRequest struct {
	Title       string
	Description string
	Media       *MediaPayload
}

// ProgressFunc receives upload progress in bytes
type ProgressFunc func(sent, total int64)

// HistoryStore records submitted search queries and suggests earlier ones
type HistoryStore interface {
	Add(query string) error
	Suggest(input string, limit int) []string
	Clear() error
}
