package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StorageMode identifies the media storage backend reported by the API
type StorageMode string

const (
	StorageModeAzure StorageMode = "Azure"
	StorageModeLocal StorageMode = "Local"
)

// Label returns the display label for the storage backend
func (m StorageMode) Label() string {
	switch m {
	case StorageModeAzure:
		return "☁ Azure"
	case StorageModeLocal:
		return "💾 Local"
	case "":
		return ""
	default:
		return string(m)
	}
}

// Video represents a catalog entry as served by the API
type Video struct {
	ID          string    `json:"id"`          // Server-assigned, stable
	UserID      string    `json:"userId"`      // Uploader tag sent with the upload
	Title       string    `json:"title"`       // Display title (never empty)
	Description string    `json:"description"` // Optional
	VideoURL    string    `json:"videoUrl"`    // Playable media locator (may be relative)
	Views       int       `json:"views"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"` // "ready" once stored
	Tags        []string  `json:"tags"`   // Optional AI tags
}

// FormattedDate returns the creation date in display format
func (v Video) FormattedDate() string {
	return FormatDate(v.CreatedAt)
}

// Summary returns the "views · likes" line shown on cards
func (v Video) Summary() string {
	return fmt.Sprintf("👁 %d  ❤ %d", v.Views, v.Likes)
}

// UnmarshalJSON accepts the backend's zone-less ISO timestamps and
// missing counters.
func (v *Video) UnmarshalJSON(data []byte) error {
	type alias Video
	aux := struct {
		*alias
		CreatedAt string `json:"createdAt"`
		Views     *int   `json:"views"`
		Likes     *int   `json:"likes"`
	}{alias: (*alias)(v)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	v.Views, v.Likes = 0, 0
	if aux.Views != nil && *aux.Views > 0 {
		v.Views = *aux.Views
	}
	if aux.Likes != nil && *aux.Likes > 0 {
		v.Likes = *aux.Likes
	}

	// An unparseable timestamp only loses the date line, not the entry
	v.CreatedAt, _ = ParseTimestamp(aux.CreatedAt)
	return nil
}

// timestampLayouts lists accepted createdAt layouts, most specific first
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an API timestamp. Zone-less values are UTC.
// An empty string yields the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Stats is the aggregate snapshot served by GET /stats. Read-only.
type Stats struct {
	TotalVideos       int         `json:"total_videos"`
	TotalViews        int         `json:"total_views"`
	TotalLikes        int         `json:"total_likes"`
	StorageMode       StorageMode `json:"storage_mode"`
	CognitiveServices bool        `json:"cognitive_services_enabled"`
}
