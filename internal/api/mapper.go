package api

import (
	"time"

	"github.com/mmcdole/clipshare/internal/domain"
)

// mapVideos drops entries the grid cannot key and normalizes the rest
func mapVideos(videos []domain.Video) []domain.Video {
	out := make([]domain.Video, 0, len(videos))
	seen := make(map[string]bool, len(videos))
	for _, v := range videos {
		if v.ID == "" || seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		if v.Title == "" {
			v.Title = "Untitled"
		}
		out = append(out, v)
	}
	return out
}

// mapUpload builds the created Video from the upload response and the
// submitted form fields. Counters start at zero.
func mapUpload(resp uploadResponse, req domain.UploadRequest, userID string, now time.Time) *domain.Video {
	v := &domain.Video{
		ID:          resp.VideoID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    resp.VideoURL,
		CreatedAt:   now.UTC(),
		Status:      resp.Status,
	}
	if resp.Insights != nil {
		v.Tags = resp.Insights.Tags
	}
	return v
}
