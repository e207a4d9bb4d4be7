package api

import "github.com/mmcdole/clipshare/internal/domain"

// listResponse is the GET /videos envelope
type listResponse struct {
	Videos     []domain.Video `json:"videos"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// searchResponse is the GET /search envelope
type searchResponse struct {
	Results    []domain.Video `json:"results"`
	Count      int            `json:"count"`
	SearchTerm string         `json:"search_term"`
}

// likeResponse is the POST /videos/{id}/like body
type likeResponse struct {
	Likes *int `json:"likes"`
}

// uploadResponse is the POST /videos/upload body
type uploadResponse struct {
	Message  string `json:"message"`
	VideoID  string `json:"videoId"`
	VideoURL string `json:"videoUrl"`
	Status   string `json:"status"`
	Insights *struct {
		Tags             []string `json:"tags"`
		ModerationStatus string   `json:"moderation_status"`
	} `json:"insights,omitempty"`
}

// errorResponse is the body of every non-2xx API response
type errorResponse struct {
	Error string `json:"error"`
}
