package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/clipshare/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mp4Header is the start of an ISO base media file
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
	0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'i', 's', 'o', '2',
}

func mp4Payload(size int) []byte {
	data := make([]byte, size)
	copy(data, mp4Header)
	return data
}

func TestClient_UploadVideo(t *testing.T) {
	t.Run("SendsMultipartForm", func(t *testing.T) {
		payload := mp4Payload(64 * 1024)

		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/videos/upload", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))

			assert.Equal(t, "Holiday", r.FormValue("title"))
			assert.Equal(t, "Beach day", r.FormValue("description"))
			assert.Equal(t, "user-test", r.FormValue("userId"))

			file, header, err := r.FormFile("video")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "holiday.mp4", header.Filename)
			assert.Equal(t, "video/mp4", header.Header.Get("Content-Type"))
			assert.Equal(t, int64(len(payload)), header.Size)

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"Video uploaded successfully","videoId":"v1","videoUrl":"/uploads/videos/v1.mp4","status":"ready","insights":{"tags":["beach"]}}`))
		}))
		client.now = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }

		video, err := client.UploadVideo(context.Background(), domain.UploadRequest{
			Title:       "  Holiday ",
			Description: "Beach day",
			Media: &domain.MediaPayload{
				Filename: "/tmp/clips/holiday.mp4",
				Size:     int64(len(payload)),
				Reader:   bytes.NewReader(payload),
			},
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, "v1", video.ID)
		assert.Equal(t, "Holiday", video.Title)
		assert.Equal(t, "/uploads/videos/v1.mp4", video.VideoURL)
		assert.Equal(t, "user-test", video.UserID)
		assert.Equal(t, []string{"beach"}, video.Tags)
		assert.Zero(t, video.Views)
		assert.Zero(t, video.Likes)
		assert.Equal(t, "5 Mar 2024", video.FormattedDate())
	})

	t.Run("ReportsProgress", func(t *testing.T) {
		payload := mp4Payload(256 * 1024)

		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			drain(r.Body)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"videoId":"v2","videoUrl":"https://blob.example/v2.mp4","status":"ready"}`))
		}))

		var last, total int64
		_, err := client.UploadVideo(context.Background(), domain.UploadRequest{
			Title: "Progress",
			Media: &domain.MediaPayload{Filename: "p.mp4", Size: int64(len(payload)), Reader: bytes.NewReader(payload)},
		}, func(sent, size int64) {
			assert.GreaterOrEqual(t, sent, last)
			last, total = sent, size
		})
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), last)
		assert.Equal(t, int64(len(payload)), total)
	})

	t.Run("ServerRejects", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			drain(r.Body)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Invalid file type"}`))
		}))

		_, err := client.UploadVideo(context.Background(), domain.UploadRequest{
			Title: "Rejected",
			Media: &domain.MediaPayload{Filename: "r.mp4", Reader: bytes.NewReader(mp4Payload(1024))},
		}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrServer))
		assert.Contains(t, err.Error(), "Invalid file type")
	})
}

func TestClient_UploadVideoValidation(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))

	tests := []struct {
		name string
		req  domain.UploadRequest
		msg  string
	}{
		{
			name: "EmptyTitle",
			req: domain.UploadRequest{
				Title: "   ",
				Media: &domain.MediaPayload{Filename: "a.mp4", Reader: bytes.NewReader(mp4Payload(128))},
			},
			msg: "title is required",
		},
		{
			name: "NoMedia",
			req:  domain.UploadRequest{Title: "No file"},
			msg:  "video file is required",
		},
		{
			name: "EmptyMedia",
			req: domain.UploadRequest{
				Title: "Empty",
				Media: &domain.MediaPayload{Filename: "a.mp4", Reader: bytes.NewReader(nil)},
			},
			msg: "video file is empty",
		},
		{
			name: "NotAVideo",
			req: domain.UploadRequest{
				Title: "Notes",
				Media: &domain.MediaPayload{Filename: "notes.txt", Reader: strings.NewReader("just some text")},
			},
			msg: "file is not a video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.UploadVideo(context.Background(), tt.req, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	assert.Zero(t, atomic.LoadInt32(&hits), "validation failures must not reach the server")
}

func TestDetectVideoType(t *testing.T) {
	assert.Equal(t, "video/mp4", detectVideoType(mp4Header, "clip.bin"))
	assert.Equal(t, "video/quicktime", detectVideoType([]byte("opaque bytes"), "clip.MOV"))
	assert.Equal(t, "", detectVideoType([]byte("plain text"), "clip.txt"))
}
