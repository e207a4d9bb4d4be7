package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/clipshare/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at an httptest server mounted under /api
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", handler))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL + "/api/", Timeout: 5 * time.Second, UserID: "user-test"}, nil)
	return client, srv
}

func TestClient_ListVideos(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/videos", r.URL.Path)
			w.Write([]byte(`{"videos":[
				{"id":"a","title":"First","views":2,"likes":1,"createdAt":"2024-01-01T10:00:00"},
				{"id":"b","title":"Second"},
				{"id":"a","title":"Duplicate"},
				{"title":"No id"}
			],"total":4,"page":1,"page_size":10,"total_pages":1}`))
		}))

		videos, err := client.ListVideos(context.Background())
		require.NoError(t, err)
		require.Len(t, videos, 2)
		assert.Equal(t, "First", videos[0].Title)
		assert.Equal(t, 2, videos[0].Views)
		assert.Equal(t, "b", videos[1].ID)
	})

	t.Run("EmptyIsNotAnError", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"videos":[]}`))
		}))

		videos, err := client.ListVideos(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, videos)
		assert.Empty(t, videos)
	})

	t.Run("ServerError", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"database offline"}`))
		}))

		_, err := client.ListVideos(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrServer))

		var apiErr *domain.Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "database offline", apiErr.Message)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		}))

		_, err := client.ListVideos(context.Background())
		assert.Equal(t, domain.KindServer, domain.KindOf(err))
	})

	t.Run("NetworkError", func(t *testing.T) {
		client, srv := newTestClient(t, http.NotFoundHandler())
		srv.Close()

		_, err := client.ListVideos(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNetwork))
	})
}

func TestClient_FetchStats(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats", r.URL.Path)
		w.Write([]byte(`{"total_videos":3,"total_views":40,"total_likes":7,"storage_mode":"Azure","cognitive_services_enabled":true}`))
	}))

	stats, err := client.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{
		TotalVideos:       3,
		TotalViews:        40,
		TotalLikes:        7,
		StorageMode:       domain.StorageModeAzure,
		CognitiveServices: true,
	}, *stats)
}

func TestClient_LikeVideo(t *testing.T) {
	t.Run("ReturnsAuthoritativeCount", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/videos/abc/like", r.URL.Path)
			w.Write([]byte(`{"likes":7}`))
		}))

		likes, err := client.LikeVideo(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, 7, likes)
	})

	t.Run("NotFound", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Video not found"}`))
		}))

		_, err := client.LikeVideo(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Contains(t, err.Error(), "Video not found")
	})

	t.Run("MissingCount", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))

		_, err := client.LikeVideo(context.Background(), "abc")
		assert.Equal(t, domain.KindServer, domain.KindOf(err))
	})
}

func TestClient_RecordView(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/videos/abc/view", r.URL.Path)
		w.Write([]byte(`{"views":99}`))
	}))

	require.NoError(t, client.RecordView(context.Background(), "abc"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_SearchVideos(t *testing.T) {
	t.Run("EncodesQuery", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "cats & dogs", r.URL.Query().Get("q"))
			w.Write([]byte(`{"results":[{"id":"a","title":"Cats and dogs"}],"count":1,"search_term":"cats & dogs"}`))
		}))

		videos, err := client.SearchVideos(context.Background(), "  cats & dogs ")
		require.NoError(t, err)
		require.Len(t, videos, 1)
		assert.Equal(t, "a", videos[0].ID)
	})

	t.Run("BlankQueryMakesNoRequest", func(t *testing.T) {
		var hits int32
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}))

		_, err := client.SearchVideos(context.Background(), "   ")
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Zero(t, atomic.LoadInt32(&hits))
	})
}

func TestClient_ResolveMediaURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:8000/api"}, nil)

	assert.Equal(t, "http://localhost:8000/uploads/videos/a.mp4", client.ResolveMediaURL("/uploads/videos/a.mp4"))
	assert.Equal(t, "https://blob.example/videos/a.mp4", client.ResolveMediaURL("https://blob.example/videos/a.mp4"))
	assert.Equal(t, "", client.ResolveMediaURL(""))
}

func TestClient_RateLimitRespectsContext(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", RequestsPerSecond: 0.001, Burst: 1}, nil)

	// Drain the single burst token
	require.True(t, client.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListVideos(ctx)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

// drain is used by handlers that must consume a request body
func drain(r io.Reader) string {
	b, _ := io.ReadAll(r)
	return strings.TrimSpace(string(b))
}
