package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fernwalter/tunex/internal/shared"
	"golang.org/x/time/rate"
)

// newTestYouTubeService returns a service pointed at the test server with an
// unthrottled limiter and a plain HTTP client standing in for the OAuth one.
func newTestYouTubeService(t *testing.T, serverURL string) *YouTubeService {
	t.Helper()

	svc, err := NewYouTubeService(shared.YouTubeConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	svc.baseURL = serverURL
	svc.httpClient = http.DefaultClient
	svc.limiter = rate.NewLimiter(rate.Inf, 1)
	return svc
}

func TestYouTubeService(t *testing.T) {
	t.Run("NewYouTubeService", func(t *testing.T) {
		t.Run("requires client credentials", func(t *testing.T) {
			_, err := NewYouTubeService(shared.YouTubeConfig{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("defaults the redirect URI", func(t *testing.T) {
			svc, err := NewYouTubeService(shared.YouTubeConfig{ClientID: "id", ClientSecret: "secret"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.config.RedirectURL != "http://localhost:3000/callback" {
				t.Errorf("expected default redirect URI, got %s", svc.config.RedirectURL)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		svc, _ := NewYouTubeService(shared.YouTubeConfig{ClientID: "id", ClientSecret: "secret"})
		if svc.Name() != "YouTube" {
			t.Errorf("expected name to be 'YouTube', got %s", svc.Name())
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("accepts an access token", func(t *testing.T) {
			svc, _ := NewYouTubeService(shared.YouTubeConfig{ClientID: "id", ClientSecret: "secret"})
			credentials := map[string]string{"access_token": "ya29.token"}
			if err := svc.Authenticate(context.Background(), credentials); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.httpClient == nil {
				t.Fatal("expected http client to be configured")
			}
		})

		t.Run("fails without credentials", func(t *testing.T) {
			svc, _ := NewYouTubeService(shared.YouTubeConfig{ClientID: "id", ClientSecret: "secret"})
			err := svc.Authenticate(context.Background(), map[string]string{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("requests fail before authentication", func(t *testing.T) {
		svc, _ := NewYouTubeService(shared.YouTubeConfig{ClientID: "id", ClientSecret: "secret"})
		_, err := svc.SearchCandidates(context.Background(), "Song", "Artist", 5)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if !errors.Is(err, shared.ErrSearch) {
			t.Fatalf("expected ErrSearch wrapping, got %v", err)
		}
	})

	t.Run("SearchCandidates", func(t *testing.T) {
		mockResponse := map[string]any{
			"items": []map[string]any{
				{
					"id": map[string]string{"videoId": "vid1"},
					"snippet": map[string]string{
						"title":        "Bohemian Rhapsody (Official Video)",
						"channelTitle": "Queen Official",
					},
				},
				{
					"id": map[string]string{"videoId": "vid2"},
					"snippet": map[string]string{
						"title":        "Bohemian Rhapsody - Live Aid",
						"channelTitle": "Queen Official",
					},
				},
			},
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("expected path /search, got %s", r.URL.Path)
			}
			query := r.URL.Query()
			if q := query.Get("q"); q != "Bohemian Rhapsody Queen" {
				t.Errorf("expected combined query, got %s", q)
			}
			if query.Get("type") != "video" {
				t.Errorf("expected type video, got %s", query.Get("type"))
			}
			if query.Get("videoCategoryId") != musicCategoryID {
				t.Errorf("expected music category, got %s", query.Get("videoCategoryId"))
			}
			if query.Get("maxResults") != "5" {
				t.Errorf("expected maxResults 5, got %s", query.Get("maxResults"))
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(mockResponse)
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)
		candidates, err := svc.SearchCandidates(context.Background(), "Bohemian Rhapsody", "Queen", 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(candidates))
		}
		if candidates[0].DestinationID != "vid1" {
			t.Errorf("expected candidate ID vid1, got %s", candidates[0].DestinationID)
		}
		if candidates[0].Artist != "Queen Official" {
			t.Errorf("expected channel title as artist, got %s", candidates[0].Artist)
		}
	})

	t.Run("SearchCandidates failure wraps ErrSearch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"message": "quotaExceeded"},
			})
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)
		_, err := svc.SearchCandidates(context.Background(), "Song", "Artist", 5)
		if !errors.Is(err, shared.ErrSearch) {
			t.Fatalf("expected ErrSearch, got %v", err)
		}
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists" || r.Method != http.MethodPost {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}

			var req struct {
				Snippet struct {
					Title       string `json:"title"`
					Description string `json:"description"`
				} `json:"snippet"`
				Status struct {
					PrivacyStatus string `json:"privacyStatus"`
				} `json:"status"`
			}
			json.NewDecoder(r.Body).Decode(&req)

			if req.Snippet.Title != "spotify-Chill Mix" {
				t.Errorf("expected title 'spotify-Chill Mix', got %s", req.Snippet.Title)
			}
			if req.Status.PrivacyStatus != "private" {
				t.Errorf("expected privacyStatus private, got %s", req.Status.PrivacyStatus)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"id": "PL_YT_1"})
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)
		id, err := svc.CreatePlaylist(context.Background(), "spotify-Chill Mix", "Migrated from Spotify", false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != "PL_YT_1" {
			t.Errorf("expected playlist ID PL_YT_1, got %s", id)
		}
	})

	t.Run("AddTracks inserts one playlist item per video", func(t *testing.T) {
		var inserted []string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlistItems" || r.Method != http.MethodPost {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}

			var req struct {
				Snippet struct {
					PlaylistID string `json:"playlistId"`
					ResourceID struct {
						Kind    string `json:"kind"`
						VideoID string `json:"videoId"`
					} `json:"resourceId"`
				} `json:"snippet"`
			}
			json.NewDecoder(r.Body).Decode(&req)

			if req.Snippet.PlaylistID != "PL_YT_1" {
				t.Errorf("expected playlist PL_YT_1, got %s", req.Snippet.PlaylistID)
			}
			if req.Snippet.ResourceID.Kind != "youtube#video" {
				t.Errorf("expected resource kind youtube#video, got %s", req.Snippet.ResourceID.Kind)
			}
			inserted = append(inserted, req.Snippet.ResourceID.VideoID)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"id": "item"})
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)
		if err := svc.AddTracks(context.Background(), "PL_YT_1", []string{"vid1", "vid2", "vid3"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(inserted) != 3 {
			t.Fatalf("expected 3 insertions, got %d", len(inserted))
		}
		if inserted[0] != "vid1" || inserted[1] != "vid2" || inserted[2] != "vid3" {
			t.Errorf("expected videos in order, got %v", inserted)
		}
	})

	t.Run("AddTracks failure wraps ErrBatchAdd", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"message": "quotaExceeded"},
			})
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)
		err := svc.AddTracks(context.Background(), "PL_YT_1", []string{"vid1"})
		if !errors.Is(err, shared.ErrBatchAdd) {
			t.Fatalf("expected ErrBatchAdd, got %v", err)
		}
	})

	t.Run("AddTracks respects the write limiter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"id": "item"})
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)
		svc.limiter = rate.NewLimiter(rate.Every(20*time.Millisecond), 1)

		start := time.Now()
		if err := svc.AddTracks(context.Background(), "PL_YT_1", []string{"vid1", "vid2", "vid3"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
			t.Errorf("expected throttled insertions, finished in %v", elapsed)
		}
	})

	t.Run("DeletePlaylist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists" || r.Method != http.MethodDelete {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			if id := r.URL.Query().Get("id"); id != "PL_YT_1" {
				t.Errorf("expected id PL_YT_1, got %s", id)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		svc := newTestYouTubeService(t, server.URL)
		if err := svc.DeletePlaylist(context.Background(), "PL_YT_1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
