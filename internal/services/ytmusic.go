// YouTube Music implementation of [Destination].
//
// Communicates with a ytmusicapi proxy server (music/ in the repository root,
// port 8080 by default). The proxy exposes YouTube Music's song catalog, which
// carries real artist metadata the Data API lacks, so matches from this
// destination score better than channel-title matches.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/shared"
)

const defaultProxyURL = "http://localhost:8080"

// ytMusicArtist represents an artist in proxy search responses.
type ytMusicArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YTMusicService implements [Destination] against the ytmusicapi proxy.
type YTMusicService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
}

// NewYTMusicService creates a YouTube Music proxy destination adapter.
func NewYTMusicService(cfg shared.YouTubeConfig) *YTMusicService {
	baseURL := cfg.ProxyURL
	if baseURL == "" {
		baseURL = defaultProxyURL
	}

	return &YTMusicService{
		baseURL:    baseURL,
		authFile:   cfg.AuthFile,
		httpClient: http.DefaultClient,
	}
}

func (y *YTMusicService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the auth file path for subsequent requests and verifies
// the proxy accepts it.
//
// Expects credentials["auth_file"] to contain the path to browser.json or
// oauth.json on the proxy host. Falls back to the configured auth file when
// the credential is absent.
func (y *YTMusicService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if authFile := credentials["auth_file"]; authFile != "" {
		y.authFile = authFile
	}
	if y.authFile == "" {
		return fmt.Errorf("%w: auth_file is required for the YouTube Music proxy", shared.ErrMissingCredentials)
	}

	if err := y.doRequest(ctx, http.MethodGet, "/api/auth/check", nil, nil); err != nil {
		return fmt.Errorf("%w: proxy rejected credentials: %w", shared.ErrAuthFailed, err)
	}

	return nil
}

func (y *YTMusicService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube music proxy status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube music proxy status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchCandidates runs a song-filtered search with the combined query.
//
// Calls GET /api/search?q={title} {artist}&filter=songs&limit={n} on the proxy.
func (y *YTMusicService) SearchCandidates(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error) {
	query := fmt.Sprintf("%s %s", title, artist)
	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs&limit=%d", url.QueryEscape(query), limit)

	var results []struct {
		VideoID string          `json:"videoId"`
		Title   string          `json:"title"`
		Artists []ytMusicArtist `json:"artists"`
		Album   *struct {
			Name string `json:"name"`
		} `json:"album"`
		DurationSec int `json:"duration_seconds"`
	}

	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &results); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSearch, err)
	}

	candidates := make([]models.MatchCandidate, 0, len(results))
	for _, result := range results {
		names := make([]string, len(result.Artists))
		for i, a := range result.Artists {
			names[i] = a.Name
		}

		candidate := models.MatchCandidate{
			DestinationID: result.VideoID,
			Title:         result.Title,
			Artist:        strings.Join(names, ", "),
			DurationMS:    result.DurationSec * 1000,
		}
		if result.Album != nil {
			candidate.Album = result.Album.Name
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// CreatePlaylist creates a playlist on YouTube Music and returns its ID.
//
// Calls POST /api/playlists on the proxy.
func (y *YTMusicService) CreatePlaylist(ctx context.Context, title, description string, public bool) (string, error) {
	privacy := "PRIVATE"
	if public {
		privacy = "PUBLIC"
	}

	body := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         title,
		Description:   description,
		PrivacyStatus: privacy,
	}

	var response struct {
		PlaylistID string `json:"playlist_id"`
	}

	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", body, &response); err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrPlaylistCreation, err)
	}

	return response.PlaylistID, nil
}

// AddTracks appends videos to a playlist in a single proxy call.
//
// Calls POST /api/playlists/{id}/items on the proxy.
func (y *YTMusicService) AddTracks(ctx context.Context, playlistID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	body := struct {
		VideoIDs []string `json:"video_ids"`
	}{
		VideoIDs: ids,
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", playlistID)
	if err := y.doRequest(ctx, http.MethodPost, endpoint, body, nil); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrBatchAdd, err)
	}

	return nil
}

// DeletePlaylist removes a playlist by ID.
//
// Calls DELETE /api/playlists/{id} on the proxy.
func (y *YTMusicService) DeletePlaylist(ctx context.Context, playlistID string) error {
	endpoint := fmt.Sprintf("/api/playlists/%s", playlistID)
	if err := y.doRequest(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete playlist %s: %w", playlistID, err)
	}
	return nil
}
