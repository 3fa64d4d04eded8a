// YouTube Data API v3 implementation of [Destination].
//
// The Data API is a general video catalog with no dedicated music surface:
// song search is a video search restricted to category 10 (Music) and the
// uploading channel's title stands in for the artist. Endpoint shapes follow
// https://developers.google.com/youtube/v3/docs
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	youtubeBaseURL  = "https://www.googleapis.com/youtube/v3"
	googleAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL  = "https://oauth2.googleapis.com/token"
	youtubeScope    = "https://www.googleapis.com/auth/youtube"
	musicCategoryID = "10"
)

// YouTubeService implements [Destination] for the YouTube Data API v3.
//
// Playlist writes are throttled with a token-bucket limiter: playlistItems
// insertions are the most quota-expensive calls in a migration and the API
// enforces per-minute write budgets.
type YouTubeService struct {
	config     *oauth2.Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTubeService creates a YouTube Data API destination adapter.
func NewYouTubeService(cfg shared.YouTubeConfig) (*YouTubeService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: youtube client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{youtubeScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}

	return &YouTubeService{
		config:  config,
		baseURL: youtubeBaseURL,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// AuthURL returns the OAuth2 consent URL for the given CSRF state.
func (y *YouTubeService) AuthURL(state string) string {
	return y.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig returns the OAuth2 client configuration, used by the local
// callback server to exchange the authorization code.
func (y *YouTubeService) OAuthConfig() *oauth2.Config {
	return y.config
}

// Authenticate establishes a session from an "access_token", "refresh_token",
// or "auth_code" credential.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken := credentials["access_token"]; accessToken != "" {
		y.httpClient = y.config.Client(ctx, &oauth2.Token{AccessToken: accessToken})
		return nil
	}

	if refreshToken := credentials["refresh_token"]; refreshToken != "" {
		y.httpClient = y.config.Client(ctx, &oauth2.Token{RefreshToken: refreshToken})
		return nil
	}

	if authCode := credentials["auth_code"]; authCode != "" {
		token, err := y.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %w", shared.ErrAuthFailed, err)
		}
		y.httpClient = y.config.Client(ctx, token)
		return nil
	}

	return fmt.Errorf("%w: access_token, refresh_token, or auth_code required", shared.ErrMissingCredentials)
}

// doRequest performs an authenticated HTTP request against the Data API.
func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if y.httpClient == nil {
		return shared.ErrNotAuthenticated
	}

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
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: youtube API status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: youtube API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchCandidates runs a combined-query video search restricted to the Music
// category. The channel title is the closest the Data API has to an artist.
func (y *YouTubeService) SearchCandidates(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error) {
	query := fmt.Sprintf("%s %s", title, artist)

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("videoCategoryId", musicCategoryID)
	params.Set("maxResults", fmt.Sprintf("%d", limit))

	var response struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
			} `json:"snippet"`
		} `json:"items"`
	}

	if err := y.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSearch, err)
	}

	candidates := make([]models.MatchCandidate, 0, len(response.Items))
	for _, item := range response.Items {
		candidates = append(candidates, models.MatchCandidate{
			DestinationID: item.ID.VideoID,
			Title:         item.Snippet.Title,
			Artist:        item.Snippet.ChannelTitle,
		})
	}

	return candidates, nil
}

// CreatePlaylist creates a playlist via playlists.insert and returns its ID.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, title, description string, public bool) (string, error) {
	privacy := "private"
	if public {
		privacy = "public"
	}

	body := map[string]any{
		"snippet": map[string]string{
			"title":       title,
			"description": description,
		},
		"status": map[string]string{
			"privacyStatus": privacy,
		},
	}

	var response struct {
		ID string `json:"id"`
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return "", err
	}
	if err := y.doRequest(ctx, http.MethodPost, "/playlists?part=snippet,status", body, &response); err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrPlaylistCreation, err)
	}

	return response.ID, nil
}

// AddTracks appends videos to a playlist. The Data API requires one
// playlistItems.insert call per video, each throttled by the write limiter.
func (y *YouTubeService) AddTracks(ctx context.Context, playlistID string, ids []string) error {
	for _, videoID := range ids {
		body := map[string]any{
			"snippet": map[string]any{
				"playlistId": playlistID,
				"resourceId": map[string]string{
					"kind":    "youtube#video",
					"videoId": videoID,
				},
			},
		}

		if err := y.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := y.doRequest(ctx, http.MethodPost, "/playlistItems?part=snippet", body, nil); err != nil {
			return fmt.Errorf("%w: video %s: %w", shared.ErrBatchAdd, videoID, err)
		}
	}

	return nil
}

// DeletePlaylist removes a playlist by ID.
func (y *YouTubeService) DeletePlaylist(ctx context.Context, playlistID string) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := "/playlists?id=" + url.QueryEscape(playlistID)
	if err := y.doRequest(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete playlist %s: %w", playlistID, err)
	}
	return nil
}
