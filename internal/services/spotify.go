// Spotify Web API implementation of [Source], built on github.com/zmb3/spotify/v2.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const spotifyPageSize = 50

// SpotifyService implements [Source] for the Spotify Web API.
//
// The zero value is not usable; construct with [NewSpotifyService] and call
// Authenticate before any listing method.
type SpotifyService struct {
	auth   *spotifyauth.Authenticator
	cfg    shared.SpotifyConfig
	client *spotify.Client
}

// NewSpotifyService creates a Spotify source adapter with the given OAuth2
// client settings. The read-only playlist scopes are all a migration needs.
func NewSpotifyService(cfg shared.SpotifyConfig) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	if cfg.RedirectURI == "" {
		cfg.RedirectURI = "http://localhost:3000/callback"
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistReadCollaborative,
		),
	)

	return &SpotifyService{auth: auth, cfg: cfg}, nil
}

// OAuthConfig returns the OAuth2 client configuration, used by the local
// callback server to exchange the authorization code.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RedirectURL:  s.cfg.RedirectURI,
		Scopes: []string{
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistReadCollaborative,
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 consent URL for the given CSRF state.
func (s *SpotifyService) AuthURL(state string) string {
	return s.auth.AuthURL(state)
}

// Exchange completes the OAuth2 authorization-code flow and initializes the
// API client with the resulting token.
func (s *SpotifyService) Exchange(ctx context.Context, code string) error {
	token, err := s.auth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: failed to exchange auth code: %w", shared.ErrAuthFailed, err)
	}
	s.client = spotify.New(s.auth.Client(ctx, token))
	return nil
}

// Authenticate establishes a session from an "access_token", "refresh_token",
// or "auth_code" credential. A refresh token is exchanged lazily on the first
// API call.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if refreshToken := credentials["refresh_token"]; refreshToken != "" {
		token := &oauth2.Token{RefreshToken: refreshToken}
		s.client = spotify.New(s.auth.Client(ctx, token))
		return nil
	}

	if accessToken := credentials["access_token"]; accessToken != "" {
		token := &oauth2.Token{AccessToken: accessToken}
		s.client = spotify.New(s.auth.Client(ctx, token))
		return nil
	}

	if authCode := credentials["auth_code"]; authCode != "" {
		return s.Exchange(ctx, authCode)
	}

	return fmt.Errorf("%w: access_token or auth_code required", shared.ErrMissingCredentials)
}

// CurrentUser returns the authenticated user's display name. This is the
// cheapest authenticated call the API offers, so the migration flow uses it
// as its pre-job auth probe.
func (s *SpotifyService) CurrentUser(ctx context.Context) (string, error) {
	if s.client == nil {
		return "", shared.ErrNotAuthenticated
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	if user.DisplayName != "" {
		return user.DisplayName, nil
	}
	return user.ID, nil
}

// GetPlaylists retrieves all playlists for the authenticated user, following
// pagination until exhausted.
func (s *SpotifyService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}

	page, err := s.client.CurrentUsersPlaylists(ctx, spotify.Limit(spotifyPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list playlists: %w", shared.ErrAPIRequest, err)
	}

	var playlists []models.Playlist
	for {
		for _, sp := range page.Playlists {
			playlists = append(playlists, models.Playlist{
				ID:          string(sp.ID),
				Name:        sp.Name,
				Description: sp.Description,
				TrackCount:  int(sp.Tracks.Total),
				Public:      sp.IsPublic,
			})
		}

		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to page playlists: %w", shared.ErrAPIRequest, err)
		}
	}

	return playlists, nil
}

// GetPlaylistTracks retrieves all tracks of a playlist in platform order.
// Episodes and removed tracks appear as nil items in the API and are skipped.
func (s *SpotifyService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}

	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch playlist items: %w", shared.ErrAPIRequest, err)
	}

	var tracks []models.Track
	for {
		for _, item := range page.Items {
			full := item.Track.Track
			if full == nil || full.ID == "" {
				continue
			}

			names := make([]string, len(full.Artists))
			for i, artist := range full.Artists {
				names[i] = artist.Name
			}

			tracks = append(tracks, models.Track{
				SourceID:   string(full.ID),
				Title:      full.Name,
				Artist:     strings.Join(names, ", "),
				Album:      full.Album.Name,
				DurationMS: int(full.Duration),
				ISRC:       full.ExternalIDs["isrc"],
			})
		}

		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to page playlist items: %w", shared.ErrAPIRequest, err)
		}
	}

	return tracks, nil
}
