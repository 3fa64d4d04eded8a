package services

import (
	"context"

	"github.com/fernwalter/tunex/internal/models"
	"golang.org/x/oauth2"
)

// OAuthService is implemented by adapters that authenticate through a
// browser-based OAuth2 authorization-code flow.
type OAuthService interface {
	// AuthURL returns the consent URL for the given CSRF state.
	AuthURL(state string) string

	// OAuthConfig returns the underlying OAuth2 client configuration, used by
	// the local callback server to exchange the authorization code.
	OAuthConfig() *oauth2.Config

	// Authenticate establishes a session from the given credentials.
	Authenticate(ctx context.Context, credentials map[string]string) error
}

// Source is the adapter contract for the catalog playlists are migrated from.
//
// Listings are returned in platform order; the migration engine preserves
// that order. Implementations own any internal pagination.
type Source interface {
	// Authenticate establishes a session from the given credentials.
	// Returns an error wrapping shared.ErrAuthFailed or
	// shared.ErrMissingCredentials when the session cannot be established.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// CurrentUser returns the authenticated user's display name.
	// Used as the pre-job authentication probe: a failure here is fatal for
	// the whole migration job.
	CurrentUser(ctx context.Context) (string, error)

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylistTracks retrieves all tracks of a playlist in platform order.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// Name returns the catalog name (e.g. "Spotify").
	Name() string
}

// Destination is the adapter contract for the catalog playlists are migrated to.
type Destination interface {
	// Authenticate establishes a session from the given credentials.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// SearchCandidates runs a combined title/artist search and returns up to
	// limit provider-ranked candidates. An empty result is not an error.
	SearchCandidates(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error)

	// CreatePlaylist creates a playlist and returns its identifier. An empty
	// identifier with a nil error also counts as a creation failure.
	CreatePlaylist(ctx context.Context, title, description string, public bool) (string, error)

	// AddTracks appends the given destination track IDs to a playlist.
	// Callers enforce any per-call batch limit; the adapter does not.
	AddTracks(ctx context.Context, playlistID string, ids []string) error

	// DeletePlaylist removes a playlist. Used by diagnostic tooling only,
	// never by the migration path.
	DeletePlaylist(ctx context.Context, playlistID string) error

	// Name returns the catalog name (e.g. "YouTube Music").
	Name() string
}
