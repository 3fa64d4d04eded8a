// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/fernwalter/tunex/internal/models"
)

// MockSource is a configurable test double for [services.Source].
type MockSource struct {
	Playlists    []models.Playlist
	Tracks       map[string][]models.Track
	User         string
	AuthErr      error
	PlaylistsErr error
	TracksErr    error
}

func (m *MockSource) Authenticate(ctx context.Context, credentials map[string]string) error {
	return m.AuthErr
}

func (m *MockSource) CurrentUser(ctx context.Context) (string, error) {
	if m.User == "" {
		return "mock-user", nil
	}
	return m.User, nil
}

func (m *MockSource) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}
	return m.Playlists, nil
}

func (m *MockSource) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	return m.Tracks[playlistID], nil
}

func (m *MockSource) Name() string { return "mock-source" }

// MockDestination is a configurable test double for [services.Destination].
// Search echoes each query back as an exact-title candidate unless SearchFn
// overrides it.
type MockDestination struct {
	SearchFn   func(title, artist string, limit int) ([]models.MatchCandidate, error)
	CreateID   string
	AuthErr    error
	CreateErr  error
	AddErr     error
	DeleteErr  error
	Created    []string
	AddedIDs   map[string][]string
	DeletedIDs []string
}

func (m *MockDestination) Authenticate(ctx context.Context, credentials map[string]string) error {
	return m.AuthErr
}

func (m *MockDestination) SearchCandidates(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error) {
	if m.SearchFn != nil {
		return m.SearchFn(title, artist, limit)
	}
	return []models.MatchCandidate{{DestinationID: "dest-" + title, Title: title, Artist: artist}}, nil
}

func (m *MockDestination) CreatePlaylist(ctx context.Context, title, description string, public bool) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.Created = append(m.Created, title)
	if m.CreateID != "" {
		return m.CreateID, nil
	}
	return "dest-playlist-1", nil
}

func (m *MockDestination) AddTracks(ctx context.Context, playlistID string, ids []string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	if m.AddedIDs == nil {
		m.AddedIDs = make(map[string][]string)
	}
	m.AddedIDs[playlistID] = append(m.AddedIDs[playlistID], ids...)
	return nil
}

func (m *MockDestination) DeletePlaylist(ctx context.Context, playlistID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedIDs = append(m.DeletedIDs, playlistID)
	return nil
}

func (m *MockDestination) Name() string { return "mock-destination" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
