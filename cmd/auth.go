package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fernwalter/tunex/internal/server"
	"github.com/fernwalter/tunex/internal/services"
	"github.com/fernwalter/tunex/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthSpotify performs the OAuth2 authorization-code flow for the source.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// persists the resulting token for later runs.
func (r *Runner) AuthSpotify(ctx context.Context, cmd *cli.Command) error {
	spotifyService, err := services.NewSpotifyService(r.config.Credentials.Spotify)
	if err != nil {
		return err
	}

	token, err := r.doOAuth(spotifyService, "Spotify")
	if err != nil {
		return err
	}

	if err := saveToken("spotify", token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("You can now use: tunex spotify playlists\n")
	return nil
}

// AuthYouTube performs the OAuth2 authorization-code flow for the YouTube
// Data API destination.
func (r *Runner) AuthYouTube(ctx context.Context, cmd *cli.Command) error {
	youtubeService, err := services.NewYouTubeService(r.config.Credentials.YouTube)
	if err != nil {
		return err
	}

	token, err := r.doOAuth(youtubeService, "YouTube")
	if err != nil {
		return err
	}

	if err := saveToken("youtube", token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	return nil
}

// AuthYTMusic verifies credentials against the YouTube Music proxy.
func (r *Runner) AuthYTMusic(ctx context.Context, cmd *cli.Command) error {
	authFile := cmd.StringArg("auth_file")
	ytmusic := services.NewYTMusicService(r.config.Credentials.YouTube)

	credentials := map[string]string{}
	if authFile != "" {
		credentials["auth_file"] = authFile
	}

	if err := ytmusic.Authenticate(ctx, credentials); err != nil {
		return err
	}

	r.writePlain("✓ YouTube Music proxy accepted the credentials\n")
	return nil
}

// AuthStatus reports whether a saved source session still works.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.source == nil {
		return fmt.Errorf("%w: source not configured", shared.ErrServiceUnavailable)
	}

	if err := r.restoreSourceSession(ctx); err != nil {
		r.writePlain("✗ %s: not authenticated (%v)\n", r.source.Name(), err)
		return nil
	}

	user, err := r.source.CurrentUser(ctx)
	if err != nil {
		r.writePlain("✗ %s: session invalid (%v)\n", r.source.Name(), err)
		return nil
	}

	r.writePlain("✓ %s: authenticated as %s\n", r.source.Name(), user)
	return nil
}

// restoreSourceSession authenticates the source from its saved token.
func (r *Runner) restoreSourceSession(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("%w: source not configured", shared.ErrServiceUnavailable)
	}

	token, err := loadToken("spotify")
	if err != nil {
		return fmt.Errorf("%w: run `tunex auth spotify` first", shared.ErrNotAuthenticated)
	}

	return r.source.Authenticate(ctx, tokenCredentials(token))
}

// restoreDestSession authenticates the destination, from a saved token for
// OAuth destinations or from the configured auth file for the proxy.
func (r *Runner) restoreDestSession(ctx context.Context) error {
	if r.dest == nil {
		return fmt.Errorf("%w: destination not configured", shared.ErrServiceUnavailable)
	}

	if _, ok := r.dest.(services.OAuthService); ok {
		token, err := loadToken("youtube")
		if err != nil {
			return fmt.Errorf("%w: run `tunex auth youtube` first", shared.ErrNotAuthenticated)
		}
		return r.dest.Authenticate(ctx, tokenCredentials(token))
	}

	return r.dest.Authenticate(ctx, map[string]string{})
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(svc services.OAuthService, label string) (*oauth2.Token, error) {
	state := shared.GenerateID()
	authURL := svc.AuthURL(state)

	oauthHandler := server.NewOAuthHandler(svc.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for %s authorization...\n", label)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// tokenCredentials converts a saved token into the credential map the
// adapters accept. A refresh token wins so expired access tokens get renewed.
func tokenCredentials(token *oauth2.Token) map[string]string {
	credentials := map[string]string{}
	if token.RefreshToken != "" {
		credentials["refresh_token"] = token.RefreshToken
	} else if token.AccessToken != "" {
		credentials["access_token"] = token.AccessToken
	}
	return credentials
}

func tokenPath(service string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tunex", service+"_token.json"), nil
}

func saveToken(service string, token *oauth2.Token) error {
	path, err := tokenPath(service)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

func loadToken(service string) (*oauth2.Token, error) {
	path, err := tokenPath(service)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}
