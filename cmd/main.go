package main

import (
	"context"
	"errors"
	"os"

	"github.com/fernwalter/tunex/internal/services"
	"github.com/fernwalter/tunex/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	godotenv.Load()
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config.toml, using defaults: %v", err)
		}
	}

	var source services.Source
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify); err == nil {
			source = svc
		} else {
			logger.Warnf("spotify source unavailable: %v", err)
		}
	}

	dest, err := buildDestination(config)
	if err != nil {
		logger.Warnf("destination unavailable: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:      config,
		Source:      source,
		Destination: dest,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "tunex",
		Usage:    "Migrate playlists from Spotify to YouTube Music",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// buildDestination selects the destination adapter from config. The proxy
// client is the default; "youtube" switches to the YouTube Data API client.
func buildDestination(config *shared.Config) (services.Destination, error) {
	switch config.Destination.Provider {
	case "", "ytmusic":
		return services.NewYTMusicService(config.Credentials.YouTube), nil
	case "youtube":
		return services.NewYouTubeService(config.Credentials.YouTube)
	default:
		return nil, errors.New("unknown destination provider " + config.Destination.Provider)
	}
}
