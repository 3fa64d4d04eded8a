// Package services defines the catalog adapter interfaces and implements
// them for Spotify (source) and YouTube (destination).
//
// # Adapter Interfaces
//
// [Source] lists playlists and tracks from the source catalog; [Destination]
// searches for match candidates and manages destination playlists. Both hide
// pagination and vendor transports entirely: the migration engine sees
// ordered slices of models types and nothing else.
//
// # Spotify Implementation
//
// [SpotifyService] wraps the Spotify Web API via github.com/zmb3/spotify/v2
// with OAuth2 authentication. Playlist and track listings follow the client's
// pagination until exhausted; result order is platform order.
//
// # Destination Implementations
//
// Two interchangeable clients implement [Destination], selected at
// configuration time:
//
//   - [YouTubeService] targets the YouTube Data API v3 (a general video
//     catalog): song search is a video search restricted to the Music
//     category, and the channel title stands in for the artist.
//   - [YTMusicService] targets the YouTube Music proxy server (a dedicated
//     music catalog) wrapping ytmusicapi; search results carry real artist
//     and album metadata.
//
// [YouTubeService] throttles playlist writes with a [rate.Limiter] to respect
// the Data API's per-minute write quota; the proxy batches adds server-side
// and needs no client throttle.
//
// # Error Handling
//
// Services wrap typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrMissingCredentials] : required credential absent
//   - [shared.ErrAPIRequest] : HTTP request failed
//
// Credentials are passed explicitly to Authenticate and live only inside the
// adapter instance; there is no ambient session state.
package services
