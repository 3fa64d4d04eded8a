package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/services"
	"github.com/fernwalter/tunex/internal/shared"
	"github.com/fernwalter/tunex/internal/tasks"
)

// Engine is the subset of the migration engine the handler drives.
type Engine interface {
	Run(ctx context.Context, sink tasks.ProgressSink) (*models.MigrationSummary, error)
	Migrate(ctx context.Context, playlists []models.Playlist, sink tasks.ProgressSink) (*models.MigrationSummary, error)
}

// HistoryStore persists per-playlist migration records.
type HistoryStore interface {
	Create(record *models.MigrationRecord) error
}

// migrateRequest is the POST /api/migrate body. An empty PlaylistIDs list
// migrates every playlist in the source account.
type migrateRequest struct {
	PlaylistIDs []string `json:"playlist_ids"`
}

// MigrationHandler serves the migration endpoint, streaming engine progress
// as Server-Sent Events. Implements the Handler interface.
type MigrationHandler struct {
	engine  Engine
	source  services.Source
	history HistoryStore
	logger  *log.Logger
}

// NewMigrationHandler creates a handler around the given engine. The history
// store may be nil to disable persistence.
func NewMigrationHandler(engine Engine, source services.Source, history HistoryStore, logger *log.Logger) *MigrationHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &MigrationHandler{
		engine:  engine,
		source:  source,
		history: history,
		logger:  logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *MigrationHandler) Routes() []string {
	return []string{"/health", "/api/migrate"}
}

func (h *MigrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/health":
		h.handleHealth(w, r)
	case "/api/migrate":
		h.handleMigrate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *MigrationHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *MigrationHandler) handleMigrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req migrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sink := tasks.NewStreamSink(w)

	var (
		summary *models.MigrationSummary
		err     error
	)

	if len(req.PlaylistIDs) == 0 {
		summary, err = h.engine.Run(r.Context(), sink)
	} else {
		playlists, selErr := h.selectPlaylists(r, req.PlaylistIDs, sink)
		if selErr != nil {
			return
		}
		summary, err = h.engine.Migrate(r.Context(), playlists, sink)
	}

	if err != nil {
		// The engine already emitted an error event; nothing else to stream.
		h.logger.Error("migration run failed", "err", err)
		return
	}

	h.persist(summary)
}

// selectPlaylists resolves requested playlist IDs against the source catalog.
// Unknown IDs are reported as error events and skipped.
func (h *MigrationHandler) selectPlaylists(r *http.Request, ids []string, sink tasks.ProgressSink) ([]models.Playlist, error) {
	all, err := h.source.GetPlaylists(r.Context())
	if err != nil {
		h.logger.Error("playlist listing failed", "err", err)
		sink.Emit(tasks.Event{Type: tasks.EventError, Message: "failed to list source playlists: " + err.Error()})
		return nil, err
	}

	byID := make(map[string]models.Playlist, len(all))
	for _, playlist := range all {
		byID[playlist.ID] = playlist
	}

	selected := make([]models.Playlist, 0, len(ids))
	for _, id := range ids {
		playlist, ok := byID[id]
		if !ok {
			sink.Emit(tasks.Event{Type: tasks.EventError, Message: "unknown playlist ID: " + id})
			continue
		}
		selected = append(selected, playlist)
	}

	return selected, nil
}

// persist writes one history record per processed playlist, best effort.
func (h *MigrationHandler) persist(summary *models.MigrationSummary) {
	if h.history == nil || summary == nil {
		return
	}

	for _, report := range summary.Reports {
		if err := h.history.Create(models.NewMigrationRecord(report)); err != nil {
			h.logger.Error("failed to persist migration record",
				"playlist", report.SourcePlaylist.Name, "err", err)
		}
	}
}

// Serve starts an HTTP server for the migration endpoint on the configured
// host and port, blocking until the server stops.
func Serve(cfg shared.ServerConfig, handler *MigrationHandler, logger *log.Logger) error {
	router := NewBasicRouter()
	router.Use(LoggingMiddleware(logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logger.Info("server listening", "addr", addr)
	return http.ListenAndServe(addr, router)
}
