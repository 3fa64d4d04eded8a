package repositories

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/shared"
)

// setupTestDB creates an in-memory database with migrations applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func completedReport(name string) models.PlaylistMigrationReport {
	return models.PlaylistMigrationReport{
		SourcePlaylist:        models.Playlist{ID: "src-" + name, Name: name},
		DestinationPlaylistID: "dest-" + name,
		TotalTracks:           10,
		MatchedCount:          8,
		UnmatchedCount:        2,
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	first, err := NextSequence(db, "migrations")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := NextSequence(db, "migrations")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first != 1 || second != 2 {
		t.Errorf("expected sequences 1 and 2, got %d and %d", first, second)
	}
}

func TestMigrationRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMigrationRepository(db)

		record := models.NewMigrationRecord(completedReport("Road Trip"))
		if err := repo.Create(record); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if record.ID() == "" {
			t.Error("expected ID to be generated")
		}
		if record.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", record.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMigrationRepository(db)

		record := models.NewMigrationRecord(completedReport("Road Trip"))
		if err := repo.Create(record); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got.SourcePlaylistName() != "Road Trip" {
			t.Errorf("expected source name 'Road Trip', got %s", got.SourcePlaylistName())
		}
		if got.DestinationPlaylistID() != "dest-Road Trip" {
			t.Errorf("expected destination ID, got %s", got.DestinationPlaylistID())
		}
		if got.Status() != models.MigrationStatusCompleted {
			t.Errorf("expected completed status, got %s", got.Status())
		}
		if got.TracksTotal() != 10 || got.TracksMatched() != 8 || got.TracksUnmatched() != 2 {
			t.Errorf("unexpected track counts: %d/%d/%d", got.TracksTotal(), got.TracksMatched(), got.TracksUnmatched())
		}
	})

	t.Run("Get missing record", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMigrationRepository(db)

		if _, err := repo.Get("nonexistent"); err == nil {
			t.Fatal("expected error for missing record")
		}
	})

	t.Run("failed records keep their failure reason", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMigrationRepository(db)

		report := models.PlaylistMigrationReport{
			SourcePlaylist: models.Playlist{ID: "src-1", Name: "Broken"},
			FailureReason:  "failed to create destination playlist: quota exceeded",
		}
		record := models.NewMigrationRecord(report)
		if err := repo.Create(record); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Status() != models.MigrationStatusFailed {
			t.Errorf("expected failed status, got %s", got.Status())
		}
		if !strings.Contains(got.ErrorMessage(), "quota exceeded") {
			t.Errorf("expected error message preserved, got %s", got.ErrorMessage())
		}
		if got.DestinationPlaylistID() != "" {
			t.Errorf("expected empty destination ID, got %s", got.DestinationPlaylistID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMigrationRepository(db)

		record := models.NewMigrationRecord(completedReport("Road Trip"))
		if err := repo.Create(record); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		updated := models.RehydrateMigrationRecord(
			record.ID(), record.SourcePlaylistID(), record.SourcePlaylistName(),
			record.DestinationPlaylistID(), models.MigrationStatusFailed, "late failure",
			record.Sequence(), record.TracksTotal(), record.TracksMatched(), record.TracksUnmatched(),
			record.CreatedAt(), record.UpdatedAt(),
		)
		if err := repo.Update(updated); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Status() != models.MigrationStatusFailed {
			t.Errorf("expected failed status after update, got %s", got.Status())
		}
	})

	t.Run("Update missing record", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMigrationRepository(db)

		record := models.NewMigrationRecord(completedReport("Ghost"))
		record.SetID("nonexistent")
		if err := repo.Update(record); err == nil {
			t.Fatal("expected error for missing record")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMigrationRepository(db)

		record := models.NewMigrationRecord(completedReport("Road Trip"))
		if err := repo.Create(record); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := repo.Get(record.ID()); err == nil {
			t.Fatal("expected soft-deleted record to be invisible")
		}

		if err := repo.Delete(record.ID()); err == nil {
			t.Fatal("expected error deleting an already deleted record")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMigrationRepository(db)

		for _, name := range []string{"First", "Second"} {
			if err := repo.Create(models.NewMigrationRecord(completedReport(name))); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		failed := models.NewMigrationRecord(models.PlaylistMigrationReport{
			SourcePlaylist: models.Playlist{ID: "src-3", Name: "Third"},
			FailureReason:  "no tracks",
		})
		if err := repo.Create(failed); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		t.Run("returns newest first", func(t *testing.T) {
			records, err := repo.List(map[string]any{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(records) != 3 {
				t.Fatalf("expected 3 records, got %d", len(records))
			}
			if records[0].SourcePlaylistName() != "Third" {
				t.Errorf("expected newest record first, got %s", records[0].SourcePlaylistName())
			}
		})

		t.Run("filters by status", func(t *testing.T) {
			records, err := repo.List(map[string]any{"status": models.MigrationStatusFailed})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(records) != 1 || records[0].SourcePlaylistName() != "Third" {
				t.Errorf("unexpected filtered records: %d", len(records))
			}
		})

		t.Run("filters by source playlist", func(t *testing.T) {
			records, err := repo.List(map[string]any{"source_playlist_id": "src-First"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(records) != 1 || records[0].SourcePlaylistName() != "First" {
				t.Errorf("unexpected filtered records: %d", len(records))
			}
		})
	})
}
