package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/shared"
)

// MigrationRepository implements models.Repository[*models.MigrationRecord]
// for migration history tracking.
//
// Handles per-playlist migration record CRUD with soft delete support and
// status-based queries.
type MigrationRepository struct {
	db *sql.DB
}

// NewMigrationRepository creates a new MigrationRepository with the given database connection
func NewMigrationRepository(db *sql.DB) *MigrationRepository {
	return &MigrationRepository{db: db}
}

// Create inserts a new migration record into the database with generated ID and sequence
func (r *MigrationRepository) Create(record *models.MigrationRecord) error {
	sequence, err := NextSequence(r.db, "migrations")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.SetID(shared.GenerateID())
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO migrations (
			id, sequence, source_playlist_id, source_playlist_name,
			destination_playlist_id, status, tracks_total, tracks_matched,
			tracks_unmatched, error_message, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var destinationID any = record.DestinationPlaylistID()
	if destinationID == "" {
		destinationID = nil
	}

	var errorMessage any = record.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	_, err = r.db.Exec(query,
		record.ID(),
		record.Sequence(),
		record.SourcePlaylistID(),
		record.SourcePlaylistName(),
		destinationID,
		record.Status(),
		record.TracksTotal(),
		record.TracksMatched(),
		record.TracksUnmatched(),
		errorMessage,
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert migration record: %w", err)
	}

	return nil
}

// Get retrieves a migration record by ID, excluding soft-deleted records
func (r *MigrationRepository) Get(id string) (*models.MigrationRecord, error) {
	query := `
		SELECT
			id, sequence, source_playlist_id, source_playlist_name,
			destination_playlist_id, status, tracks_total, tracks_matched,
			tracks_unmatched, error_message, created_at, updated_at
		FROM migrations
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanRecord(r.db.QueryRow(query, id))
}

// Update modifies an existing migration record in the database
func (r *MigrationRepository) Update(record *models.MigrationRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	query := `
		UPDATE migrations
		SET destination_playlist_id = ?, status = ?, tracks_total = ?,
			tracks_matched = ?, tracks_unmatched = ?, error_message = ?,
			updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	var destinationID any = record.DestinationPlaylistID()
	if destinationID == "" {
		destinationID = nil
	}

	var errorMessage any = record.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	result, err := r.db.Exec(query,
		destinationID,
		record.Status(),
		record.TracksTotal(),
		record.TracksMatched(),
		record.TracksUnmatched(),
		errorMessage,
		now,
		record.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update migration record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("migration record not found or already deleted: %s", record.ID())
	}

	return nil
}

// Delete soft-deletes a migration record by ID
func (r *MigrationRepository) Delete(id string) error {
	query := `
		UPDATE migrations
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete migration record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("migration record not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all migration records matching the given criteria, excluding
// soft-deleted records. Supported criteria: "status", "source_playlist_id".
func (r *MigrationRepository) List(criteria map[string]any) ([]*models.MigrationRecord, error) {
	query := `
		SELECT
			id, sequence, source_playlist_id, source_playlist_name,
			destination_playlist_id, status, tracks_total, tracks_matched,
			tracks_unmatched, error_message, created_at, updated_at
		FROM migrations
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if sourceID, ok := criteria["source_playlist_id"].(string); ok && sourceID != "" {
		query += " AND source_playlist_id = ?"
		args = append(args, sourceID)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration records: %w", err)
	}
	defer rows.Close()

	var records []*models.MigrationRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.MigrationRecord, error) {
	var (
		id            string
		sequence      int
		sourceID      string
		sourceName    string
		destinationID sql.NullString
		status        string
		total         int
		matched       int
		unmatched     int
		errorMessage  sql.NullString
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(
		&id, &sequence, &sourceID, &sourceName, &destinationID, &status,
		&total, &matched, &unmatched, &errorMessage, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("migration record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan migration record: %w", err)
	}

	return models.RehydrateMigrationRecord(
		id, sourceID, sourceName, destinationID.String, status, errorMessage.String,
		sequence, total, matched, unmatched,
		createdAt, updatedAt,
	), nil
}
