package models

import (
	"fmt"
	"time"
)

// Migration record statuses.
const (
	MigrationStatusCompleted = "completed"
	MigrationStatusFailed    = "failed"
)

// MigrationRecord is the persisted form of a PlaylistMigrationReport,
// one row per playlist processed by a job.
type MigrationRecord struct {
	id                    string
	sequence              int
	sourcePlaylistID      string
	sourcePlaylistName    string
	destinationPlaylistID string
	status                string
	tracksTotal           int
	tracksMatched         int
	tracksUnmatched       int
	errorMessage          string
	createdAt             time.Time
	updatedAt             time.Time
}

// NewMigrationRecord builds a record from a finalized playlist report.
func NewMigrationRecord(report PlaylistMigrationReport) *MigrationRecord {
	now := time.Now()

	status := MigrationStatusCompleted
	errorMessage := report.AddError
	if report.Failed() {
		status = MigrationStatusFailed
		errorMessage = report.FailureReason
	}

	return &MigrationRecord{
		sourcePlaylistID:      report.SourcePlaylist.ID,
		sourcePlaylistName:    report.SourcePlaylist.Name,
		destinationPlaylistID: report.DestinationPlaylistID,
		status:                status,
		tracksTotal:           report.TotalTracks,
		tracksMatched:         report.MatchedCount,
		tracksUnmatched:       report.UnmatchedCount,
		errorMessage:          errorMessage,
		createdAt:             now,
		updatedAt:             now,
	}
}

// RehydrateMigrationRecord reconstructs a record from stored column values.
// Used by the repository when scanning rows.
func RehydrateMigrationRecord(
	id, sourceID, sourceName, destID, status, errorMessage string,
	sequence, total, matched, unmatched int,
	createdAt, updatedAt time.Time,
) *MigrationRecord {
	return &MigrationRecord{
		id:                    id,
		sequence:              sequence,
		sourcePlaylistID:      sourceID,
		sourcePlaylistName:    sourceName,
		destinationPlaylistID: destID,
		status:                status,
		tracksTotal:           total,
		tracksMatched:         matched,
		tracksUnmatched:       unmatched,
		errorMessage:          errorMessage,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

func (m *MigrationRecord) ID() string           { return m.id }
func (m *MigrationRecord) CreatedAt() time.Time { return m.createdAt }
func (m *MigrationRecord) UpdatedAt() time.Time { return m.updatedAt }

func (m *MigrationRecord) SetID(id string)          { m.id = id }
func (m *MigrationRecord) SetSequence(sequence int) { m.sequence = sequence }
func (m *MigrationRecord) SetUpdatedAt(t time.Time) { m.updatedAt = t }

func (m *MigrationRecord) Sequence() int { return m.sequence }

func (m *MigrationRecord) SourcePlaylistID() string      { return m.sourcePlaylistID }
func (m *MigrationRecord) SourcePlaylistName() string    { return m.sourcePlaylistName }
func (m *MigrationRecord) DestinationPlaylistID() string { return m.destinationPlaylistID }
func (m *MigrationRecord) Status() string                { return m.status }
func (m *MigrationRecord) TracksTotal() int              { return m.tracksTotal }
func (m *MigrationRecord) TracksMatched() int            { return m.tracksMatched }
func (m *MigrationRecord) TracksUnmatched() int          { return m.tracksUnmatched }
func (m *MigrationRecord) ErrorMessage() string          { return m.errorMessage }

// Validate checks the record's invariants before persistence.
func (m *MigrationRecord) Validate() error {
	if m.id == "" {
		return fmt.Errorf("migration record has no ID")
	}
	if m.sourcePlaylistID == "" {
		return fmt.Errorf("migration record has no source playlist ID")
	}
	switch m.status {
	case MigrationStatusCompleted, MigrationStatusFailed:
	default:
		return fmt.Errorf("invalid migration status %q", m.status)
	}
	if m.tracksMatched+m.tracksUnmatched > m.tracksTotal {
		return fmt.Errorf("track counts exceed total: %d matched + %d unmatched > %d",
			m.tracksMatched, m.tracksUnmatched, m.tracksTotal)
	}
	return nil
}
