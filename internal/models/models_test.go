package models

import (
	"testing"
)

func TestTrackLabel(t *testing.T) {
	track := Track{Title: "Yesterday", Artist: "The Beatles"}
	want := "Yesterday - The Beatles"
	if got := track.Label(); got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestMigrationSummaryAdd(t *testing.T) {
	var summary MigrationSummary

	summary.Add(PlaylistMigrationReport{
		SourcePlaylist:        Playlist{ID: "p1", Name: "Road Trip"},
		DestinationPlaylistID: "yt1",
		TotalTracks:           3,
		MatchedCount:          2,
		UnmatchedCount:        1,
		UnmatchedLabels:       []string{"Lost Song - Nobody"},
	})
	summary.Add(PlaylistMigrationReport{
		SourcePlaylist: Playlist{ID: "p2", Name: "Empty"},
		FailureReason:  "no tracks found",
	})

	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Errorf("Succeeded/Failed = %d/%d, want 1/1", summary.Succeeded, summary.Failed)
	}
	if summary.TotalTracks != 3 || summary.MatchedTracks != 2 || summary.UnmatchedTracks != 1 {
		t.Errorf("track totals = %d/%d/%d, want 3/2/1",
			summary.TotalTracks, summary.MatchedTracks, summary.UnmatchedTracks)
	}
	if rate := summary.MatchRate(); rate < 66.6 || rate > 66.7 {
		t.Errorf("MatchRate() = %f, want ~66.67", rate)
	}
}

func TestMigrationSummaryMatchRateEmpty(t *testing.T) {
	var summary MigrationSummary
	if rate := summary.MatchRate(); rate != 0 {
		t.Errorf("MatchRate() on empty summary = %f, want 0", rate)
	}
}

func TestMigrationRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MigrationRecord)
		wantErr bool
	}{
		{
			name:   "valid record",
			mutate: func(r *MigrationRecord) { r.SetID("abc") },
		},
		{
			name:    "missing ID",
			mutate:  func(r *MigrationRecord) {},
			wantErr: true,
		},
		{
			name: "invalid status",
			mutate: func(r *MigrationRecord) {
				r.SetID("abc")
				r.status = "in_flight"
			},
			wantErr: true,
		},
		{
			name: "counts exceed total",
			mutate: func(r *MigrationRecord) {
				r.SetID("abc")
				r.tracksMatched = 5
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := NewMigrationRecord(PlaylistMigrationReport{
				SourcePlaylist: Playlist{ID: "p1", Name: "Mix"},
				TotalTracks:    2,
				MatchedCount:   2,
			})
			tt.mutate(record)

			err := record.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewMigrationRecordStatus(t *testing.T) {
	failed := NewMigrationRecord(PlaylistMigrationReport{
		SourcePlaylist: Playlist{ID: "p1"},
		FailureReason:  "creation failed",
	})
	if failed.Status() != MigrationStatusFailed {
		t.Errorf("Status() = %q, want %q", failed.Status(), MigrationStatusFailed)
	}
	if failed.ErrorMessage() != "creation failed" {
		t.Errorf("ErrorMessage() = %q, want %q", failed.ErrorMessage(), "creation failed")
	}

	ok := NewMigrationRecord(PlaylistMigrationReport{
		SourcePlaylist:        Playlist{ID: "p2"},
		DestinationPlaylistID: "yt2",
		TotalTracks:           1,
		MatchedCount:          1,
	})
	if ok.Status() != MigrationStatusCompleted {
		t.Errorf("Status() = %q, want %q", ok.Status(), MigrationStatusCompleted)
	}
}
