// Package formatter renders migration summaries to various formats (plain
// text, Markdown, CSV, JSON) for console output and report files.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/fernwalter/tunex/internal/models"
	"github.com/fernwalter/tunex/internal/shared"
)

// SummaryToText renders a migration summary as plain text.
func SummaryToText(summary *models.MigrationSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlists: %d (%d migrated, %d failed)\n",
		summary.TotalPlaylists, summary.Succeeded, summary.Failed))
	buf.WriteString(fmt.Sprintf("Tracks: %d/%d matched (%.1f%%)\n\n",
		summary.MatchedTracks, summary.TotalTracks, summary.MatchRate()))

	for _, report := range summary.Reports {
		if report.Failed() {
			buf.WriteString(fmt.Sprintf("✗ %s: %s\n", report.SourcePlaylist.Name, report.FailureReason))
			continue
		}

		buf.WriteString(fmt.Sprintf("✓ %s: %d/%d matched (destination %s)\n",
			report.SourcePlaylist.Name, report.MatchedCount, report.TotalTracks, report.DestinationPlaylistID))

		for _, label := range report.UnmatchedLabels {
			buf.WriteString(fmt.Sprintf("    unmatched: %s\n", label))
		}
		if report.AddError != "" {
			buf.WriteString(fmt.Sprintf("    add error: %s\n", report.AddError))
		}
	}

	return buf.Bytes()
}

// SummaryToMarkdown renders a migration summary as a Markdown report.
func SummaryToMarkdown(summary *models.MigrationSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Migration Report\n\n")
	buf.WriteString(fmt.Sprintf("**Playlists**: %d (%d migrated, %d failed)\n", summary.TotalPlaylists, summary.Succeeded, summary.Failed))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d/%d matched (%.1f%%)\n\n", summary.MatchedTracks, summary.TotalTracks, summary.MatchRate()))

	buf.WriteString("## Playlists\n\n")
	buf.WriteString("| Playlist | Status | Matched | Destination |\n")
	buf.WriteString("|---|---|---|---|\n")
	for _, report := range summary.Reports {
		status := "migrated"
		destination := report.DestinationPlaylistID
		if report.Failed() {
			status = "failed"
			destination = "-"
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %d/%d | %s |\n",
			report.SourcePlaylist.Name, status, report.MatchedCount, report.TotalTracks, destination))
	}

	unmatched := false
	for _, report := range summary.Reports {
		if len(report.UnmatchedLabels) > 0 {
			unmatched = true
			break
		}
	}

	if unmatched {
		buf.WriteString("\n## Unmatched Tracks\n\n")
		for _, report := range summary.Reports {
			for _, label := range report.UnmatchedLabels {
				buf.WriteString(fmt.Sprintf("- %s (%s)\n", label, report.SourcePlaylist.Name))
			}
		}
	}

	return buf.Bytes()
}

// UnmatchedToCSV renders all unmatched tracks as CSV with columns:
// Playlist, Track, Reason.
func UnmatchedToCSV(summary *models.MigrationSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Playlist", "Track", "Matched", "Total"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, report := range summary.Reports {
		for _, label := range report.UnmatchedLabels {
			record := []string{
				report.SourcePlaylist.Name,
				label,
				strconv.Itoa(report.MatchedCount),
				strconv.Itoa(report.TotalTracks),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SummaryToJSON renders the full summary as indented JSON.
func SummaryToJSON(summary *models.MigrationSummary) ([]byte, error) {
	return shared.MarshalJSON(summary, true)
}

// ExportResult contains the paths of files created by WriteSummaryExport.
type ExportResult struct {
	ReportFile    string
	UnmatchedFile string
}

// WriteSummaryExport writes a Markdown report plus a CSV of unmatched tracks.
//
// Creates {base}_report.md and, when any track went unmatched, {base}_unmatched.csv.
func WriteSummaryExport(summary *models.MigrationSummary, baseFilepath string) (*ExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "migration"
	}

	result := &ExportResult{}

	reportFile := baseFilepath + "_report.md"
	if err := os.WriteFile(reportFile, SummaryToMarkdown(summary), 0644); err != nil {
		return nil, fmt.Errorf("failed to write report file: %w", err)
	}
	result.ReportFile = reportFile

	if summary.UnmatchedTracks > 0 {
		csvData, err := UnmatchedToCSV(summary)
		if err != nil {
			return nil, fmt.Errorf("failed to generate unmatched CSV: %w", err)
		}

		unmatchedFile := baseFilepath + "_unmatched.csv"
		if err := os.WriteFile(unmatchedFile, csvData, 0644); err != nil {
			return nil, fmt.Errorf("failed to write unmatched file: %w", err)
		}
		result.UnmatchedFile = unmatchedFile
	}

	return result, nil
}
