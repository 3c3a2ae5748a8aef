package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/screenaso/appstore-assets/models"
)

// RunInfo is one row of the runs table.
type RunInfo struct {
	RunID           string
	AppID           string
	AppName         string
	OverallStatus   string
	CountryCount    int
	LogoCount       int
	ScreenshotCount int
	OutputDir       string
	CreatedAt       time.Time
}

// CountryRow is one per-country outcome within a run.
type CountryRow struct {
	Position        int
	Country         string
	LocaleUsed      string
	Status          string
	LogoSaved       bool
	ScreenshotCount int
	ErrorMessage    string
}

// ArtifactRow is one recorded output file.
type ArtifactRow struct {
	Country     string
	Kind        string
	FilePath    string
	SizeBytes   int64
	ContentHash string
}

// RecordRun stores a finished run and its per-country outcomes in one
// transaction.
func (db *DB) RecordRun(runID, outputDir string, report *models.DownloadReport) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, app_id, app_name, overall_status, country_count, logo_count, screenshot_count, output_dir, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, report.AppID, report.AppName, string(report.OverallStatus),
		report.Summary.TotalCountries, report.Summary.TotalLogos,
		report.Summary.TotalScreenshots, outputDir, report.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, c := range report.Countries {
		_, err = tx.Exec(`
			INSERT INTO run_countries (run_id, position, country, locale_used, status, logo_saved, screenshot_count, error_message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, i, c.Country, c.LocaleUsed, string(c.Status),
			c.LogoPath != "", len(c.ScreenshotPaths), nullString(c.ErrorMessage))
		if err != nil {
			return fmt.Errorf("failed to insert country %s: %w", c.Country, err)
		}
	}

	return tx.Commit()
}

// InsertArtifact records one written file for a run. country may be
// empty for run-level artifacts (report, pdf).
func (db *DB) InsertArtifact(runID, country, kind, filePath string, sizeBytes int64, contentHash string) error {
	_, err := db.Exec(`
		INSERT INTO artifacts (run_id, country, kind, file_path, size_bytes, content_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, nullString(country), kind, filePath, sizeBytes, nullString(contentHash))
	if err != nil {
		return fmt.Errorf("failed to insert artifact: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, app_id, app_name, overall_status, country_count, logo_count, screenshot_count, COALESCE(output_dir, ''), created_at
		FROM runs ORDER BY created_at DESC, run_id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.RunID, &r.AppID, &r.AppName, &r.OverallStatus,
			&r.CountryCount, &r.LogoCount, &r.ScreenshotCount, &r.OutputDir, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads one run and its countries in request order.
func (db *DB) GetRun(runID string) (*RunInfo, []CountryRow, error) {
	var r RunInfo
	err := db.QueryRow(`
		SELECT run_id, app_id, app_name, overall_status, country_count, logo_count, screenshot_count, COALESCE(output_dir, ''), created_at
		FROM runs WHERE run_id = ?
	`, runID).Scan(&r.RunID, &r.AppID, &r.AppName, &r.OverallStatus,
		&r.CountryCount, &r.LogoCount, &r.ScreenshotCount, &r.OutputDir, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := db.Query(`
		SELECT position, country, locale_used, status, logo_saved, screenshot_count, COALESCE(error_message, '')
		FROM run_countries WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load run countries: %w", err)
	}
	defer rows.Close()

	var countries []CountryRow
	for rows.Next() {
		var c CountryRow
		if err := rows.Scan(&c.Position, &c.Country, &c.LocaleUsed, &c.Status,
			&c.LogoSaved, &c.ScreenshotCount, &c.ErrorMessage); err != nil {
			return nil, nil, fmt.Errorf("failed to scan run country: %w", err)
		}
		countries = append(countries, c)
	}
	return &r, countries, rows.Err()
}

// ListArtifacts returns the recorded files for one run.
func (db *DB) ListArtifacts(runID string) ([]ArtifactRow, error) {
	rows, err := db.Query(`
		SELECT COALESCE(country, ''), kind, file_path, size_bytes, COALESCE(content_hash, '')
		FROM artifacts WHERE run_id = ? ORDER BY artifact_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []ArtifactRow
	for rows.Next() {
		var a ArtifactRow
		if err := rows.Scan(&a.Country, &a.Kind, &a.FilePath, &a.SizeBytes, &a.ContentHash); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
