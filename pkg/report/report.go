// Package report assembles per-country download results into the
// DownloadReport artifact. Aggregation is pure; serialization is a
// direct field-for-field JSON encode, so a decode round-trip loses
// nothing.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/screenaso/appstore-assets/models"
)

// Aggregate merges per-country results into one report. The input
// order is the request order and is preserved verbatim; the overall
// status derives from the per-country statuses.
func Aggregate(appID, appName string, info models.AppInfo, results []models.CountryResult) *models.DownloadReport {
	r := &models.DownloadReport{
		AppID:         appID,
		AppName:       appName,
		AppInfo:       info,
		GeneratedAt:   time.Now().UTC(),
		OverallStatus: overallStatus(results),
		Countries:     results,
	}
	for _, c := range results {
		r.Summary.TotalCountries++
		if c.LogoPath != "" {
			r.Summary.TotalLogos++
		}
		r.Summary.TotalScreenshots += len(c.ScreenshotPaths)
	}
	return r
}

// overallStatus is ok iff every country is ok, failed iff every
// country is failed, and partial otherwise.
func overallStatus(results []models.CountryResult) models.Status {
	if len(results) == 0 {
		return models.StatusFailed
	}
	allOK, allFailed := true, true
	for _, c := range results {
		if c.Status != models.StatusOK {
			allOK = false
		}
		if c.Status != models.StatusFailed {
			allFailed = false
		}
	}
	switch {
	case allOK:
		return models.StatusOK
	case allFailed:
		return models.StatusFailed
	default:
		return models.StatusPartial
	}
}

// Marshal encodes a report as indented JSON with a trailing newline.
func Marshal(r *models.DownloadReport) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// Load reads a previously written report artifact, for re-rendering
// the PDF without refetching.
func Load(path string) (*models.DownloadReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	var r models.DownloadReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}
