// Package models defines the data structures shared between the
// downloader, the report aggregator, and the PDF renderer.
package models

import "time"

// Status classifies the outcome of a single country's download.
type Status string

const (
	StatusOK      Status = "ok"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// CountryResult is the immutable per-country outcome produced by the
// downloader. Paths are relative to the app directory so the report
// stays valid when the output tree is moved.
type CountryResult struct {
	Country         string   `json:"country" yaml:"country"`
	LocaleUsed      string   `json:"locale_used" yaml:"locale_used"`
	AppName         string   `json:"app_name,omitempty" yaml:"app_name,omitempty"`
	AppStoreURL     string   `json:"app_store_url,omitempty" yaml:"app_store_url,omitempty"`
	Status          Status   `json:"status" yaml:"status"`
	LogoPath        string   `json:"logo_path,omitempty" yaml:"logo_path,omitempty"`
	ScreenshotPaths []string `json:"screenshot_paths" yaml:"screenshot_paths"`
	ErrorMessage    string   `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// AppInfo carries the storefront metadata for the app itself,
// independent of any single country.
type AppInfo struct {
	Developer    string  `json:"developer,omitempty" yaml:"developer,omitempty"`
	BundleID     string  `json:"bundle_id,omitempty" yaml:"bundle_id,omitempty"`
	Version      string  `json:"version,omitempty" yaml:"version,omitempty"`
	Price        string  `json:"price,omitempty" yaml:"price,omitempty"`
	Rating       float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	RatingCount  int64   `json:"rating_count,omitempty" yaml:"rating_count,omitempty"`
	PrimaryGenre string  `json:"primary_genre,omitempty" yaml:"primary_genre,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty" yaml:"release_date,omitempty"`
}

// ReportSummary holds the aggregate counters shown on the PDF cover
// page and in the CLI output.
type ReportSummary struct {
	TotalCountries   int `json:"total_countries" yaml:"total_countries"`
	TotalLogos       int `json:"total_logos_downloaded" yaml:"total_logos_downloaded"`
	TotalScreenshots int `json:"total_screenshots_downloaded" yaml:"total_screenshots_downloaded"`
}

// DownloadReport is the JSON artifact written once per run. Countries
// appear in request order, not completion order.
type DownloadReport struct {
	AppID         string          `json:"app_id" yaml:"app_id"`
	AppName       string          `json:"app_name" yaml:"app_name"`
	AppInfo       AppInfo         `json:"app_info" yaml:"app_info"`
	GeneratedAt   time.Time       `json:"generated_at" yaml:"generated_at"`
	OverallStatus Status          `json:"overall_status" yaml:"overall_status"`
	Summary       ReportSummary   `json:"summary" yaml:"summary"`
	Countries     []CountryResult `json:"countries" yaml:"countries"`
}
