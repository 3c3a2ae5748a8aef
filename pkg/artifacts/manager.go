// Package artifacts owns the on-disk layout of a download run:
//
//	<base>/<app_dir>/<country>/logo.<ext>
//	<base>/<app_dir>/<country>/screenshot_<n>.<ext>
//	<base>/<app_dir>/download_report.json
//	<base>/<app_dir>/assets_report.pdf
//
// Country directories are reset before each run so a rerun never mixes
// files from two runs.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	ReportFileName = "download_report.json"
	PDFFileName    = "assets_report.pdf"

	// Windows caps the full path length, so app directory names are
	// truncated well below it.
	maxAppDirLen = 200
)

var invalidPathChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Manager handles storage of downloaded assets under one base
// directory.
type Manager struct {
	baseDir string
}

// NewManager creates the base directory if needed.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// BaseDir returns the configured output root.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// AppDir returns the directory for an app, creating it if needed.
func (m *Manager) AppDir(appName, fallback string) (string, error) {
	dir := filepath.Join(m.baseDir, SanitizeAppDirName(appName, fallback))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create app directory: %w", err)
	}
	return dir, nil
}

// ResetCountryDir recreates a country's directory from scratch,
// discarding anything a previous run left behind.
func (m *Manager) ResetCountryDir(appDir, country string) (string, error) {
	dir := filepath.Join(appDir, strings.ToLower(country))
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to clear country directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create country directory %s: %w", dir, err)
	}
	return dir, nil
}

// SaveImage writes image bytes into dir as <name>.<ext>, deriving the
// extension from the sniffed content type. It returns the file name.
func (m *Manager) SaveImage(dir, name string, data []byte, contentType string) (string, error) {
	fileName := name + "." + ExtForContentType(contentType)
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return fileName, nil
}

// WriteReport writes the JSON report artifact at the app root.
func (m *Manager) WriteReport(appDir string, data []byte) (string, error) {
	path := filepath.Join(appDir, ReportFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}

// WritePDF writes the rendered document at the app root.
func (m *Manager) WritePDF(appDir string, data []byte) (string, error) {
	path := filepath.Join(appDir, PDFFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write pdf %s: %w", path, err)
	}
	return path, nil
}

// ExtForContentType maps a sniffed image content type to a file
// extension. Unknown types default to jpg, which is what the CDN
// serves for every screenshot variant.
func ExtForContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return "jpg"
	}
}

// SanitizeAppDirName returns a filesystem-safe directory name derived
// from the app name, falling back when the name is empty or reduces to
// nothing after cleanup.
func SanitizeAppDirName(value, fallback string) string {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		candidate = strings.TrimSpace(fallback)
	}
	if candidate == "" {
		candidate = "app"
	}

	sanitized := invalidPathChars.ReplaceAllString(norm.NFKC.String(candidate), "_")
	sanitized = strings.Trim(strings.TrimSpace(sanitized), ".")
	if sanitized == "" {
		sanitized = strings.Trim(strings.TrimSpace(fallback), ".")
		if sanitized == "" {
			sanitized = "app"
		}
	}
	if windowsReservedNames[strings.ToUpper(sanitized)] {
		sanitized += "_app"
	}
	if len(sanitized) > maxAppDirLen {
		sanitized = strings.TrimRight(sanitized[:maxAppDirLen], " .")
	}
	if sanitized == "" {
		sanitized = "app"
	}
	return sanitized
}
