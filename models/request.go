package models

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	appIDPattern   = regexp.MustCompile(`^[0-9]+$`)
	countryPattern = regexp.MustCompile(`^[a-z]{2}$`)
)

// DownloadRequest describes one end-to-end run: which app, which
// storefronts, and where the artifacts go.
type DownloadRequest struct {
	AppID       string
	AppName     string // optional override; discovered from the store when empty
	Countries   []string
	Languages   map[string]string // country code -> locale override
	OutputDir   string
	GeneratePDF bool
}

// Validate rejects a request before any I/O happens. Country codes are
// normalized to lower case and deduplicated with order preserved;
// language overrides for countries outside the list are dropped.
func (r *DownloadRequest) Validate() error {
	r.AppID = strings.TrimSpace(r.AppID)
	if r.AppID == "" {
		return fmt.Errorf("app id cannot be empty")
	}
	if !appIDPattern.MatchString(r.AppID) {
		return fmt.Errorf("invalid app id %q: must be numeric", r.AppID)
	}

	seen := make(map[string]bool, len(r.Countries))
	countries := make([]string, 0, len(r.Countries))
	for _, c := range r.Countries {
		code := strings.ToLower(strings.TrimSpace(c))
		if code == "" || seen[code] {
			continue
		}
		if !countryPattern.MatchString(code) {
			return fmt.Errorf("invalid country code %q: must be 2 letters (e.g. us, tr)", c)
		}
		seen[code] = true
		countries = append(countries, code)
	}
	if len(countries) == 0 {
		return fmt.Errorf("country list cannot be empty")
	}
	r.Countries = countries

	for code := range r.Languages {
		if !seen[strings.ToLower(code)] {
			delete(r.Languages, code)
		}
	}

	if r.OutputDir == "" {
		r.OutputDir = DefaultOutputDir
	}
	return nil
}
