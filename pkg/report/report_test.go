package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/screenaso/appstore-assets/models"
)

func result(country string, status models.Status) models.CountryResult {
	return models.CountryResult{Country: country, LocaleUsed: "en-" + country, Status: status}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name    string
		results []models.CountryResult
		want    models.Status
	}{
		{"all ok", []models.CountryResult{result("us", models.StatusOK), result("tr", models.StatusOK)}, models.StatusOK},
		{"all failed", []models.CountryResult{result("us", models.StatusFailed), result("tr", models.StatusFailed)}, models.StatusFailed},
		{"mixed ok and failed", []models.CountryResult{result("us", models.StatusOK), result("tr", models.StatusFailed)}, models.StatusPartial},
		{"all partial", []models.CountryResult{result("us", models.StatusPartial)}, models.StatusPartial},
		{"partial and failed", []models.CountryResult{result("us", models.StatusPartial), result("tr", models.StatusFailed)}, models.StatusPartial},
		{"empty", nil, models.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overallStatus(tt.results); got != tt.want {
				t.Errorf("overallStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregate_PreservesOrderAndCounts(t *testing.T) {
	results := []models.CountryResult{
		{Country: "us", LocaleUsed: "en-us", Status: models.StatusOK,
			LogoPath: "us/logo.jpg", ScreenshotPaths: []string{"us/screenshot_1.jpg", "us/screenshot_2.jpg"}},
		{Country: "tr", LocaleUsed: "tr-tr", Status: models.StatusFailed,
			ScreenshotPaths: []string{}, ErrorMessage: "not found"},
		{Country: "jp", LocaleUsed: "ja-jp", Status: models.StatusPartial,
			ScreenshotPaths: []string{"jp/screenshot_1.jpg"}},
	}

	r := Aggregate("123456789", "Demo", models.AppInfo{Developer: "Demo Inc"}, results)

	if r.OverallStatus != models.StatusPartial {
		t.Errorf("OverallStatus = %q, want partial", r.OverallStatus)
	}
	for i, want := range []string{"us", "tr", "jp"} {
		if r.Countries[i].Country != want {
			t.Errorf("Countries[%d] = %q, want %q (request order)", i, r.Countries[i].Country, want)
		}
	}
	if r.Summary.TotalCountries != 3 {
		t.Errorf("TotalCountries = %d, want 3", r.Summary.TotalCountries)
	}
	if r.Summary.TotalLogos != 1 {
		t.Errorf("TotalLogos = %d, want 1", r.Summary.TotalLogos)
	}
	if r.Summary.TotalScreenshots != 3 {
		t.Errorf("TotalScreenshots = %d, want 3", r.Summary.TotalScreenshots)
	}
	if r.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not stamped")
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	original := Aggregate("123456789", "Demo", models.AppInfo{
		Developer: "Demo Inc", BundleID: "com.demo.app", Version: "2.1",
		Price: "Free", Rating: 4.5, RatingCount: 1200, PrimaryGenre: "Games",
	}, []models.CountryResult{
		{Country: "us", LocaleUsed: "en-us", AppName: "Demo", Status: models.StatusOK,
			LogoPath: "us/logo.jpg", ScreenshotPaths: []string{"us/screenshot_1.jpg"}},
		// Empty screenshot list and an error message must survive.
		{Country: "tr", LocaleUsed: "tr-tr", Status: models.StatusFailed,
			ScreenshotPaths: []string{}, ErrorMessage: "not found"},
	})

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var decoded models.DownloadReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if !decoded.GeneratedAt.Equal(original.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", decoded.GeneratedAt, original.GeneratedAt)
	}
	// Compare everything else structurally.
	decoded.GeneratedAt = original.GeneratedAt
	if !reflect.DeepEqual(*original, decoded) {
		t.Errorf("round trip mismatch:\n got: %+v\nwant: %+v", decoded, *original)
	}
	if decoded.Countries[1].LogoPath != "" {
		t.Errorf("failed country logo_path = %q, want empty", decoded.Countries[1].LogoPath)
	}
}

func TestLoad(t *testing.T) {
	r := Aggregate("1", "Demo", models.AppInfo{}, []models.CountryResult{
		{Country: "us", LocaleUsed: "en-us", Status: models.StatusOK, ScreenshotPaths: []string{}},
	})
	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "download_report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.AppID != "1" || len(loaded.Countries) != 1 {
		t.Errorf("Load() = %+v, want the written report", loaded)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}
