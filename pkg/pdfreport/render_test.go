package pdfreport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/screenaso/appstore-assets/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writePNG writes a small solid-color PNG and returns its path
// relative to root.
func writePNG(t *testing.T, root, rel string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 20, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return rel
}

// pageCount counts page objects in the raw PDF output.
func pageCount(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func sampleReport(t *testing.T, root string) *models.DownloadReport {
	t.Helper()
	return &models.DownloadReport{
		AppID:         "123456789",
		AppName:       "Demo",
		AppInfo:       models.AppInfo{Developer: "Demo Inc", Version: "2.1", Price: "Free", Rating: 4.5, RatingCount: 10},
		GeneratedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		OverallStatus: models.StatusPartial,
		Summary:       models.ReportSummary{TotalCountries: 2, TotalLogos: 1, TotalScreenshots: 2},
		Countries: []models.CountryResult{
			{
				Country:    "us",
				LocaleUsed: "en-us",
				Status:     models.StatusOK,
				LogoPath:   writePNG(t, root, "us/logo.png"),
				ScreenshotPaths: []string{
					writePNG(t, root, "us/screenshot_1.png"),
					writePNG(t, root, "us/screenshot_2.png"),
				},
			},
			{
				Country:      "tr",
				LocaleUsed:   "tr-tr",
				Status:       models.StatusFailed,
				ErrorMessage: "not found",
			},
		},
	}
}

func TestRender(t *testing.T) {
	root := t.TempDir()
	report := sampleReport(t, root)

	data, err := NewRenderer(testLogger()).Render(report, root)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	// Cover + overview + one section per requested country, including
	// the failed one.
	if got := pageCount(data); got != 4 {
		t.Errorf("page count = %d, want 4", got)
	}
}

func TestRender_UnreadableImageDegrades(t *testing.T) {
	root := t.TempDir()
	report := sampleReport(t, root)

	// Corrupt one screenshot; the document must still render.
	bad := filepath.Join(root, "us", "screenshot_2.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := NewRenderer(testLogger()).Render(report, root)
	if err != nil {
		t.Fatalf("Render() with a corrupt image failed: %v", err)
	}
	if got := pageCount(data); got != 4 {
		t.Errorf("page count = %d, want 4", got)
	}
}

func TestRender_MissingImagesGetPlaceholders(t *testing.T) {
	report := &models.DownloadReport{
		AppID:         "1",
		AppName:       "Demo",
		GeneratedAt:   time.Now().UTC(),
		OverallStatus: models.StatusPartial,
		Countries: []models.CountryResult{
			{Country: "us", LocaleUsed: "en-us", Status: models.StatusPartial,
				LogoPath: "us/logo.png", ScreenshotPaths: []string{"us/screenshot_1.png"}},
			{Country: "jp", LocaleUsed: "ja-jp", Status: models.StatusPartial},
		},
	}

	// Image root is empty: every referenced file is missing.
	data, err := NewRenderer(testLogger()).Render(report, t.TempDir())
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if got := pageCount(data); got != 4 {
		t.Errorf("page count = %d, want 4", got)
	}
}
