// Package pdfreport renders the visual assets report: a cover page, a
// cross-country overview of first screenshots, and one section per
// requested country in request order. Image paths in the report are
// relative to the app directory passed as imageRoot.
package pdfreport

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/screenaso/appstore-assets/models"
)

const (
	marginMM = 15.0

	coverLogoMM   = 50.0
	countryLogoMM = 30.0

	gridGapMM     = 6.0
	overviewCols  = 4
	countryCols   = 3
	maxCellHeight = 70.0
)

// Renderer lays out a DownloadReport into a paginated PDF.
type Renderer struct {
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// Render produces the document bytes. Every requested country gets a
// section regardless of outcome; unreadable images degrade to a
// placeholder instead of failing the document.
func (r *Renderer) Render(report *models.DownloadReport, imageRoot string) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginMM)

	r.coverPage(pdf, report, imageRoot)
	r.overviewPage(pdf, report, imageRoot)
	for _, country := range report.Countries {
		r.countrySection(pdf, &country, imageRoot)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) coverPage(pdf *fpdf.Fpdf, report *models.DownloadReport, imageRoot string) {
	pageW, _ := pdf.GetPageSize()
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetY(20)
	pdf.CellFormat(0, 14, "App Store Assets Report", "", 1, "C", false, 0, "")

	y := 45.0
	if logo := firstLogoPath(report, imageRoot); logo != "" {
		if h, ok := r.drawImage(pdf, logo, (pageW-coverLogoMM)/2, y, coverLogoMM, coverLogoMM); ok {
			y += h + 8
		}
	}

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetY(y)
	pdf.CellFormat(0, 10, report.AppName, "", 1, "C", false, 0, "")
	y += 14

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range infoLines(report.AppInfo) {
		pdf.SetY(y)
		pdf.CellFormat(0, 6, line, "", 1, "C", false, 0, "")
		y += 7
	}

	y += 6
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetY(y)
	pdf.CellFormat(0, 7, "Summary", "", 1, "C", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetY(y)
	pdf.CellFormat(0, 6, fmt.Sprintf("Countries: %d  |  Logos: %d  |  Screenshots: %d  |  Status: %s",
		report.Summary.TotalCountries, report.Summary.TotalLogos,
		report.Summary.TotalScreenshots, report.OverallStatus), "", 1, "C", false, 0, "")
	y += 10

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetY(y)
	pdf.CellFormat(0, 5, fmt.Sprintf("App ID: %s  -  Generated: %s",
		report.AppID, report.GeneratedAt.Format("2006-01-02 15:04:05 MST")), "", 1, "C", false, 0, "")
}

// overviewPage shows every country's first screenshot side by side, so
// localization differences are visible at a glance.
func (r *Renderer) overviewPage(pdf *fpdf.Fpdf, report *models.DownloadReport, imageRoot string) {
	pageW, pageH := pdf.GetPageSize()
	pdf.AddPage()
	r.pageHeader(pdf, "First Screenshots - All Countries")

	cellW := (pageW - 2*marginMM - gridGapMM*(overviewCols-1)) / overviewCols
	x, y := marginMM, 35.0
	col := 0

	for _, country := range report.Countries {
		if len(country.ScreenshotPaths) == 0 {
			continue
		}
		if y+maxCellHeight+10 > pageH-marginMM {
			pdf.AddPage()
			r.pageHeader(pdf, "First Screenshots - All Countries (cont.)")
			x, y, col = marginMM, 35.0, 0
		}

		path := filepath.Join(imageRoot, filepath.FromSlash(country.ScreenshotPaths[0]))
		h, ok := r.drawImage(pdf, path, x, y, cellW, maxCellHeight)
		if !ok {
			h = r.placeholder(pdf, x, y, cellW, maxCellHeight/2, "unreadable image")
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(x+cellW/2-4, y+h+5, strings.ToUpper(country.Country))

		col++
		if col >= overviewCols {
			x, col = marginMM, 0
			y += maxCellHeight + 14
		} else {
			x += cellW + gridGapMM
		}
	}
}

func (r *Renderer) countrySection(pdf *fpdf.Fpdf, country *models.CountryResult, imageRoot string) {
	pageW, pageH := pdf.GetPageSize()
	pdf.AddPage()

	header := fmt.Sprintf("%s  |  %s", strings.ToUpper(country.Country), country.LocaleUsed)
	r.pageHeader(pdf, header)
	y := 35.0

	if country.Status == models.StatusFailed {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(180, 40, 40)
		pdf.SetY(y)
		pdf.CellFormat(0, 8, "Download failed", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetY(y + 10)
		pdf.MultiCell(pageW-2*marginMM, 6, country.ErrorMessage, "", "L", false)
		return
	}

	if country.LogoPath != "" {
		path := filepath.Join(imageRoot, filepath.FromSlash(country.LogoPath))
		if h, ok := r.drawImage(pdf, path, marginMM, y, countryLogoMM, countryLogoMM); ok {
			pdf.SetFont("Helvetica", "", 8)
			pdf.Text(marginMM, y+h+4, "App Logo")
			y += h + 10
		} else {
			y += r.placeholder(pdf, marginMM, y, countryLogoMM, countryLogoMM, "no logo") + 6
		}
	} else {
		y += r.placeholder(pdf, marginMM, y, countryLogoMM, countryLogoMM, "no logo") + 6
	}

	if len(country.ScreenshotPaths) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.SetY(y)
		pdf.CellFormat(0, 6, "No screenshots", "", 1, "L", false, 0, "")
		return
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetY(y)
	pdf.CellFormat(0, 7, fmt.Sprintf("Screenshots (%d)", len(country.ScreenshotPaths)), "", 1, "L", false, 0, "")
	y += 10

	cellW := (pageW - 2*marginMM - gridGapMM*(countryCols-1)) / countryCols
	x := marginMM
	col := 0

	for _, rel := range country.ScreenshotPaths {
		if y+maxCellHeight > pageH-marginMM {
			pdf.AddPage()
			r.pageHeader(pdf, header+" (continued)")
			x, y, col = marginMM, 35.0, 0
		}

		path := filepath.Join(imageRoot, filepath.FromSlash(rel))
		if _, ok := r.drawImage(pdf, path, x, y, cellW, maxCellHeight); !ok {
			r.placeholder(pdf, x, y, cellW, maxCellHeight/2, "unreadable image")
		}

		col++
		if col >= countryCols {
			x, col = marginMM, 0
			y += maxCellHeight + gridGapMM
		} else {
			x += cellW + gridGapMM
		}
	}
}

func (r *Renderer) pageHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(15)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
}

// drawImage places an image scaled to fit (maxW, maxH) preserving
// aspect ratio. It returns the drawn height and whether the image was
// usable; a bad file never poisons the document.
//
// The image is fully decoded and re-encoded as a baseline PNG before
// registration. fpdf's error state is sticky, so it must never see a
// file it cannot parse; a stdlib-produced PNG is always safe.
func (r *Renderer) drawImage(pdf *fpdf.Fpdf, path string, x, y, maxW, maxH float64) (float64, bool) {
	img, err := loadImage(path)
	if err != nil {
		r.logger.Warn("Skipping unreadable image", "path", path, "error", err)
		return 0, false
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		r.logger.Warn("Skipping image with invalid dimensions", "path", path)
		return 0, false
	}

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	if pdf.GetImageInfo(path) == nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			r.logger.Warn("Failed to re-encode image", "path", path, "error", err)
			return 0, false
		}
		pdf.RegisterImageOptionsReader(path, opts, &buf)
	}

	scale := maxW / float64(w)
	if s := maxH / float64(h); s < scale {
		scale = s
	}
	drawW := float64(w) * scale
	drawH := float64(h) * scale

	pdf.ImageOptions(path, x+(maxW-drawW)/2, y, drawW, drawH, false, opts, 0, "")
	return drawH, true
}

// loadImage decodes an image file completely, so anything handed to
// fpdf is known good.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// placeholder draws a bordered box with a label where an image would
// have been. Returns the box height.
func (r *Renderer) placeholder(pdf *fpdf.Fpdf, x, y, w, h float64, label string) float64 {
	pdf.SetDrawColor(150, 150, 150)
	pdf.Rect(x, y, w, h, "D")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.Text(x+3, y+h/2, label)
	pdf.SetTextColor(0, 0, 0)
	return h
}

// firstLogoPath returns the first country logo that exists on disk.
func firstLogoPath(report *models.DownloadReport, imageRoot string) string {
	for _, c := range report.Countries {
		if c.LogoPath == "" {
			continue
		}
		path := filepath.Join(imageRoot, filepath.FromSlash(c.LogoPath))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// infoLines formats the optional app metadata for the cover page,
// skipping fields the lookup did not return.
func infoLines(info models.AppInfo) []string {
	var lines []string
	if info.Developer != "" {
		lines = append(lines, "Developer: "+info.Developer)
	}
	if info.Rating > 0 {
		lines = append(lines, fmt.Sprintf("Rating: %.1f (%d ratings)", info.Rating, info.RatingCount))
	}
	if info.PrimaryGenre != "" || info.Version != "" {
		lines = append(lines, strings.TrimSpace(strings.Join(nonEmpty(info.PrimaryGenre, versionLabel(info.Version)), "  -  ")))
	}
	if info.Price != "" {
		lines = append(lines, "Price: "+info.Price)
	}
	return lines
}

func versionLabel(v string) string {
	if v == "" {
		return ""
	}
	return "Version " + v
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
