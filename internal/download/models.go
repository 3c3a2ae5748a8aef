package download

import (
	"github.com/screenaso/appstore-assets/models"
	"github.com/screenaso/appstore-assets/pkg/store"
)

// Job is one country to fetch, carrying its position in the request so
// results can be re-sorted into request order after the pool finishes.
type Job struct {
	Index   int
	Country string
	Locale  string
}

// fetchOutcome is the raw result of one country's fetch, before
// anything touches the disk.
type fetchOutcome struct {
	Index   int
	Country string
	Locale  string
	Fetched *store.FetchResult
	Err     error
}

// RunPaths points at the artifacts a finished run produced.
type RunPaths struct {
	RunID      string
	AppDir     string
	ReportPath string
	PDFPath    string
}

// CountryOutput is the per-country stdout summary line.
type CountryOutput struct {
	Country     string `json:"country" yaml:"country"`
	Locale      string `json:"locale" yaml:"locale"`
	Status      string `json:"status" yaml:"status"`
	Logo        bool   `json:"logo" yaml:"logo"`
	Screenshots int    `json:"screenshots" yaml:"screenshots"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// FinalOutput is the structured stdout summary for the entire run.
type FinalOutput struct {
	Status     string          `json:"status" yaml:"status"`
	AppID      string          `json:"app_id" yaml:"app_id"`
	AppName    string          `json:"app_name" yaml:"app_name"`
	ReportPath string          `json:"report_path" yaml:"report_path"`
	PDFPath    string          `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`
	Countries  []CountryOutput `json:"countries" yaml:"countries"`
	Stats      Stats           `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalCountries   int     `json:"total_countries" yaml:"total_countries"`
	OK               int     `json:"ok" yaml:"ok"`
	Partial          int     `json:"partial" yaml:"partial"`
	Failed           int     `json:"failed" yaml:"failed"`
	TotalScreenshots int     `json:"total_screenshots" yaml:"total_screenshots"`
	TotalTimeSeconds float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
}

// BuildOutput assembles the stdout summary from the report.
func BuildOutput(report *models.DownloadReport, paths RunPaths, elapsed float64) FinalOutput {
	out := FinalOutput{
		Status:     string(report.OverallStatus),
		AppID:      report.AppID,
		AppName:    report.AppName,
		ReportPath: paths.ReportPath,
		PDFPath:    paths.PDFPath,
		Stats: Stats{
			TotalCountries:   report.Summary.TotalCountries,
			TotalScreenshots: report.Summary.TotalScreenshots,
			TotalTimeSeconds: elapsed,
		},
	}
	for _, c := range report.Countries {
		out.Countries = append(out.Countries, CountryOutput{
			Country:     c.Country,
			Locale:      c.LocaleUsed,
			Status:      string(c.Status),
			Logo:        c.LogoPath != "",
			Screenshots: len(c.ScreenshotPaths),
			Error:       c.ErrorMessage,
		})
		switch c.Status {
		case models.StatusOK:
			out.Stats.OK++
		case models.StatusPartial:
			out.Stats.Partial++
		default:
			out.Stats.Failed++
		}
	}
	return out
}
