package download

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/screenaso/appstore-assets/internal/common"
	"github.com/screenaso/appstore-assets/models"
	"github.com/screenaso/appstore-assets/pkg/artifacts"
	"github.com/screenaso/appstore-assets/pkg/db"
	"github.com/screenaso/appstore-assets/pkg/locale"
	"github.com/screenaso/appstore-assets/pkg/pdfreport"
	"github.com/screenaso/appstore-assets/pkg/report"
	"github.com/screenaso/appstore-assets/pkg/store"
)

// Runner orchestrates a full download run: resolve locales, fetch every
// country concurrently, write assets in request order, then emit the
// report and optional PDF.
type Runner struct {
	Fetcher         store.Fetcher
	Manager         *artifacts.Manager
	Renderer        *pdfreport.Renderer
	Database        *db.DB
	Logger          *slog.Logger
	DefaultLanguage string
	WorkerCount     int
}

// Run executes the request and returns the aggregated report together
// with the paths of the artifacts it produced. Network and parse
// failures are recorded per country; disk failures abort the run.
func (r *Runner) Run(ctx context.Context, req *models.DownloadRequest) (*models.DownloadReport, RunPaths, error) {
	start := time.Now()
	jobs := make([]Job, 0, len(req.Countries))
	for i, country := range req.Countries {
		var loc string
		if override := req.Languages[country]; override != "" {
			var err error
			loc, err = locale.Resolve(country, override)
			if err != nil {
				return nil, RunPaths{}, fmt.Errorf("resolving locale for %q: %w", country, err)
			}
		} else {
			loc = locale.DefaultLanguage(country, r.DefaultLanguage) + "-" + country
		}
		jobs = append(jobs, Job{Index: i, Country: country, Locale: loc})
	}

	outcomes := fetchAll(ctx, r.Logger, r.Fetcher, req.AppID, jobs, r.WorkerCount)

	appName := req.AppName
	var info models.AppInfo
	var haveInfo bool
	for _, o := range outcomes {
		if o.Fetched == nil {
			continue
		}
		if appName == "" && o.Fetched.AppName != "" {
			appName = o.Fetched.AppName
		}
		if !haveInfo {
			info = o.Fetched.Info
			haveInfo = true
		}
	}

	appDir, err := r.Manager.AppDir(appName, "app_"+req.AppID)
	if err != nil {
		return nil, RunPaths{}, fmt.Errorf("creating app directory: %w", err)
	}
	if appName == "" {
		appName = "app_" + req.AppID
	}

	results := make([]models.CountryResult, 0, len(outcomes))
	for _, o := range outcomes {
		cr, err := r.writeCountry(appDir, o)
		if err != nil {
			return nil, RunPaths{}, err
		}
		results = append(results, cr)
	}

	rep := report.Aggregate(req.AppID, appName, info, results)
	reportData, err := report.Marshal(rep)
	if err != nil {
		return nil, RunPaths{}, fmt.Errorf("marshalling report: %w", err)
	}
	reportPath, err := r.Manager.WriteReport(appDir, reportData)
	if err != nil {
		return nil, RunPaths{}, fmt.Errorf("writing report: %w", err)
	}

	paths := RunPaths{
		RunID:      uuid.New().String(),
		AppDir:     appDir,
		ReportPath: reportPath,
	}

	if req.GeneratePDF {
		pdfData, renderErr := r.Renderer.Render(rep, appDir)
		if renderErr != nil {
			r.Logger.Error("PDF rendering failed", "error", renderErr)
		} else {
			pdfPath, writeErr := r.Manager.WritePDF(appDir, pdfData)
			if writeErr != nil {
				return nil, RunPaths{}, fmt.Errorf("writing PDF: %w", writeErr)
			}
			paths.PDFPath = pdfPath
		}
	}

	r.recordRun(paths, rep)
	r.Logger.Info("Run complete", "run_id", paths.RunID, "status", rep.OverallStatus,
		"countries", rep.Summary.TotalCountries, "screenshots", rep.Summary.TotalScreenshots,
		"elapsed", time.Since(start).Round(time.Millisecond).String())
	return rep, paths, nil
}

// writeCountry resets the country directory and saves its assets,
// returning the per-country report entry. Disk errors are fatal.
func (r *Runner) writeCountry(appDir string, o fetchOutcome) (models.CountryResult, error) {
	cr := models.CountryResult{
		Country:         o.Country,
		LocaleUsed:      o.Locale,
		ScreenshotPaths: []string{},
	}

	// Reset even on a failed fetch so a rerun never leaves assets from
	// an earlier run under a country the report now marks failed.
	countryDir, err := r.Manager.ResetCountryDir(appDir, o.Country)
	if err != nil {
		return cr, fmt.Errorf("resetting directory for %q: %w", o.Country, err)
	}

	if o.Err != nil {
		cr.Status = models.StatusFailed
		cr.ErrorMessage = o.Err.Error()
		return cr, nil
	}

	fetched := o.Fetched
	cr.AppName = fetched.AppName
	cr.AppStoreURL = fetched.AppStoreURL
	relDir := filepath.Base(countryDir)

	if fetched.Logo != nil {
		name, err := r.Manager.SaveImage(countryDir, "logo", fetched.Logo.Data, fetched.Logo.ContentType)
		if err != nil {
			return cr, fmt.Errorf("saving logo for %q: %w", o.Country, err)
		}
		cr.LogoPath = path.Join(relDir, name)
	}
	for i, shot := range fetched.Screenshots {
		name, err := r.Manager.SaveImage(countryDir, fmt.Sprintf("screenshot_%d", i+1), shot.Data, shot.ContentType)
		if err != nil {
			return cr, fmt.Errorf("saving screenshot for %q: %w", o.Country, err)
		}
		cr.ScreenshotPaths = append(cr.ScreenshotPaths, path.Join(relDir, name))
	}

	switch {
	case cr.LogoPath == "" && len(cr.ScreenshotPaths) == 0:
		cr.Status = models.StatusFailed
		cr.ErrorMessage = "no assets retrieved"
	case cr.LogoPath == "" || len(cr.ScreenshotPaths) < fetched.ScreenshotsFound:
		cr.Status = models.StatusPartial
	default:
		cr.Status = models.StatusOK
	}
	return cr, nil
}

// recordRun persists the run and its artifacts for `asa runs`. History
// failures are logged, never fatal.
func (r *Runner) recordRun(paths RunPaths, rep *models.DownloadReport) {
	if r.Database == nil {
		return
	}
	if err := r.Database.RecordRun(paths.RunID, r.Manager.BaseDir(), rep); err != nil {
		r.Logger.Warn("Failed to record run", "run_id", paths.RunID, "error", err)
		return
	}
	r.recordArtifact(paths.RunID, "", "report", paths.AppDir, artifacts.ReportFileName)
	if paths.PDFPath != "" {
		r.recordArtifact(paths.RunID, "", "pdf", paths.AppDir, artifacts.PDFFileName)
	}
	for _, c := range rep.Countries {
		if c.LogoPath != "" {
			r.recordArtifact(paths.RunID, c.Country, "logo", paths.AppDir, c.LogoPath)
		}
		for _, sp := range c.ScreenshotPaths {
			r.recordArtifact(paths.RunID, c.Country, "screenshot", paths.AppDir, sp)
		}
	}
}

func (r *Runner) recordArtifact(runID, country, kind, appDir, relPath string) {
	fullPath := filepath.Join(appDir, filepath.FromSlash(relPath))
	size, hash := common.FileSizeAndHash(fullPath)
	if err := r.Database.InsertArtifact(runID, country, kind, relPath, size, hash); err != nil {
		r.Logger.Warn("Failed to record artifact", "run_id", runID, "path", relPath, "error", err)
	}
}
