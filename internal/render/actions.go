// Package render implements `asa report`, which re-renders the PDF
// from an existing report without touching the network.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/screenaso/appstore-assets/pkg/artifacts"
	"github.com/screenaso/appstore-assets/pkg/pdfreport"
	"github.com/screenaso/appstore-assets/pkg/report"
	"github.com/urfave/cli/v2"
)

// ReportAction implements `asa report <report-path>`. The argument is
// either a download_report.json file or the app directory holding one.
func ReportAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if c.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one report path is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  asa report "app_store_assets/Demo App"`)
		fmt.Fprintln(os.Stderr, `  asa report "app_store_assets/Demo App/download_report.json"`)
		os.Exit(1)
	}

	reportPath := c.Args().First()
	if info, err := os.Stat(reportPath); err == nil && info.IsDir() {
		reportPath = filepath.Join(reportPath, artifacts.ReportFileName)
	}
	appDir := filepath.Dir(reportPath)

	rep, err := report.Load(reportPath)
	if err != nil {
		logger.Error("failed to load report", "path", reportPath, "error", err)
		os.Exit(2)
	}

	data, err := pdfreport.NewRenderer(logger).Render(rep, appDir)
	if err != nil {
		logger.Error("failed to render PDF", "error", err)
		os.Exit(2)
	}

	pdfPath := filepath.Join(appDir, artifacts.PDFFileName)
	if c.IsSet("output") {
		pdfPath = c.String("output")
	}
	if err := os.WriteFile(pdfPath, data, 0o640); err != nil {
		logger.Error("failed to write PDF", "path", pdfPath, "error", err)
		os.Exit(2)
	}

	fmt.Printf("PDF written to %s\n", pdfPath)
	return nil
}
