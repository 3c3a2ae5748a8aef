// Package history implements the `asa runs` subcommands over the run
// database.
package history

import (
	"fmt"
	"strings"

	"github.com/screenaso/appstore-assets/models"
	dbpkg "github.com/screenaso/appstore-assets/pkg/db"
	"github.com/urfave/cli/v2"
)

func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	dbPath := cfg.DBPath
	if c.IsSet("db") {
		dbPath = c.String("db")
	}
	database, err := dbpkg.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// ListAction implements `asa runs list`.
func ListAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-36s %-20s %-12s %-24s %-9s %10s %6s %12s\n",
		"Run ID", "Created", "App ID", "App Name", "Status", "Countries", "Logos", "Screenshots")
	fmt.Println(strings.Repeat("-", 135))
	for _, r := range runs {
		fmt.Printf("%-36s %-20s %-12s %-24s %-9s %10d %6d %12d\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.AppID,
			truncate(r.AppName, 24),
			r.OverallStatus,
			r.CountryCount,
			r.LogoCount,
			r.ScreenshotCount,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'asa runs show <run-id>' to see details\n")
	return nil
}

// ShowAction implements `asa runs show <run-id>`.
func ShowAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one run id is required")
	}

	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID := c.Args().First()
	run, countries, err := database.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Printf("Run %s\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:      %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("App:          %s (%s)\n", run.AppName, run.AppID)
	fmt.Printf("Status:       %s\n", run.OverallStatus)
	fmt.Printf("Output dir:   %s\n", run.OutputDir)
	fmt.Printf("Totals:       %d countries, %d logos, %d screenshots\n",
		run.CountryCount, run.LogoCount, run.ScreenshotCount)

	fmt.Printf("\nCountries (%d):\n", len(countries))
	fmt.Println(strings.Repeat("-", 60))
	for _, cc := range countries {
		line := fmt.Sprintf("  %s  %-10s %-8s logo=%-5t screenshots=%d",
			cc.Country, cc.LocaleUsed, cc.Status, cc.LogoSaved, cc.ScreenshotCount)
		if cc.ErrorMessage != "" {
			line += "  error: " + cc.ErrorMessage
		}
		fmt.Println(line)
	}

	artifacts, err := database.ListArtifacts(runID)
	if err != nil {
		return fmt.Errorf("failed to list artifacts: %w", err)
	}
	if len(artifacts) > 0 {
		fmt.Printf("\nArtifacts (%d):\n", len(artifacts))
		fmt.Println(strings.Repeat("-", 60))
		for _, a := range artifacts {
			fmt.Printf("  %-10s %-50s %8d bytes\n", a.Kind, a.FilePath, a.SizeBytes)
		}
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
