package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/screenaso/appstore-assets/internal/download"
	"github.com/screenaso/appstore-assets/internal/history"
	"github.com/screenaso/appstore-assets/internal/render"
	"github.com/screenaso/appstore-assets/models"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "asa",
		Usage:   "Batch-download App Store marketing assets across storefront countries",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to YAML config file",
				Value:   "asa.yaml",
				EnvVars: []string{"ASA_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "download",
				Usage:     "Fetch logo and screenshots for an app across countries",
				ArgsUsage: "<app-id>",
				Action:    download.DownloadAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "countries",
						Usage: `Comma-separated storefront country codes (e.g. "us,tr,jp")`,
					},
					&cli.StringFlag{
						Name:  "languages",
						Usage: `Per-country locale overrides (e.g. "tr:tr-tr,jp:ja-jp")`,
					},
					&cli.StringFlag{
						Name:  "app-name",
						Usage: "Override the app directory name instead of the discovered name",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Base directory for downloaded assets",
					},
					&cli.BoolFlag{
						Name:  "no-pdf",
						Usage: "Skip rendering the PDF report",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent country fetches",
						Value: models.DefaultWorkerCount,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format for the run summary: json or yaml",
						Value: "json",
					},
				},
			},
			{
				Name:      "report",
				Usage:     "Re-render the PDF report from an existing download report",
				ArgsUsage: "<report-path>",
				Action:    render.ReportAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write the PDF to this path instead of next to the report",
					},
				},
			},
			{
				Name:  "runs",
				Usage: "Inspect previous download runs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the run database",
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recent runs",
						Action: history.ListAction,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of runs to show",
								Value: 20,
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show one run with its countries and artifacts",
						ArgsUsage: "<run-id>",
						Action:    history.ShowAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
