package download

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/screenaso/appstore-assets/internal/common"
	"github.com/screenaso/appstore-assets/models"
	"github.com/screenaso/appstore-assets/pkg/artifacts"
	"github.com/screenaso/appstore-assets/pkg/db"
	"github.com/screenaso/appstore-assets/pkg/locale"
	"github.com/screenaso/appstore-assets/pkg/pdfreport"
	"github.com/screenaso/appstore-assets/pkg/store"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// DownloadAction implements `asa download <app-id>`.
func DownloadAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	if c.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one app id is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  asa download 1459969523`)
		fmt.Fprintln(os.Stderr, `  asa download 1459969523 --countries "us,tr,jp"`)
		fmt.Fprintln(os.Stderr, `  asa download 1459969523 --languages "tr:tr-tr,jp:ja-jp" --no-pdf`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: asa download --help")
		os.Exit(1)
	}

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	req := &models.DownloadRequest{
		AppID:       c.Args().First(),
		AppName:     c.String("app-name"),
		Countries:   cfg.Countries,
		Languages:   cfg.Languages,
		OutputDir:   cfg.OutputDir,
		GeneratePDF: !c.Bool("no-pdf"),
	}
	if c.IsSet("countries") {
		req.Countries = common.SplitList(c.String("countries"))
	}
	if c.IsSet("output-dir") {
		req.OutputDir = c.String("output-dir")
	}
	if req.Languages == nil {
		req.Languages = make(map[string]string)
	}
	if c.IsSet("languages") {
		for country, loc := range locale.ParseOverrides(c.String("languages")) {
			req.Languages[country] = loc
		}
	}
	if err := req.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	workerCount := cfg.WorkerCount
	if c.IsSet("workers") {
		workerCount = c.Int("workers")
	}

	fetcher, err := store.NewClient(cfg.HTTPProxy, logger)
	if err != nil {
		logger.Error("failed to initialize store client", "error", err)
		os.Exit(2)
	}

	manager, err := artifacts.NewManager(req.OutputDir)
	if err != nil {
		logger.Error("failed to initialize artifact manager", "error", err)
		os.Exit(2)
	}

	// Run history is best-effort: a broken database never blocks a
	// download.
	var database *db.DB
	if database, err = db.Open(cfg.DBPath); err != nil {
		logger.Warn("run history unavailable", "db_path", cfg.DBPath, "error", err)
		database = nil
	} else {
		defer database.Close()
	}

	runner := &Runner{
		Fetcher:         fetcher,
		Manager:         manager,
		Renderer:        pdfreport.NewRenderer(logger),
		Database:        database,
		Logger:          logger,
		DefaultLanguage: cfg.DefaultLanguage,
		WorkerCount:     workerCount,
	}

	report, paths, err := runner.Run(c.Context, req)
	if err != nil {
		logger.Error("run aborted", "error", err)
		os.Exit(2)
	}

	finalOutput := BuildOutput(report, paths, time.Since(startTime).Seconds())

	var outputData []byte
	var marshalErr error
	if strings.ToLower(c.String("format")) == "yaml" {
		outputData, marshalErr = yaml.Marshal(finalOutput)
	} else {
		outputData, marshalErr = json.MarshalIndent(finalOutput, "", "  ")
	}
	if marshalErr != nil {
		logger.Error("failed to marshal final output", "error", marshalErr)
		os.Exit(2)
	}
	fmt.Println(string(outputData))

	switch report.OverallStatus {
	case models.StatusFailed:
		os.Exit(2)
	case models.StatusPartial:
		os.Exit(1)
	}
	return nil
}
