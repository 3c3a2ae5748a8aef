package download

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/screenaso/appstore-assets/pkg/store"
)

func fetchAll(ctx context.Context, logger *slog.Logger, fetcher store.Fetcher, appID string, jobList []Job, workerCount int) []fetchOutcome {
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(jobList) {
		workerCount = len(jobList)
	}

	logger.Info("Starting concurrent fetch phase", "app_id", appID, "country_count", len(jobList), "workers", workerCount)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(jobList))
	results := make(chan fetchOutcome, len(jobList))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, fetcher, appID, &wg, jobs, results)
	}

	for _, job := range jobList {
		jobs <- job
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All fetch workers finished")

	outcomes := make([]fetchOutcome, 0, len(jobList))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Index < outcomes[j].Index
	})
	return outcomes
}

func worker(ctx context.Context, id int, logger *slog.Logger, fetcher store.Fetcher, appID string, wg *sync.WaitGroup, jobs <-chan Job, results chan<- fetchOutcome) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker fetching country", "worker_id", id, "country", job.Country, "locale", job.Locale)
		outcome := fetchOutcome{Index: job.Index, Country: job.Country, Locale: job.Locale}
		fetched, err := fetcher.Fetch(ctx, appID, job.Country, job.Locale)
		if err != nil {
			logger.Error("Fetch failed", "worker_id", id, "country", job.Country, "error", err)
			outcome.Err = err
			results <- outcome
			continue
		}
		logger.Info("Fetch complete", "worker_id", id, "country", job.Country,
			"logo", fetched.Logo != nil, "screenshots", len(fetched.Screenshots), "found", fetched.ScreenshotsFound)
		outcome.Fetched = fetched
		results <- outcome
	}
}
