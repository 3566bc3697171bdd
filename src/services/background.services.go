package services

import (
	"context"
	"fmt"

	exports "theater/src/modules/exports/services"
	movies "theater/src/modules/movies/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// JobSchedules holds cron expressions for the background jobs. An empty one
// disables that job.
type JobSchedules struct {
	Export     string
	CacheSweep string
}

// SetupBackgroundJobs registers the catalog export and cache sweep jobs and
// starts the scheduler. exporter and cache may be nil; their jobs are skipped.
func SetupBackgroundJobs(schedules JobSchedules, exporter *exports.CatalogExporter, cache *movies.MovieCache, log logrus.FieldLogger) (*cron.Cron, error) {
	cronLog := cron.PrintfLogger(log)
	c := cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)))

	var jobs []string
	if exporter != nil && schedules.Export != "" {
		if _, err := c.AddFunc(schedules.Export, func() { exportCatalog(exporter, log) }); err != nil {
			return nil, fmt.Errorf("invalid export schedule %q: %w", schedules.Export, err)
		}
		jobs = append(jobs, "catalog-export")
	}
	if cache != nil && schedules.CacheSweep != "" {
		if _, err := c.AddFunc(schedules.CacheSweep, func() { sweepCache(cache, log) }); err != nil {
			return nil, fmt.Errorf("invalid cache sweep schedule %q: %w", schedules.CacheSweep, err)
		}
		jobs = append(jobs, "cache-sweep")
	}

	c.Start()
	log.WithField("jobs", jobs).Info("background jobs initialized")
	return c, nil
}

func exportCatalog(exporter *exports.CatalogExporter, log logrus.FieldLogger) {
	if _, err := exporter.Export(context.Background()); err != nil {
		log.WithError(err).Error("catalog export failed")
	}
}

func sweepCache(cache *movies.MovieCache, log logrus.FieldLogger) {
	removed, err := cache.Sweep(context.Background())
	if err != nil {
		log.WithError(err).Warn("cache sweep failed")
		return
	}
	if removed > 0 {
		log.WithField("removed", removed).Info("pruned stale cache tags")
	}
}
