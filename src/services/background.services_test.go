package services

import (
	"context"
	"testing"
	"time"

	exports "theater/src/modules/exports/services"
	models "theater/src/modules/movies/models"
	movies "theater/src/modules/movies/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWalker struct{}

func (failingWalker) Walk(context.Context, int, func([]models.Movie) error) error {
	return context.DeadlineExceeded
}

func TestSetupBackgroundJobs(t *testing.T) {
	log, _ := test.NewNullLogger()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	cache := movies.NewMovieCache(rdb, time.Minute, log)
	exporter := exports.NewCatalogExporter(failingWalker{}, nil, log)

	c, err := SetupBackgroundJobs(JobSchedules{Export: "@daily", CacheSweep: "@every 1m"}, exporter, cache, log)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
	<-c.Stop().Done()

	c, err = SetupBackgroundJobs(JobSchedules{Export: "@daily", CacheSweep: "@every 1m"}, nil, nil, log)
	require.NoError(t, err)
	assert.Empty(t, c.Entries())
	c.Stop()

	_, err = SetupBackgroundJobs(JobSchedules{CacheSweep: "whenever"}, nil, cache, log)
	assert.ErrorContains(t, err, "invalid cache sweep schedule")
}

func TestJobsLogFailures(t *testing.T) {
	log, hook := test.NewNullLogger()

	exportCatalog(exports.NewCatalogExporter(failingWalker{}, nil, log), log)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "catalog export failed", hook.LastEntry().Message)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	cache := movies.NewMovieCache(rdb, time.Minute, log)
	mr.Close()

	sweepCache(cache, log)
	assert.Equal(t, "cache sweep failed", hook.LastEntry().Message)
}
