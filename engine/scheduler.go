package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	database "github.com/calverton/docshare/database"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// InitializeSchedules starts all the cron jobs
func (serverHandler *ServerHandler) InitializeSchedules(db database.Repository) {
	// Run the backfill immediately at startup in a goroutine so restarts
	// catch up on thumbnails lost to failures or cache churn.
	Logger.Info("Running thumbnail backfill at startup")
	go serverHandler.thumbnailBackfillJobFunc(db)

	c := cron.New()

	var backfillJob cron.Job
	backfillJob = cron.FuncJob(func() { serverHandler.thumbnailBackfillJobFunc(db) })
	// ensure we don't kick off another if old one is still running
	backfillJob = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(backfillJob)
	c.AddJob(fmt.Sprintf("@every %dm", serverHandler.ServerConfig.BackfillInterval), backfillJob)
	Logger.Info("Adding thumbnail backfill scheduler", "interval_minutes", serverHandler.ServerConfig.BackfillInterval)

	var cleanupJob cron.Job
	cleanupJob = cron.FuncJob(func() { serverHandler.jobCleanupFunc(db) })
	cleanupJob = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cleanupJob)
	c.AddJob("@daily", cleanupJob)
	Logger.Info("Adding job history cleanup scheduler")

	c.Start()
}

// jobCleanupFunc prunes finished job records older than a week.
func (serverHandler *ServerHandler) jobCleanupFunc(db database.Repository) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic recovered in job cleanup", "panic", r)
		}
	}()

	const retention = 7 * 24 * time.Hour
	count, err := db.DeleteOldJobs(retention)
	if err != nil {
		Logger.Error("Unable to delete old jobs", "error", err)
		return
	}
	if count > 0 {
		Logger.Info("Pruned old job records", "count", count)
	}
}
