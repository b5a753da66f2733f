package jobs

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/leaseguard/leaseguard/internal/database"
	"github.com/leaseguard/leaseguard/internal/dates"
	"github.com/leaseguard/leaseguard/internal/services"
)

// Trigger kinds recorded on scan runs.
const (
	TriggerScheduled = "scheduled"
	TriggerStartup   = "startup"
	TriggerManual    = "manual"
)

// ExpiryScanJob owns the recurring expiry scan: one run per day at the
// configured local time, plus an optional catch-up run on startup so a
// process that was down at the scheduled moment does not wait a full day.
// Catch-up is safe because the scan is idempotent.
//
// The job does not guard against overlapping runs (a manual trigger racing
// the schedule, or two process instances): the alert store's unique
// constraint absorbs those races, never application memory.
type ExpiryScanJob struct {
	db       *gorm.DB
	expiry   *services.ExpiryService
	cron     *cron.Cron
	loc      *time.Location
	scanTime string
	catchUp  bool
	running  atomic.Bool

	// now is the clock used to derive "today"; injectable for tests.
	now func() time.Time
}

// NewExpiryScanJob creates the scan job. scanTime is "HH:MM" local time.
func NewExpiryScanJob(db *gorm.DB, expiry *services.ExpiryService, scanTime string, catchUp bool, loc *time.Location) *ExpiryScanJob {
	if loc == nil {
		loc = time.Local
	}
	return &ExpiryScanJob{
		db:       db,
		expiry:   expiry,
		loc:      loc,
		scanTime: scanTime,
		catchUp:  catchUp,
		now:      time.Now,
	}
}

// SetClock overrides the clock used to derive "today".
func (j *ExpiryScanJob) SetClock(now func() time.Time) {
	j.now = now
}

// Running reports whether a scan is currently in flight.
func (j *ExpiryScanJob) Running() bool {
	return j.running.Load()
}

// parseScanTime parses "HH:MM" into hour and minute.
func parseScanTime(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid scan time %q, expected HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid scan hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid scan minute in %q", s)
	}
	return hour, minute, nil
}

// Start schedules the daily run and, if enabled, fires the catch-up run.
func (j *ExpiryScanJob) Start() error {
	hour, minute, err := parseScanTime(j.scanTime)
	if err != nil {
		return err
	}

	j.cron = cron.New(cron.WithLocation(j.loc))
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := j.cron.AddFunc(spec, func() {
		if _, err := j.RunOnce(TriggerScheduled); err != nil {
			log.Printf("Expiry scan job: scheduled run failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule expiry scan: %w", err)
	}
	j.cron.Start()
	log.Printf("Expiry scan job scheduled daily at %02d:%02d (%s)", hour, minute, j.loc)

	if j.catchUp {
		go func() {
			if _, err := j.RunOnce(TriggerStartup); err != nil {
				log.Printf("Expiry scan job: startup catch-up run failed: %v", err)
			}
		}()
	}

	return nil
}

// Stop halts the schedule and waits for a running scheduled scan to finish.
func (j *ExpiryScanJob) Stop() {
	if j.cron != nil {
		ctx := j.cron.Stop()
		<-ctx.Done()
	}
	log.Println("Expiry scan job stopped")
}

// RunOnce executes a single tick for the current civil date and records the
// outcome as a ScanRun row. All failures are contained within the tick; the
// caller only ever sees a summary or a logged, recorded error.
func (j *ExpiryScanJob) RunOnce(trigger string) (services.ScanSummary, error) {
	j.running.Store(true)
	defer j.running.Store(false)

	started := j.now()
	today := dates.FromTime(started.In(j.loc))
	runID := uuid.New().String()

	log.Printf("Expiry scan run %s (%s) starting for %s", runID, trigger, today)

	summary, err := j.expiry.RunScan(today)

	run := &database.ScanRun{
		UUID:       runID,
		ScanDate:   today,
		Trigger:    trigger,
		StartedAt:  started,
		FinishedAt: j.now(),
	}
	if err != nil {
		run.Status = database.ScanRunStatusFailed
		run.Error = err.Error()
	} else {
		run.Status = database.ScanRunStatusCompleted
		run.Created = summary.Created
		run.AlreadyExists = summary.AlreadyExists
		run.Failed = summary.Failed
	}

	if dbErr := j.db.Create(run).Error; dbErr != nil {
		log.Printf("Expiry scan run %s: failed to record run: %v", runID, dbErr)
	}

	if err != nil {
		return services.ScanSummary{}, err
	}

	log.Printf("Expiry scan run %s finished: %d created, %d already existed, %d failed",
		runID, summary.Created, summary.AlreadyExists, summary.Failed)
	return summary, nil
}
