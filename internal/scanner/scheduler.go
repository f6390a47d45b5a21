package scanner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DailySchedule runs the scan every midnight UTC.
const DailySchedule = "0 0 * * *"

// Scheduler drives the daily fraud scan on a cron timer. A failed or
// panicking run is logged and abandoned; it carries no state into the
// next run.
type Scheduler struct {
	cron    *cron.Cron
	scanner *Scanner
	log     *logrus.Logger
}

func NewScheduler(sc *Scanner, log *logrus.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron:    c,
		scanner: sc,
		log:     log,
	}

	if _, err := c.AddFunc(DailySchedule, s.runScan); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) runScan() {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("daily fraud scan panicked")
		}
	}()

	if err := s.scanner.RunOnce(context.Background()); err != nil {
		s.log.WithError(err).Error("daily fraud scan failed")
	}
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("daily fraud scan scheduled")
}

// Stop gracefully stops the scheduler, waiting for a running scan.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("daily fraud scan scheduler stopped")
}
