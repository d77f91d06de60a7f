// Package scheduler asks the scraper service to crawl platforms on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Trigger starts a scraper run for one platform.
type Trigger interface {
	Trigger(ctx context.Context, platform string) (string, error)
}

type Scheduler struct {
	spec      string
	platforms []string
	trigger   Trigger
	logger    logrus.FieldLogger
	cron      *cron.Cron

	mu      sync.Mutex
	started bool
}

func New(spec string, platforms []string, trigger Trigger, logger logrus.FieldLogger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		spec:      spec,
		platforms: platforms,
		trigger:   trigger,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start registers the scrape job. An empty expression leaves the scheduler idle.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.Info("No scrape schedule configured, scrapers run on demand only")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) })
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.spec, err)
	}

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	s.cron.Start()
	s.logger.WithFields(logrus.Fields{
		"cron":      s.spec,
		"platforms": s.platforms,
	}).Info("Scrape scheduler started")
	return nil
}

// RunOnce triggers every configured platform. A failing platform does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, platform := range s.platforms {
		if ctx.Err() != nil {
			return
		}
		reply, err := s.trigger.Trigger(ctx, platform)
		if err != nil {
			s.logger.WithError(err).WithField("platform", platform).Error("Scheduled scrape failed to start")
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"platform": platform,
			"reply":    reply,
		}).Info("Scheduled scrape started")
	}
}

// Stop waits for a running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.started = false
}
