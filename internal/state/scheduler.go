package state

import (
	"context"
	"fmt"
	"freegames/internal/providers"
	"freegames/internal/services"
	"freegames/internal/state/interfaces"
	"freegames/internal/structures"
	"github.com/robfig/cron/v3"
	"sync"
	"time"
)

const stopTimeout = 30 * time.Second

type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	registry  services.RegistryInterface
	announcer services.AnnouncerInterface
	cron      *cron.Cron
	initial   *time.Timer
	ctx       context.Context
	cancel    context.CancelFunc
	opsMu     sync.Mutex
}

// Init starts the cron trigger and schedules the first check after the
// configured initial delay. A negative delay skips the first check.
func (s *Scheduler) Init() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	cl := &cronLogger{logger: s.logger}
	s.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := s.cron.AddFunc(s.config.Scheduler.Cron, s.runCheck); err != nil {
		s.logger.Errorf(providers.TypeApp, "Invalid schedule %q: %s", s.config.Scheduler.Cron, err)
	}
	s.cron.Start()

	if delay := s.config.Scheduler.InitialDelay; delay >= 0 {
		s.initial = time.AfterFunc(delay, s.runCheck)
		s.logger.Infof(providers.TypeApp, "First check in %s, then on %q", delay, s.config.Scheduler.Cron)
	}
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.initial != nil {
		s.initial.Stop()
	}
	if s.cron != nil {
		select {
		case <-s.cron.Stop().Done():
		case <-time.After(stopTimeout):
			s.logger.Warnf(providers.TypeApp, "Check still running after %s, stopping anyway", stopTimeout)
		}
	}
}

func (s *Scheduler) Restore() error {
	s.registry.Restore()
	return nil
}

// Persist forces the pending registry changes to the store and closes it.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting state...")
	if err := s.registry.Close(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) runCheck() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if s.ctx.Err() != nil {
		return
	}
	start := time.Now()
	posted := s.announcer.CheckAll(s.ctx)
	s.logger.Infof(providers.TypeApp, "Scheduled check posted %d offers in %s", posted, time.Since(start).Round(time.Millisecond))
}

func NewScheduler(config *structures.Config, logger providers.Logger, registry services.RegistryInterface, announcer services.AnnouncerInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		registry:  registry,
		announcer: announcer,
	}
}

// cronLogger routes cron's own messages to the app log.
type cronLogger struct {
	logger providers.Logger
}

func (c *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debugf(providers.TypeApp, "cron: %s %v", msg, keysAndValues)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Errorf(providers.TypeApp, "cron: %s %v: %s", msg, keysAndValues, fmt.Sprint(err))
}
