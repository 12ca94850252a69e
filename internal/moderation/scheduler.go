package moderation

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/postguard/postguard/internal/infra"
)

const kvKeyLastScanPass = "last_scan_pass"

type kvStore interface {
	GetKV(ctx context.Context, key string) (string, error)
	SetKV(ctx context.Context, key string, value string) error
}

// Scheduler drives periodic scan passes. It runs one pass on start
// when the last recorded pass is older than the interval, then ticks.
type Scheduler struct {
	scanner  *Scanner
	kv       kvStore
	interval time.Duration
	logger   *log.Entry

	runMutex  sync.Mutex
	started   bool
	runCancel context.CancelFunc
	workersWg sync.WaitGroup
}

func NewScheduler(scanner *Scanner, kv kvStore, interval time.Duration) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		kv:       kv,
		interval: interval,
		logger:   log.WithField("object", "Scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()
	if s.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.runCancel = cancel

	s.workersWg.Add(1)
	go func() {
		defer s.workersWg.Done()
		infra.GoRecoverable(3, "scan_scheduler", func() {
			s.runLoop(runCtx)
		})
	}()

	s.started = true
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	s.runMutex.Lock()
	if !s.started {
		s.runMutex.Unlock()
		return nil
	}
	s.started = false
	cancel := s.runCancel
	s.runMutex.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.workersWg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (s *Scheduler) runLoop(ctx context.Context) {
	if s.passDue(ctx) {
		s.runPass(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *Scheduler) passDue(ctx context.Context) bool {
	val, err := s.kv.GetKV(ctx, kvKeyLastScanPass)
	if err != nil || val == "" {
		return true
	}
	last, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return true
	}
	return time.Since(last) >= s.interval
}

func (s *Scheduler) runPass(ctx context.Context) {
	report, err := s.scanner.ScanAndProtect(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.logger.WithError(err).Error("scan pass failed")
		}
		return
	}

	if err := s.kv.SetKV(ctx, kvKeyLastScanPass, time.Now().UTC().Format(time.RFC3339)); err != nil {
		s.logger.WithError(err).Warn("failed to record scan pass time")
	}

	if report.Blocked > 0 {
		s.logger.WithField("blocked", report.Blocked).Info("accounts blocked during pass")
	}
}
