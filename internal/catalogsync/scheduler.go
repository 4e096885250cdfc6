package catalogsync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	sync     *SyncService
	interval time.Duration
	log      *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

func NewScheduler(svc *SyncService, interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Scheduler{
		sync:     svc,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает сверку статусов в фоне
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.log.Info("starting catalog sync scheduler", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop останавливает планировщик и ждёт завершения горутины
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("stopping catalog sync scheduler")
		close(s.stopCh)
	})
	if s.started.Load() {
		<-s.done
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Выполняем сразу при старте
	if err := s.sync.Reconcile(ctx); err != nil {
		s.log.Error("initial catalog sync failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := s.sync.Reconcile(ctx); err != nil {
				s.log.Error("catalog sync failed", zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("catalog sync stopped")
			return
		case <-ctx.Done():
			s.log.Info("catalog sync cancelled")
			return
		}
	}
}

// RunOnceNow выполняет сверку немедленно
func (s *Scheduler) RunOnceNow(ctx context.Context) error {
	return s.sync.Reconcile(ctx)
}
