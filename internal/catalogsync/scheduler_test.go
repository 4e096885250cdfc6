package catalogsync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MockSyncer struct {
	calls           atomic.Int32
	SyncSoldOutFunc func(ctx context.Context) ([]uuid.UUID, []uuid.UUID, error)
}

func (m *MockSyncer) SyncSoldOut(ctx context.Context) ([]uuid.UUID, []uuid.UUID, error) {
	m.calls.Add(1)
	if m.SyncSoldOutFunc != nil {
		return m.SyncSoldOutFunc(ctx)
	}
	return nil, nil, nil
}

type MockInvalidator struct {
	ids []uuid.UUID
	err error
}

func (m *MockInvalidator) InvalidateProducts(_ context.Context, ids ...uuid.UUID) error {
	m.ids = append(m.ids, ids...)
	return m.err
}

func TestReconcileReturnsError(t *testing.T) {
	m := &MockSyncer{SyncSoldOutFunc: func(context.Context) ([]uuid.UUID, []uuid.UUID, error) {
		return nil, nil, errors.New("db down")
	}}
	svc := NewSyncService(m, nil, zap.NewNop())
	if err := svc.Reconcile(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReconcileInvalidatesChangedProducts(t *testing.T) {
	soldOut, restocked := uuid.New(), uuid.New()
	m := &MockSyncer{SyncSoldOutFunc: func(context.Context) ([]uuid.UUID, []uuid.UUID, error) {
		return []uuid.UUID{soldOut}, []uuid.UUID{restocked}, nil
	}}
	inv := &MockInvalidator{}
	if err := NewSyncService(m, inv, zap.NewNop()).Reconcile(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(inv.ids) != 2 || inv.ids[0] != soldOut || inv.ids[1] != restocked {
		t.Fatalf("invalidated %v, want [%s %s]", inv.ids, soldOut, restocked)
	}

	// ошибка кэша не делает сверку неуспешной
	inv = &MockInvalidator{err: errors.New("redis down")}
	if err := NewSyncService(m, inv, zap.NewNop()).Reconcile(context.Background()); err != nil {
		t.Fatalf("cache failure must not fail reconcile: %v", err)
	}
}

func TestReconcileSkipsCacheWhenNothingChanged(t *testing.T) {
	inv := &MockInvalidator{}
	if err := NewSyncService(&MockSyncer{}, inv, zap.NewNop()).Reconcile(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(inv.ids) != 0 {
		t.Fatalf("nothing changed, yet invalidated %v", inv.ids)
	}
}

func TestSchedulerRunsImmediatelyAndOnTick(t *testing.T) {
	m := &MockSyncer{SyncSoldOutFunc: func(context.Context) ([]uuid.UUID, []uuid.UUID, error) {
		return []uuid.UUID{uuid.New()}, []uuid.UUID{uuid.New()}, nil
	}}
	s := NewScheduler(NewSyncService(m, nil, zap.NewNop()), 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for m.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()

	if got := m.calls.Load(); got < 3 {
		t.Fatalf("expected at least 3 reconciles, got %d", got)
	}
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	m := &MockSyncer{}
	s := NewScheduler(NewSyncService(m, nil, zap.NewNop()), time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop after cancel")
	}
	s.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	s := NewScheduler(NewSyncService(&MockSyncer{}, nil, zap.NewNop()), time.Hour, zap.NewNop())
	s.Stop()
	if err := s.RunOnceNow(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
}
