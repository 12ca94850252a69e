package moderation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/postguard/postguard/internal/spam"
)

type memoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}}
}

func (m *memoryKV) GetKV(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memoryKV) SetKV(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func TestSchedulerPassDue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := newMemoryKV()
	scheduler := NewScheduler(nil, kv, time.Hour)

	if !scheduler.passDue(ctx) {
		t.Error("empty kv must mean a pass is due")
	}

	if err := kv.SetKV(ctx, kvKeyLastScanPass, time.Now().UTC().Format(time.RFC3339)); err != nil {
		t.Fatal(err)
	}
	if scheduler.passDue(ctx) {
		t.Error("fresh pass reported due")
	}

	stale := time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC3339)
	if err := kv.SetKV(ctx, kvKeyLastScanPass, stale); err != nil {
		t.Fatal(err)
	}
	if !scheduler.passDue(ctx) {
		t.Error("stale pass not reported due")
	}

	if err := kv.SetKV(ctx, kvKeyLastScanPass, "garbage"); err != nil {
		t.Fatal(err)
	}
	if !scheduler.passDue(ctx) {
		t.Error("unparseable timestamp must mean a pass is due")
	}
}

func TestSchedulerRunsInitialPass(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := newMemoryKV()
	scanner := NewScanner(&stubPlatform{}, newMemoryLedger(), spam.NewScorer())
	scheduler := NewScheduler(scanner, kv, time.Hour)

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Starting twice is a no-op.
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		val, err := kv.GetKV(ctx, kvKeyLastScanPass)
		if err != nil {
			t.Fatal(err)
		}
		if val != "" {
			if _, err := time.Parse(time.RFC3339, val); err != nil {
				t.Errorf("recorded pass time %q not RFC3339", val)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("initial pass never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := scheduler.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := scheduler.Stop(stopCtx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
