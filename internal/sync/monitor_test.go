package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeProber struct {
	err   error
	calls int
}

func (p *fakeProber) Ping(context.Context) error {
	p.calls++
	return p.err
}

func newTestMonitor(p Prober, onOnline func(context.Context)) *Monitor {
	m := NewMonitor(p, time.Minute, onOnline, zap.NewNop())
	m.delay = time.Millisecond
	return m
}

func TestCheck_OfflineToOnlineTriggersSync(t *testing.T) {
	fired := 0
	m := newTestMonitor(&fakeProber{}, func(context.Context) { fired++ })

	if !m.Check(context.Background()) {
		t.Fatal("check with healthy prober must report online")
	}
	if fired != 1 {
		t.Errorf("onOnline fired %d times; want 1", fired)
	}

	// Still online: no second transition.
	m.Check(context.Background())
	if fired != 1 {
		t.Errorf("onOnline fired %d times after steady state; want 1", fired)
	}
}

func TestCheck_RetriesBeforeGivingUp(t *testing.T) {
	p := &fakeProber{err: errors.New("refused")}
	m := newTestMonitor(p, nil)

	if m.Check(context.Background()) {
		t.Fatal("check must report offline")
	}
	if p.calls != probeAttempts {
		t.Errorf("probe attempts = %d; want %d", p.calls, probeAttempts)
	}
}

func TestCheck_LatchDropsOverlappingTrigger(t *testing.T) {
	p := &fakeProber{}
	m := newTestMonitor(p, nil)

	// Simulate a check already in flight: the latch is held.
	m.checking.Store(true)
	m.Check(context.Background())
	if p.calls != 0 {
		t.Errorf("probe ran %d times under held latch; want 0, trigger dropped", p.calls)
	}

	m.checking.Store(false)
	m.Check(context.Background())
	if p.calls == 0 {
		t.Error("probe must run once the latch is free")
	}
}

func TestMarkOffline_ForcesNextTransition(t *testing.T) {
	fired := 0
	m := newTestMonitor(&fakeProber{}, func(context.Context) { fired++ })

	m.Check(context.Background())
	m.MarkOffline()
	if m.Online() {
		t.Fatal("MarkOffline must flip the state")
	}
	m.Check(context.Background())
	if fired != 2 {
		t.Errorf("onOnline fired %d times; want 2 (one per recovery)", fired)
	}
}
