package sync

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Prober answers whether the remote store is reachable right now.
type Prober interface {
	Ping(ctx context.Context) error
}

const (
	probeAttempts = 3
	probeDelay    = 2 * time.Second
)

// Monitor decides "are we online for sync purposes" with a periodic
// lightweight probe of the remote store. A boolean latch drops triggers
// that arrive while a check is already running rather than queueing them;
// the next tick covers whatever was missed.
type Monitor struct {
	prober   Prober
	interval time.Duration
	delay    time.Duration
	onOnline func(ctx context.Context)
	log      *zap.Logger

	checking atomic.Bool
	online   atomic.Bool
}

// NewMonitor constructs a Monitor. onOnline fires on every transition
// from offline to online.
func NewMonitor(p Prober, interval time.Duration, onOnline func(ctx context.Context), log *zap.Logger) *Monitor {
	return &Monitor{
		prober:   p,
		interval: interval,
		delay:    probeDelay,
		onOnline: onOnline,
		log:      log,
	}
}

// Online reports the last known connectivity state.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// MarkOffline flips the state to offline immediately. Called by write
// paths when a remote call fails, so the next successful probe triggers a
// full sync.
func (m *Monitor) MarkOffline() {
	if m.online.CompareAndSwap(true, false) {
		m.log.Warn("remote store marked offline")
	}
}

// Check probes the remote store once (with retries) and fires onOnline on
// an offline-to-online transition. It returns the resulting state. A
// check already in flight makes this call a no-op returning the last
// known state.
func (m *Monitor) Check(ctx context.Context) bool {
	if !m.checking.CompareAndSwap(false, true) {
		return m.online.Load()
	}
	defer m.checking.Store(false)

	var err error
	for attempt := 1; attempt <= probeAttempts; attempt++ {
		if err = m.prober.Ping(ctx); err == nil {
			break
		}
		if attempt < probeAttempts {
			select {
			case <-ctx.Done():
				return m.online.Load()
			case <-time.After(m.delay):
			}
		}
	}

	if err != nil {
		if m.online.CompareAndSwap(true, false) {
			m.log.Warn("remote store unreachable", zap.Error(err))
		}
		return false
	}

	if m.online.CompareAndSwap(false, true) {
		m.log.Info("remote store reachable, starting sync")
		if m.onOnline != nil {
			m.onOnline(ctx)
		}
	}
	return true
}

// Run checks immediately, then on every interval tick until ctx is
// cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)
	ticker := time.NewTicker(m.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}
