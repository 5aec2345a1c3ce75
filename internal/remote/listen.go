package remote

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Notification channels the store publishes row changes on.
const (
	ChannelVehicles = "vehicles_changes"
	ChannelStaff    = "staff_changes"
	ChannelKpi      = "kpi_changes"
)

// ChangeEvent is one row-level change delivered over the realtime push
// channel. Row is the snake_case row as JSON.
type ChangeEvent struct {
	Op    string          `json:"op"` // INSERT, UPDATE, DELETE
	Table string          `json:"table"`
	Row   json.RawMessage `json:"row"`
}

// Listener subscribes to the three realtime channels and forwards decoded
// events to a handler. It reconnects with the backoff built into
// pq.Listener.
type Listener struct {
	dsn     string
	handler func(ChangeEvent)
	log     *zap.Logger
}

// NewListener creates a realtime listener. handler is called from the
// listener goroutine and must not block for long.
func NewListener(dsn string, handler func(ChangeEvent), log *zap.Logger) *Listener {
	return &Listener{dsn: dsn, handler: handler, log: log}
}

// Start begins listening until ctx is cancelled.
func (l *Listener) Start(ctx context.Context) error {
	pl := pq.NewListener(l.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.log.Warn("realtime listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	for _, ch := range []string{ChannelVehicles, ChannelStaff, ChannelKpi} {
		if err := pl.Listen(ch); err != nil {
			pl.Close()
			return err
		}
	}

	go func() {
		defer pl.Close()
		ping := time.NewTicker(90 * time.Second)
		defer ping.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-pl.Notify:
				if n == nil {
					// Connection was re-established; notifications may
					// have been lost. The next poll cycle reconciles.
					continue
				}
				var ev ChangeEvent
				if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
					l.log.Warn("bad realtime payload",
						zap.String("channel", n.Channel), zap.Error(err))
					continue
				}
				l.handler(ev)
			case <-ping.C:
				if err := pl.Ping(); err != nil {
					l.log.Warn("realtime ping failed", zap.Error(err))
				}
			}
		}
	}()
	return nil
}
