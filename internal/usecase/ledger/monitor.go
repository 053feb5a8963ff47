package ledger

import (
	"context"
	"log/slog"
	"time"
)

// Monitor verifies the chain on a fixed interval in the background. A broken
// chain is logged at error level; verification never stops the service.
type Monitor struct {
	svc      *Service
	interval time.Duration
	log      *slog.Logger
	stop     chan struct{}
	done     chan struct{}
}

func NewMonitor(svc *Service, interval time.Duration, log *slog.Logger) *Monitor {
	return &Monitor{svc: svc, interval: interval, log: log}
}

// Start launches the verification loop. A non-positive interval disables the
// monitor. Calling Start twice is a no-op while a loop is running.
func (m *Monitor) Start(ctx context.Context) {
	if m.interval <= 0 {
		m.log.Info("ledger monitor disabled")
		return
	}
	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	m.log.Info("ledger monitor started", slog.Duration("interval", m.interval))

	go func() {
		defer close(m.done)
		t := time.NewTicker(m.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				m.runOnce(ctx)
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit.
func (m *Monitor) Stop() {
	if m.stop == nil {
		return
	}
	close(m.stop)
	<-m.done
	m.stop = nil
}

func (m *Monitor) runOnce(ctx context.Context) {
	ok, badIndex, err := m.svc.VerifyChain(ctx)
	switch {
	case err != nil:
		m.log.Error("scheduled ledger verification failed", slog.Any("error", err))
	case !ok:
		m.log.Error("ledger integrity violation detected", slog.Int("broken_at", badIndex))
	default:
		m.log.Info("scheduled ledger verification passed")
	}
}
