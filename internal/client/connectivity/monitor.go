// Package connectivity tracks whether the platform is reachable.
//
// A Monitor probes on a fixed interval and reports every change of the
// online flag through its callback, so consumers never block on the probe.
package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fishlog/internal/logging"
)

// Prober answers whether the platform can be reached right now.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

// Pinger is anything with a health call, such as client.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClientProber probes through the platform client's health endpoint.
func NewClientProber(p Pinger) Prober {
	return ProberFunc(p.Ping)
}

type Monitor struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger

	online atomic.Bool

	mu       sync.Mutex
	onChange func(ctx context.Context, online bool)
}

// NewMonitor starts in the online state, so the first failed probe is
// reported as a transition.
func NewMonitor(p Prober, interval, timeout time.Duration, logger logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.Nop()
	}
	m := &Monitor{
		prober:   p,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("module", "connectivity"),
	}
	m.online.Store(true)
	return m
}

// OnChange registers fn to run after each transition. fn runs on the
// probing goroutine.
func (m *Monitor) OnChange(fn func(ctx context.Context, online bool)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// ProbeNow runs one probe, records the result and returns it.
func (m *Monitor) ProbeNow(ctx context.Context) bool {
	pctx := ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	err := m.prober.Probe(pctx)
	online := err == nil
	if err != nil {
		m.logger.Debug(ctx, "probe failed", "error", err)
	}

	if m.online.Swap(online) != online {
		if online {
			m.logger.Info(ctx, "switched to online mode")
		} else {
			m.logger.Warn(ctx, "switched to offline mode")
		}

		m.mu.Lock()
		fn := m.onChange
		m.mu.Unlock()
		if fn != nil {
			fn(ctx, online)
		}
	}
	return online
}

// Run probes every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.ProbeNow(ctx)
		case <-ctx.Done():
			return
		}
	}
}
