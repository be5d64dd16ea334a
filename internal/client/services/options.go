package services

import (
	"time"

	"github.com/dmitrijs2005/fishlog/internal/client/notify"
	"github.com/dmitrijs2005/fishlog/internal/client/retry"
	"github.com/dmitrijs2005/fishlog/internal/logging"
)

type options struct {
	logger   logging.Logger
	notifier notify.Notifier
	policy   retry.Policy
	online   bool
	now      func() time.Time
}

// Option configures a service.
type Option func(*options)

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithRetryPolicy replaces retry.DefaultPolicy for session creation and
// profile fetches.
func WithRetryPolicy(p retry.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithOnline sets the connectivity assumed until the first SetOnline call.
func WithOnline(online bool) Option {
	return func(o *options) { o.online = online }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   logging.Nop(),
		notifier: notify.Nop{},
		policy:   retry.DefaultPolicy(),
		online:   true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
