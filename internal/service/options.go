package service

import (
	"time"

	applog "finance-dashboard/internal/log"
)

// Option configures the clock and logger shared by every service.
type Option func(*serviceDeps)

type serviceDeps struct {
	now    func() time.Time
	logger *applog.Logger
}

func WithClock(now func() time.Time) Option {
	return func(deps *serviceDeps) {
		if now != nil {
			deps.now = now
		}
	}
}

func WithLogger(logger *applog.Logger) Option {
	return func(deps *serviceDeps) {
		if logger != nil {
			deps.logger = logger
		}
	}
}

func newServiceDeps(component string, opts []Option) serviceDeps {
	deps := serviceDeps{
		now:    time.Now,
		logger: applog.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}
	deps.logger = deps.logger.WithComponent(component)
	return deps
}
