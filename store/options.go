package store

import (
	"time"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Store at Open time.
type Option func(*Store)

// WithLogger sets the logger used for recovery and lifecycle events.
// Defaults to a no-op logger.
func WithLogger(l log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithRegisterer sets the prometheus registerer metrics are registered
// against. Defaults to a private registry scoped to this Store.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Store) { s.reg = reg }
}

// WithTimeout sets how long Open waits to acquire the substrate's file
// lock before giving up.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func (s *Store) applyDefaults(opts []Option) {
	s.logger = log.NewNopLogger()
	// A private registry by default: this package is meant to be opened
	// many times per process (one Store per log directory), and
	// promauto's MustRegister panics on the second registration of the
	// same metric name against a shared registry such as
	// prometheus.DefaultRegisterer.
	s.reg = prometheus.NewRegistry()
	s.timeout = time.Second

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = newStoreMetrics(s.reg)
	}
}
