package writer

import (
	"time"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Writer at Open time.
type Option func(*config)

type config struct {
	logger  log.Logger
	reg     prometheus.Registerer
	timeout time.Duration
}

// WithLogger sets the logger used for lifecycle events (segment rolls,
// deletions). Defaults to a no-op logger.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithRegisterer sets the prometheus registerer metrics are registered
// against. Defaults to a private registry scoped to this Writer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) { c.reg = reg }
}

// WithTimeout bounds how long Open waits for the substrate's file lock.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

func newConfig(opts []Option) *config {
	c := &config{
		logger: log.NewNopLogger(),
		// A private registry by default: a process may open many
		// Writers, and promauto's MustRegister panics on the second
		// registration of the same metric name against a shared
		// registry such as prometheus.DefaultRegisterer.
		reg:     prometheus.NewRegistry(),
		timeout: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
