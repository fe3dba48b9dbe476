package driver

import (
	"log/slog"
	"time"
)

// DefaultInterval is the pause between resolution rounds.
const DefaultInterval = 100 * time.Millisecond

// DefaultMaxRounds bounds how many rounds a node is retried before the
// driver reports it as still not ready.
const DefaultMaxRounds = 10

// Option defines a functional option for configuring the Driver.
type Option func(*Driver)

// WithInterval sets the pause between resolution rounds.
func WithInterval(interval time.Duration) Option {
	return func(d *Driver) {
		d.interval = interval
	}
}

// WithMaxRounds bounds the number of resolution rounds. Values below one
// are treated as one.
func WithMaxRounds(n int) Option {
	return func(d *Driver) {
		d.maxRounds = n
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}
