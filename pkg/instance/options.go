package instance

import (
	"log/slog"

	"github.com/lonlypiano/lumberyard/pkg/instance/asset"
	"github.com/lonlypiano/lumberyard/pkg/instance/config"
	"github.com/lonlypiano/lumberyard/pkg/instance/observability"
)

// Ancestry answers whether one asset family descends from another.
// asset.Hierarchy is the standard implementation.
type Ancestry interface {
	IsDescendant(t, base asset.Type) bool
}

// ValidationPolicy controls the advisory source-mismatch check: what happens
// when an existing instance is requested with a different asset than the one
// it was created from. The existing instance is returned either way; the
// policy only decides whether the mismatch is reported.
type ValidationPolicy int

const (
	// ValidationWarn logs and counts mismatched requests. Default.
	ValidationWarn ValidationPolicy = iota

	// ValidationOff accepts mismatched requests silently.
	ValidationOff
)

// dbConfig holds configuration for a database.
type dbConfig struct {
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	loader       asset.Loader
	ancestry     Ancestry
	validation   ValidationPolicy
	leakLogLimit int
}

// defaultDBConfig returns the default database configuration.
func defaultDBConfig() dbConfig {
	return dbConfig{
		metrics:      observability.NoopMetrics{},
		spans:        observability.NoopSpanManager{},
		validation:   ValidationWarn,
		leakLogLimit: 16,
	}
}

// Option configures a Database.
type Option func(*dbConfig)

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *dbConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *dbConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpans sets the span manager for tracing.
// Default: observability.NoopSpanManager.
func WithSpans(s observability.SpanManager) Option {
	return func(c *dbConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithLoader sets the loader used to resolve assets that are not ready on
// the miss path. Without a loader, FindOrCreate with a non-ready asset is a
// load failure and returns an empty handle.
func WithLoader(l asset.Loader) Option {
	return func(c *dbConfig) {
		c.loader = l
	}
}

// WithAncestry sets the family-ancestry check used to validate that assets
// descend from the database's base type. Without one, every family is
// accepted; single-family databases don't need a hierarchy.
func WithAncestry(a Ancestry) Option {
	return func(c *dbConfig) {
		c.ancestry = a
	}
}

// WithValidation sets the source-mismatch policy. Default: ValidationWarn.
func WithValidation(p ValidationPolicy) Option {
	return func(c *dbConfig) {
		c.validation = p
	}
}

// WithLeakLogLimit caps how many leaked instance IDs Close logs
// individually. The returned *LeakError always carries all of them.
// Default: 16.
func WithLeakLogLimit(n int) Option {
	return func(c *dbConfig) {
		if n >= 0 {
			c.leakLogLimit = n
		}
	}
}

// FromConfig applies database policy from a loaded config file.
//
// Recognized keys:
//   - "validation": "warn" (default) or "off"
//   - "leak_log_limit": int
func FromConfig(cfg config.Config) Option {
	return func(c *dbConfig) {
		if cfg.String("validation", "warn") == "off" {
			c.validation = ValidationOff
		}
		c.leakLogLimit = cfg.Int("leak_log_limit", c.leakLogLimit)
	}
}
