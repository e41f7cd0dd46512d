package gibil

import "github.com/entur/gibil-sub000/types"

// Option configures a Service with optional dependencies.
type Option func(*serviceOptions)

// serviceOptions holds optional Service configuration.
type serviceOptions struct {
	logger    types.Logger
	metrics   types.MetricsCollector
	changePub types.ChangePublisher
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	svc, err := gibil.New(&cfg, feed, enc, poster, gibil.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	collector := metrics.NewPrometheus(nil, "gibil")
//	svc, err := gibil.New(&cfg, feed, enc, poster, gibil.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *serviceOptions) {
		o.metrics = metrics
	}
}

// WithChangePublisher mirrors every changed-journey document to an internal
// message bus in addition to the HTTP push path. Publishing is best-effort;
// failures are logged and never abort a poll cycle.
//
// Parameters:
//   - pub: ChangePublisher implementation (e.g. publish.NewNATS)
//
// Returns:
//   - Option: Functional option for New
func WithChangePublisher(pub ChangePublisher) Option {
	return func(o *serviceOptions) {
		o.changePub = pub
	}
}
