package gibil

import (
	"fmt"
	"time"
)

// FetchConfig controls upstream feed retrieval.
type FetchConfig struct {
	// Concurrency is the maximum number of feed requests in flight at
	// once. Airports are processed in sequential chunks of this size.
	Concurrency int `yaml:"concurrency"`

	// Pacing is the delay before each request launch within a chunk, so
	// the upstream provider never sees a burst of simultaneous requests.
	Pacing time.Duration `yaml:"pacing"`

	// Timeout bounds each individual feed request. A timed-out airport
	// contributes nothing to the cycle and never cancels its siblings.
	Timeout time.Duration `yaml:"timeout"`
}

// WindowConfig controls time-window admission of reconstructed journeys.
type WindowConfig struct {
	// Past is how far behind now the latest stop time may lie before the
	// journey is considered entirely over.
	Past time.Duration `yaml:"past"`

	// Future is how far ahead of now the earliest stop time may lie
	// before the journey is considered not yet relevant.
	Future time.Duration `yaml:"future"`
}

// Config is the configuration for the Service.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h".
type Config struct {
	// Airports lists the IATA codes whose feeds are polled each cycle.
	Airports []string `yaml:"airports"`

	// PollInterval is the fixed period between poll cycles. Cycles never
	// overlap; a slow cycle simply delays the next one.
	// Recommended: 2 minutes.
	PollInterval time.Duration `yaml:"pollInterval"`

	// StartupGraceDelay postpones the first poll cycle after Start to
	// avoid a fetch storm during process warm-up.
	StartupGraceDelay time.Duration `yaml:"startupGraceDelay"`

	// Fetch controls feed retrieval concurrency and pacing.
	Fetch FetchConfig `yaml:"fetch"`

	// Window controls time-window admission.
	Window WindowConfig `yaml:"window"`

	// Timezone is the IANA zone used to derive a flight's operating date
	// from its scheduled times.
	Timezone string `yaml:"timezone"`

	// ExtraScopeAirports whitelists remote-region airports whose
	// non-domestic sightings are kept in scope anyway.
	ExtraScopeAirports []string `yaml:"extraScopeAirports"`

	// FailureThreshold is the shared push+heartbeat failure count at
	// which a subscriber is evicted on its next heartbeat tick.
	FailureThreshold int `yaml:"failureThreshold"`

	// PostTimeout bounds each outbound POST to a subscriber.
	PostTimeout time.Duration `yaml:"postTimeout"`

	// DefaultHeartbeatInterval is used when a subscribe request does not
	// specify its own heartbeat interval.
	DefaultHeartbeatInterval time.Duration `yaml:"defaultHeartbeatInterval"`
}

// DefaultConfig returns a Config with production defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		PollInterval:      2 * time.Minute,
		StartupGraceDelay: 10 * time.Second,
		Fetch: FetchConfig{
			Concurrency: 5,
			Pacing:      50 * time.Millisecond,
			Timeout:     10 * time.Second,
		},
		Window: WindowConfig{
			Past:   20 * time.Minute,
			Future: 7 * time.Hour,
		},
		Timezone:                 "Europe/Oslo",
		ExtraScopeAirports:       []string{"LYR"},
		FailureThreshold:         5,
		PostTimeout:              10 * time.Second,
		DefaultHeartbeatInterval: 60 * time.Second,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	if cfg.StartupGraceDelay == 0 {
		cfg.StartupGraceDelay = defaults.StartupGraceDelay
	}
	if cfg.Fetch.Concurrency == 0 {
		cfg.Fetch.Concurrency = defaults.Fetch.Concurrency
	}
	if cfg.Fetch.Pacing == 0 {
		cfg.Fetch.Pacing = defaults.Fetch.Pacing
	}
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = defaults.Fetch.Timeout
	}
	if cfg.Window.Past == 0 {
		cfg.Window.Past = defaults.Window.Past
	}
	if cfg.Window.Future == 0 {
		cfg.Window.Future = defaults.Window.Future
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaults.Timezone
	}
	if cfg.ExtraScopeAirports == nil {
		cfg.ExtraScopeAirports = defaults.ExtraScopeAirports
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.PostTimeout == 0 {
		cfg.PostTimeout = defaults.PostTimeout
	}
	if cfg.DefaultHeartbeatInterval == 0 {
		cfg.DefaultHeartbeatInterval = defaults.DefaultHeartbeatInterval
	}
}

// Validate checks configuration constraints and returns an error for
// invalid values.
//
// Hard Validation Rules:
//   - At least one airport must be configured
//   - Fetch.Concurrency >= 1
//   - Window durations > 0
//   - FailureThreshold >= 1
//   - PollInterval > 0 and PostTimeout > 0
//
// Returns:
//   - error: Validation error with a clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if len(cfg.Airports) == 0 {
		return fmt.Errorf("at least one airport must be configured")
	}
	if cfg.Fetch.Concurrency < 1 {
		return fmt.Errorf("Fetch.Concurrency must be >= 1, got %d", cfg.Fetch.Concurrency)
	}
	if cfg.Fetch.Pacing < 0 {
		return fmt.Errorf("Fetch.Pacing must not be negative, got %v", cfg.Fetch.Pacing)
	}
	if cfg.Window.Past <= 0 || cfg.Window.Future <= 0 {
		return fmt.Errorf(
			"Window durations must be > 0, got past=%v future=%v",
			cfg.Window.Past, cfg.Window.Future,
		)
	}
	if cfg.FailureThreshold < 1 {
		return fmt.Errorf("FailureThreshold must be >= 1, got %d", cfg.FailureThreshold)
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("PollInterval must be > 0, got %v", cfg.PollInterval)
	}
	if cfg.PostTimeout <= 0 {
		return fmt.Errorf("PostTimeout must be > 0, got %v", cfg.PostTimeout)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for
// non-recommended values.
//
// This is called after Validate() in New() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	// A poll period close to the worst-case fetch time risks back-to-back
	// cycles with no idle time between them.
	worstFetch := time.Duration(len(cfg.Airports)/max(cfg.Fetch.Concurrency, 1)+1) * cfg.Fetch.Timeout
	if cfg.PollInterval < worstFetch {
		logger.Warn(
			"PollInterval is shorter than the worst-case fetch time",
			"pollInterval", cfg.PollInterval,
			"worstCaseFetch", worstFetch,
		)
	}

	if cfg.DefaultHeartbeatInterval < 10*time.Second {
		logger.Warn(
			"DefaultHeartbeatInterval is very short, may cause heavy subscriber traffic",
			"heartbeatInterval", cfg.DefaultHeartbeatInterval,
			"recommended", "60s or higher",
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Test timings are 10-100x faster than production defaults to enable rapid
// iteration without sacrificing coverage. Use DefaultConfig() for
// production deployments.
//
// Returns:
//   - Config: Configuration with fast timings for tests
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Airports = []string{"OSL", "BGO", "TRD"}
	cfg.PollInterval = 50 * time.Millisecond
	cfg.StartupGraceDelay = 5 * time.Millisecond
	cfg.Fetch.Pacing = 0
	cfg.Fetch.Timeout = time.Second
	cfg.PostTimeout = time.Second
	cfg.DefaultHeartbeatInterval = 20 * time.Millisecond

	return cfg
}
