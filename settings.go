package comprof

import "time"

// Default settings applied by Settings.WithDefaults.
const (
	DefaultConcurrency       = 3
	DefaultRequestsPerMinute = 30
	DefaultRetryLimit        = 3
	DefaultFetchTimeout      = 15 * time.Second
	DefaultBackoffBase       = 1500 * time.Millisecond
)

// DefaultUserAgent identifies batch fetches.
const DefaultUserAgent = "comprof/1.0"

// Settings holds run configuration. Zero values mean "use the default".
type Settings struct {
	// Concurrency is the worker pool size.
	Concurrency int

	// RequestsPerMinute caps the aggregate fetch rate across all workers.
	RequestsPerMinute int

	// RetryLimit is the maximum number of fetch attempts per target.
	RetryLimit int

	// FetchTimeout bounds a single fetch attempt.
	FetchTimeout time.Duration

	// BackoffBase scales the exponential retry backoff
	// (base * 2^(attempt-1), plus jitter).
	BackoffBase time.Duration

	// UserAgent is sent with every fetch.
	UserAgent string

	// ProxyGroups maps group names to proxy endpoint URLs. A run picks one
	// group; its endpoints are rotated round-robin.
	ProxyGroups map[ProxyGroup][]string
}

// WithDefaults returns a copy of s with unset values replaced by defaults.
func (s Settings) WithDefaults() Settings {
	if s.Concurrency == 0 {
		s.Concurrency = DefaultConcurrency
	}
	if s.RequestsPerMinute == 0 {
		s.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if s.RetryLimit == 0 {
		s.RetryLimit = DefaultRetryLimit
	}
	if s.FetchTimeout == 0 {
		s.FetchTimeout = DefaultFetchTimeout
	}
	if s.BackoffBase == 0 {
		s.BackoffBase = DefaultBackoffBase
	}
	if s.UserAgent == "" {
		s.UserAgent = DefaultUserAgent
	}
	return s
}

// Validate returns an error if any setting is out of range.
func (s *Settings) Validate() error {
	if s.Concurrency < 0 {
		return Errorf(EINVALID, "concurrency must not be negative")
	}
	if s.RequestsPerMinute < 0 {
		return Errorf(EINVALID, "requests per minute must not be negative")
	}
	if s.RetryLimit < 0 {
		return Errorf(EINVALID, "retry limit must not be negative")
	}
	if s.FetchTimeout < 0 {
		return Errorf(EINVALID, "fetch timeout must not be negative")
	}
	if s.BackoffBase < 0 {
		return Errorf(EINVALID, "backoff base must not be negative")
	}
	return nil
}

// Proxies returns the endpoints configured for group. An empty or unknown
// group yields nil, meaning direct fetches.
func (s Settings) Proxies(group ProxyGroup) []string {
	if group == "" || s.ProxyGroups == nil {
		return nil
	}
	return s.ProxyGroups[group]
}
