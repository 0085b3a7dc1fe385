package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/comprof"
	"gopkg.in/yaml.v3"
)

// fileSettings is the YAML shape of a settings file. Durations are
// time.ParseDuration strings ("15s", "1.5s").
type fileSettings struct {
	Concurrency       int                 `yaml:"concurrency"`
	RequestsPerMinute int                 `yaml:"requests_per_minute"`
	RetryLimit        int                 `yaml:"retry_limit"`
	FetchTimeout      string              `yaml:"fetch_timeout"`
	BackoffBase       string              `yaml:"backoff_base"`
	UserAgent         string              `yaml:"user_agent"`
	ProxyGroups       map[string][]string `yaml:"proxy_groups"`
}

// LoadSettings reads a settings YAML file. An empty path yields zero
// settings, so defaults apply.
func LoadSettings(path string) (comprof.Settings, error) {
	var s comprof.Settings
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}

	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return s, fmt.Errorf("failed to parse settings file %q: %w", path, err)
	}

	s.Concurrency = fs.Concurrency
	s.RequestsPerMinute = fs.RequestsPerMinute
	s.RetryLimit = fs.RetryLimit
	s.UserAgent = fs.UserAgent

	if fs.FetchTimeout != "" {
		d, err := time.ParseDuration(fs.FetchTimeout)
		if err != nil {
			return s, fmt.Errorf("invalid fetch_timeout %q: %w", fs.FetchTimeout, err)
		}
		s.FetchTimeout = d
	}
	if fs.BackoffBase != "" {
		d, err := time.ParseDuration(fs.BackoffBase)
		if err != nil {
			return s, fmt.Errorf("invalid backoff_base %q: %w", fs.BackoffBase, err)
		}
		s.BackoffBase = d
	}
	if len(fs.ProxyGroups) > 0 {
		s.ProxyGroups = make(map[comprof.ProxyGroup][]string, len(fs.ProxyGroups))
		for name, endpoints := range fs.ProxyGroups {
			s.ProxyGroups[comprof.ProxyGroup(name)] = endpoints
		}
	}

	return s, nil
}

// ApplyFlags overlays command-line flags on file settings. Flags win.
func ApplyFlags(s comprof.Settings, cmd *RunCmd) comprof.Settings {
	if cmd.Concurrency > 0 {
		s.Concurrency = cmd.Concurrency
	}
	if cmd.RPM > 0 {
		s.RequestsPerMinute = cmd.RPM
	}
	if cmd.Retries > 0 {
		s.RetryLimit = cmd.Retries
	}
	if cmd.Timeout > 0 {
		s.FetchTimeout = cmd.Timeout
	}
	return s
}
