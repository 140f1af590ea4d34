package config

import (
	"fmt"
	"maps"
	"time"
)

// File represents the structure of the .serpclient configuration file.
// Pointer fields distinguish "not set" from the zero value.
type File struct {
	BackendURL       string            `yaml:"backendURL,omitempty"`
	Timeout          string            `yaml:"timeout,omitempty"`
	Proxy            string            `yaml:"proxy,omitempty"`
	Headers          map[string]string `yaml:"headers,omitempty"`
	StrictValidation *bool             `yaml:"strictValidation,omitempty"`
	History          *bool             `yaml:"history,omitempty"`
	HistoryDir       string            `yaml:"historyDir,omitempty"`
	MetricsFile      string            `yaml:"metricsFile,omitempty"`
}

// ApplyTo copies every value set in the file onto cfg.
func (f *File) ApplyTo(cfg *Config) error {
	if f.BackendURL != "" {
		cfg.BackendURL = f.BackendURL
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, f.Timeout)
		}
		cfg.Timeout = d
	}
	if f.Proxy != "" {
		cfg.Proxy = f.Proxy
	}
	if len(f.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(f.Headers))
		}
		maps.Copy(cfg.Headers, f.Headers)
	}
	if f.StrictValidation != nil {
		cfg.StrictValidation = *f.StrictValidation
	}
	if f.History != nil {
		cfg.History = *f.History
	}
	if f.HistoryDir != "" {
		cfg.HistoryDir = f.HistoryDir
	}
	if f.MetricsFile != "" {
		cfg.MetricsFile = f.MetricsFile
	}
	return nil
}
