package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBackendURL is where the scraping backend listens in a local
	// deployment.
	DefaultBackendURL = "http://127.0.0.1:5000"

	// DefaultTimeout bounds a single backend request. Scrapes fan out to
	// a search API on the backend side and can take tens of seconds.
	DefaultTimeout = 60 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "serpclient"
)

// Config holds all configuration options for serpclient.
type Config struct {
	// BackendURL is the base URL of the scraping backend.
	BackendURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Proxy is an optional SOCKS5 proxy in host:port form.
	Proxy string

	// Headers are sent with every backend request (for example an API
	// gateway key).
	Headers map[string]string

	// StrictValidation fails a whole payload on the first malformed record
	// instead of dropping the record.
	StrictValidation bool

	// History enables storing successful scrape snapshots.
	History bool

	// HistoryDir is the directory of the history database.
	HistoryDir string

	// MetricsFile, when set, receives the session metrics in Prometheus
	// text format when the command exits.
	MetricsFile string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches the log output to JSON.
	LogJSON bool

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file for the report. Empty means stdout.
	ReportFile string

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BackendURL: DefaultBackendURL,
		Timeout:    DefaultTimeout,
		Headers:    map[string]string{},
		History:    true,
		HistoryDir: XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for serpclient.
// On Linux: ~/.local/share/serpclient
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for serpclient.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBackendURL, c.BackendURL)
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Proxy != "" {
		host, port, err := net.SplitHostPort(c.Proxy)
		if err != nil || host == "" || port == "" {
			return fmt.Errorf("%w: %q", ErrInvalidProxyAddress, c.Proxy)
		}
	}

	for name := range c.Headers {
		if !validHeaderName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidHeader, name)
		}
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// validHeaderName reports whether name is a non-empty RFC 7230 token.
func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return false
		}
		return !strings.ContainsRune("!#$%&'*+-.^_`|~", r)
	}) < 0
}
