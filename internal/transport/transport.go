package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds the SOCKS5 greeting in CheckProxy.
const checkProxyTimeout = 2 * time.Second

// DefaultTimeout applies when no timeout option is given.
const DefaultTimeout = 60 * time.Second

// Transport creates HTTP clients for the backend.
type Transport struct {
	// proxyAddress is empty for direct connections.
	proxyAddress string

	// dialer is nil for direct connections.
	dialer proxy.Dialer

	timeout time.Duration
	headers map[string]string
}

// Option configures a Transport.
type Option func(*Transport)

// WithTimeout sets the overall per-request timeout.
// Zero leaves the default in place.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Transport) {
		if timeout > 0 {
			t.timeout = timeout
		}
	}
}

// WithProxy routes all connections through a SOCKS5 proxy at host:port.
// An empty address means direct connections.
func WithProxy(address string) Option {
	return func(t *Transport) {
		t.proxyAddress = address
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(t *Transport) {
		if len(headers) == 0 {
			return
		}
		if t.headers == nil {
			t.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			t.headers[k] = v
		}
	}
}

// New creates a Transport. It validates the proxy address format but does
// not contact the proxy; call CheckProxy for that.
func New(opts ...Option) (*Transport, error) {
	t := &Transport{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(t)
	}

	if t.proxyAddress != "" {
		if !IsValidProxyAddress(t.proxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", t.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		t.dialer = dialer
	}

	return t, nil
}

// IsValidProxyAddress checks that address is "host:port" with a port
// between 1 and 65535.
func IsValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// ProxyAddress returns the configured proxy address, or "" when direct.
func (t *Transport) ProxyAddress() string {
	return t.proxyAddress
}

// Timeout returns the per-request timeout.
func (t *Transport) Timeout() time.Duration {
	return t.timeout
}

// HTTPClient returns a new HTTP client configured with the timeout, proxy
// and headers of this Transport.
func (t *Transport) HTTPClient() *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if t.dialer != nil {
		dialer := t.dialer
		base.Proxy = nil
		base.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	}

	var rt http.RoundTripper = base
	if len(t.headers) > 0 {
		rt = &headerInjectingTransport{base: base, headers: t.headers}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   t.timeout,
	}
}

// SOCKS5 protocol constants.
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthNoAccept = 0xFF
)

// CheckProxy verifies the configured proxy speaks SOCKS5 without
// authentication. It returns ProxyStatusDirect when no proxy is configured.
func (t *Transport) CheckProxy(ctx context.Context) ProxyStatus {
	if t.proxyAddress == "" {
		return ProxyStatusDirect
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	// Greeting: version, one method, "no authentication".
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}

	if resp[0] != socks5Version || resp[1] == socks5AuthNoAccept || resp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

// headerInjectingTransport sets static headers on every request.
type headerInjectingTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (h *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, value := range h.headers {
		clone.Header.Set(key, value)
	}
	return h.base.RoundTrip(clone)
}
