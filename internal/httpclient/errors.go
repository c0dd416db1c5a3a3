package httpclient

import "errors"

// Proxy errors.
//
// Design decision: We define specific errors rather than wrapping all failures
// generically so callers can tell a typo in the configuration from a proxy
// that is simply not running.
var (
	// ErrInvalidProxy is returned when the proxy URL cannot be parsed or lacks
	// a host and port.
	ErrInvalidProxy = errors.New("invalid proxy URL: expected scheme://host:port")

	// ErrUnsupportedProxyScheme is returned for proxy schemes other than
	// socks5, socks5h, http and https.
	ErrUnsupportedProxyScheme = errors.New("unsupported proxy scheme")

	// ErrProxyNotSOCKS5 is returned when the proxy answers but does not speak
	// SOCKS5.
	ErrProxyNotSOCKS5 = errors.New("proxy is not a SOCKS5 proxy")

	// ErrProxyCannotConnect is returned when no TCP connection to the proxy
	// could be established.
	ErrProxyCannotConnect = errors.New("cannot connect to proxy")

	// ErrProxyTimeout is returned when the proxy check timed out.
	ErrProxyTimeout = errors.New("timeout connecting to proxy")
)

// ProxyStatus represents the result of checking the proxy.
type ProxyStatus int

const (
	// ProxyStatusOK indicates the proxy accepted a CONNECT request.
	ProxyStatusOK ProxyStatus = iota

	// ProxyStatusWrongType indicates the proxy answered with something other
	// than SOCKS5.
	ProxyStatusWrongType

	// ProxyStatusCannotConnect indicates no connection could be established.
	ProxyStatusCannotConnect

	// ProxyStatusTimeout indicates the check timed out.
	ProxyStatusTimeout
)

// String returns a human-readable description of the proxy status.
func (s ProxyStatus) String() string {
	switch s {
	case ProxyStatusOK:
		return "OK"
	case ProxyStatusWrongType:
		return "wrong type (not SOCKS5)"
	case ProxyStatusCannotConnect:
		return "cannot connect"
	case ProxyStatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Err returns the error for this status, or nil if OK.
func (s ProxyStatus) Err() error {
	switch s {
	case ProxyStatusOK:
		return nil
	case ProxyStatusWrongType:
		return ErrProxyNotSOCKS5
	case ProxyStatusCannotConnect:
		return ErrProxyCannotConnect
	case ProxyStatusTimeout:
		return ErrProxyTimeout
	default:
		return errors.New("unknown proxy status")
	}
}
