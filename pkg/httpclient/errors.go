package httpclient

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURL reports a URL that cannot be requested. No network call is made.
	ErrInvalidURL = errors.New("invalid url")
	// ErrConnectionFailed covers DNS, TCP, TLS and timeout failures.
	ErrConnectionFailed = errors.New("connection failed")
	// ErrProtocol reports a malformed HTTP response.
	ErrProtocol = errors.New("protocol error")
)

// ValidateURL parses raw and checks it is an absolute http(s) URL with a host.
func ValidateURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty url", ErrInvalidURL)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return nil, fmt.Errorf("%w: %q has no scheme", ErrInvalidURL, raw)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}

	return u, nil
}

// classify maps a transport failure onto ErrProtocol or ErrConnectionFailed,
// keeping the original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrConnectionFailed) || errors.Is(err, ErrProtocol) {
		return err
	}
	if isProtocolFailure(err) {
		return fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
}

// net/http does not export typed errors for bad framing, so the message is the
// only reliable signal.
var protocolMarkers = []string{
	"malformed HTTP",
	"malformed MIME header",
	"invalid Content-Length",
	"unexpected EOF reading trailer",
	"bad chunk",
	"invalid byte in chunk length",
}

func isProtocolFailure(err error) bool {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	msg := err.Error()
	for _, m := range protocolMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
