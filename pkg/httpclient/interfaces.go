package httpclient

import "context"

// Response is a minimal HTTP response contract. The body is always fully read.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
//
// Implementations must reject malformed URLs with ErrInvalidURL before any
// network activity and must be safe for concurrent use.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// LimitedClient is implemented by clients that can stop reading a response body
// after limit bytes, so large pages never sit fully in memory.
type LimitedClient interface {
	GetLimited(ctx context.Context, url string, headers map[string]string, limit int64) (Response, error)
}
