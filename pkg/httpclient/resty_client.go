package httpclient

import (
	"context"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient is the Client used in production. The resty client underneath
// owns a pooled net/http transport shared by all calls.
type RestyClient struct {
	rc *resty.Client
}

// NewRestyClient returns a Client whose requests time out after timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{rc: newResty(timeout)}
}

// NewRestyHTTPClient returns a bare resty client with the same settings, for
// callers that need verbs other than GET.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newResty(timeout)
}

// newResty never retries: a failed request is reported once and the caller decides.
func newResty(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
}

// Get fetches url and returns the full body with its status code. Non-2xx
// responses are not errors.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	if _, err := ValidateURL(url); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := r.rc.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, classify(err)
	}
	// *resty.Response already satisfies Response.
	return resp, nil
}

// GetLimited is Get with the body read straight off the wire and cut at limit
// bytes. The rest of the body is never read.
func (r *RestyClient) GetLimited(ctx context.Context, url string, headers map[string]string, limit int64) (Response, error) {
	if _, err := ValidateURL(url); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := r.rc.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, classify(err)
	}
	raw := resp.RawBody()
	if raw == nil {
		return &bufferedResponse{status: resp.StatusCode()}, nil
	}
	defer raw.Close()

	body, err := io.ReadAll(io.LimitReader(raw, limit))
	if err != nil {
		return nil, classify(err)
	}
	return &bufferedResponse{body: body, status: resp.StatusCode()}, nil
}

type bufferedResponse struct {
	body   []byte
	status int
}

func (b *bufferedResponse) Body() []byte    { return b.body }
func (b *bufferedResponse) StatusCode() int { return b.status }
