package hn

import (
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-hn-harvester/pkg/httpclient"
)

// Transport error kinds, re-exported so callers only need this package.
var (
	ErrInvalidURL       = httpclient.ErrInvalidURL
	ErrConnectionFailed = httpclient.ErrConnectionFailed
	ErrProtocol         = httpclient.ErrProtocol
)

// ErrDecode matches every *DecodeError.
var ErrDecode = errors.New("decode error")

// DecodeError reports a body that is not UTF-8, not JSON, or not shaped like Target.
type DecodeError struct {
	Target     string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("decode %s (status %d): %v", e.Target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
