package registry

import (
	"context"
	"net"

	"github.com/pkg/errors"
)

var (
	ErrTimeout           = errors.New("registry request timed out")
	ErrUnauthorized      = errors.New("registry denied anonymous access")
	ErrNotFound          = errors.New("manifest unknown to registry")
	ErrUnexpectedStatus  = errors.New("unexpected registry response status")
	ErrMalformedResponse = errors.New("malformed registry response")
	ErrNoDigest          = errors.New("registry response carried no digest")
	ErrInvalidDigest     = errors.New("registry returned an invalid digest")
	ErrNoTags            = errors.New("registry response carried no tags")
	ErrInvalidChallenge  = errors.New("challenge header is missing realm or service")
)

// requestError maps transport failures onto ErrTimeout where applicable so
// callers can tell a slow registry from an unreachable one.
func requestError(err error, format string, args ...interface{}) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Wrapf(ErrTimeout, format+": %s", append(args, err)...)
	}

	return errors.Wrapf(err, format, args...)
}
