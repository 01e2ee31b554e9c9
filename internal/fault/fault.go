package fault

import (
	"context"
	"errors"
	"net"
)

// Kind classifies a failure so callers can surface it without inspecting
// provider- or transport-specific error types.
type Kind string

const (
	Transport        Kind = "transport"
	Auth             Kind = "auth"
	Parse            Kind = "parse"
	UnsupportedInput Kind = "unsupported_input"
	Timeout          Kind = "timeout"
)

// Classify maps an arbitrary error onto a Kind. Deadline and net timeouts
// become Timeout; everything else defaults to Transport.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Timeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Timeout
	}
	return Transport
}
