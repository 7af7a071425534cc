package retry

import (
	"context"
	"errors"
	"net"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TransientGemini classifies reasoning-backend failures. Retryable: rate
// limiting, server errors, unavailability, timeouts, and aborted
// concurrency conflicts. Auth and malformed-request errors are permanent.
func TransientGemini(err error) bool {
	if err == nil {
		return false
	}
	if timeoutErr(err) {
		return true
	}
	if s, ok := status.FromError(err); ok && s != nil {
		switch s.Code() {
		case codes.ResourceExhausted, // 429 rate limiting
			codes.Internal,         // 500
			codes.Unavailable,      // 503
			codes.DeadlineExceeded, // 504
			codes.Aborted:          // 409 concurrency conflict
			return true
		}
	}
	// The REST transport surfaces googleapi errors instead of gRPC status.
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 429, 500, 503, 504, 409:
			return true
		}
	}
	return false
}

// TransientHTTP classifies storage-backend failures: only server-side
// (5xx) errors and timeouts are retryable.
func TransientHTTP(err error) bool {
	if err == nil {
		return false
	}
	if timeoutErr(err) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code >= 500
	}
	return false
}

func timeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
