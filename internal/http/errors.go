package http

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"github.com/Laisky/errors/v2"
)

// describeTransportError turns a failed exchange into the message carried by
// a status-0 envelope. Network-level failures are told apart from timeouts
// and everything else.
func describeTransportError(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("Request cancelled: %v", err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Sprintf("Request timed out: %v", err)
	case isNetworkError(err):
		return fmt.Sprintf("Network error (possibly CORS or connection refused): %v", err)
	default:
		return fmt.Sprintf("Request failed: %v", err)
	}
}

func isNetworkError(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET)
}
