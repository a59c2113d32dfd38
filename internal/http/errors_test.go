package http

import (
	"context"
	"net"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/assert"
)

func TestDescribeTransportError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"cancelled", errors.Wrap(context.Canceled, "do"), "Request cancelled"},
		{"deadline", errors.Wrap(context.DeadlineExceeded, "do"), "Request timed out"},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, "Network error"},
		{"dns", &net.DNSError{Err: "no such host", Name: "nope.invalid"}, "Network error"},
		{"other", errors.New("boom"), "Request failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, describeTransportError(tc.err), tc.want)
		})
	}
}
