package model

import "time"

// Timing holds wall-clock bounds of one execution in unix milliseconds
type Timing struct {
	Start    int64 `json:"start"`
	End      int64 `json:"end"`
	Duration int64 `json:"duration"`
}

// NewTiming converts a start/end pair into a Timing
func NewTiming(start, end time.Time) Timing {
	return Timing{
		Start:    start.UnixMilli(),
		End:      end.UnixMilli(),
		Duration: end.Sub(start).Milliseconds(),
	}
}

// ResponseEnvelope is the normalized result of executing a request, whatever
// the execution mode. Status 0 with a non-empty Error is a transport failure
// (network, CORS, timeout), as opposed to an HTTP error status.
type ResponseEnvelope struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	Size       int64             `json:"size"`
	Timing     Timing            `json:"timing"`
	Error      string            `json:"error,omitempty"`
}

// NewTransportErrorEnvelope builds the status-0 envelope for a failed exchange
func NewTransportErrorEnvelope(start, end time.Time, msg string) *ResponseEnvelope {
	return &ResponseEnvelope{
		Headers: map[string]string{},
		Timing:  NewTiming(start, end),
		Error:   msg,
	}
}

// IsTransportError reports whether no HTTP response was received
func (r *ResponseEnvelope) IsTransportError() bool {
	return r.Status == 0 && r.Error != ""
}

// Duration returns the measured round trip
func (r *ResponseEnvelope) Duration() time.Duration {
	return time.Duration(r.Timing.Duration) * time.Millisecond
}
