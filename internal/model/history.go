package model

import "time"

// HistoryEntry is an immutable record of one sent request
type HistoryEntry struct {
	ID        string            `json:"id"`
	Method    Method            `json:"method"`
	URL       string            `json:"url"`
	Status    int               `json:"status"`
	Duration  int64             `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
	Error     string            `json:"error,omitempty"`
	Request   RequestDescriptor `json:"request"`
}
