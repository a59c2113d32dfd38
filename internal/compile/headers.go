package compile

import "strings"

// Header is one compiled request header
type Header struct {
	Key   string
	Value string
}

// HeaderList is an ordered header set. Names compare case-insensitively, the
// way net/http treats them, and a later Set for an existing name replaces the
// value in place so the first-seen position is kept.
type HeaderList []Header

func (h HeaderList) index(key string) int {
	for i, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			return i
		}
	}
	return -1
}

// Set adds or replaces a header and returns the updated list
func (h HeaderList) Set(key, value string) HeaderList {
	out := make(HeaderList, len(h), len(h)+1)
	copy(out, h)
	if i := out.index(key); i >= 0 {
		out[i] = Header{Key: key, Value: value}
		return out
	}
	return append(out, Header{Key: key, Value: value})
}

// Del removes every header with the given name
func (h HeaderList) Del(key string) HeaderList {
	out := make(HeaderList, 0, len(h))
	for _, hdr := range h {
		if !strings.EqualFold(hdr.Key, key) {
			out = append(out, hdr)
		}
	}
	return out
}

// Get returns the value of the named header, or ""
func (h HeaderList) Get(key string) string {
	if i := h.index(key); i >= 0 {
		return h[i].Value
	}
	return ""
}

// Has reports whether the named header is present
func (h HeaderList) Has(key string) bool {
	return h.index(key) >= 0
}

// Map converts the list to a map; on duplicate names the last one wins
func (h HeaderList) Map() map[string]string {
	out := make(map[string]string, len(h))
	for _, hdr := range h {
		out[hdr.Key] = hdr.Value
	}
	return out
}
