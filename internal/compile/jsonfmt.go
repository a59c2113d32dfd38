package compile

import (
	"bytes"
	"encoding/json"
)

// FormatJSON pretty-prints raw with two-space indentation. Text that is not
// valid JSON comes back untouched.
func FormatJSON(raw string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return out.String()
}
