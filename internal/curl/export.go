package curl

import (
	"strings"

	"github.com/vedsharma/apicli/internal/compile"
	"github.com/vedsharma/apicli/internal/model"
)

const lineJoin = " \\\n  "

// Export compiles d and renders it as a multi-line cURL command
func Export(d model.RequestDescriptor) (string, error) {
	c, err := compile.Compile(d)
	if err != nil {
		return "", err
	}
	return Render(c), nil
}

// Render writes an already compiled request as a cURL command. GET is
// curl's default so no -X is written for it. Form-data bodies become -F
// fields and the compiled multipart Content-Type is left out, since curl
// generates its own boundary.
func Render(c *compile.Compiled) string {
	parts := []string{"curl"}
	if c.Method != model.MethodGet {
		parts = append(parts, "-X "+string(c.Method))
	}
	parts = append(parts, shellQuote(c.URL))

	isForm := c.Body != nil && c.Body.Type == model.BodyFormData
	for _, h := range c.Headers {
		if isForm && strings.EqualFold(h.Key, "Content-Type") {
			continue
		}
		parts = append(parts, "-H "+shellQuote(h.Key+": "+h.Value))
	}

	if c.Body != nil {
		if isForm {
			for _, f := range c.Body.Fields {
				parts = append(parts, "-F "+shellQuote(strings.TrimSpace(f.Key)+"="+f.Value))
			}
		} else {
			parts = append(parts, "-d "+shellQuote(string(c.Body.Data)))
		}
	}

	return strings.Join(parts, lineJoin)
}

// shellQuote wraps s in single quotes, escaping embedded single quotes
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
