// Package compile turns a RequestDescriptor into the concrete URL, headers
// and body that go on the wire. Everything here is pure.
package compile

import (
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/vedsharma/apicli/internal/model"
)

// Compiled is a fully resolved request
type Compiled struct {
	Method  model.Method
	URL     string
	Headers HeaderList
	Body    *Payload
}

// Compile validates d and resolves it in order: URL and params, headers,
// auth, then body.
func Compile(d model.RequestDescriptor) (*Compiled, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}

	d = d.Normalize()
	fullURL := BuildFullURL(d.URL, d.Params)

	headers := BuildHeaders(d.Headers)
	headers, fullURL = ApplyAuth(d.Auth, headers, fullURL)

	headers, payload, err := BuildBody(d.Method, d.Body, headers)
	if err != nil {
		return nil, errors.Wrap(err, "build body")
	}

	return &Compiled{
		Method:  d.Method,
		URL:     fullURL,
		Headers: headers,
		Body:    payload,
	}, nil
}

// BuildHeaders collects the effective header pairs in order
func BuildHeaders(pairs model.KeyValueList) HeaderList {
	var headers HeaderList
	for _, p := range pairs.Effective() {
		headers = headers.Set(strings.TrimSpace(p.Key), p.Value)
	}
	return headers
}

// BodyBytes returns the payload bytes or nil
func (c *Compiled) BodyBytes() []byte {
	if c.Body == nil {
		return nil
	}
	return c.Body.Data
}
