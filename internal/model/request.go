package model

import (
	"strings"
)

// Method is an HTTP method supported by the request builder
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// Methods lists every supported method in menu order
var Methods = []Method{
	MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions,
}

// ParseMethod upper-cases s and reports whether it is a supported method
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, true
		}
	}
	return m, false
}

// AllowsBody reports whether requests with this method may carry a payload
func (m Method) AllowsBody() bool {
	return m != MethodGet && m != MethodHead
}

// RequestDescriptor is everything a user has configured for one request.
//
// It is a value: the With* methods return a modified copy and never share
// list storage with the receiver, so a descriptor captured at some point in
// time cannot be changed by later edits.
type RequestDescriptor struct {
	Method  Method       `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	URL     string       `json:"url" validate:"required"`
	Params  KeyValueList `json:"params"`
	Headers KeyValueList `json:"headers"`
	Auth    AuthConfig   `json:"auth"`
	Body    BodyConfig   `json:"body"`
}

// NewRequestDescriptor returns an empty GET request
func NewRequestDescriptor() RequestDescriptor {
	return RequestDescriptor{
		Method:  MethodGet,
		Params:  NewKeyValueList(),
		Headers: NewKeyValueList(),
		Auth:    NewAuthConfig(),
		Body:    NewBodyConfig(),
	}
}

// Clone returns a deep copy of d
func (d RequestDescriptor) Clone() RequestDescriptor {
	d.Params = d.Params.Clone()
	d.Headers = d.Headers.Clone()
	d.Body = d.Body.Clone()
	return d
}

// Normalize fills defaults on a descriptor decoded from storage or the wire
func (d RequestDescriptor) Normalize() RequestDescriptor {
	d = d.Clone()
	if d.Method == "" {
		d.Method = MethodGet
	} else if m, ok := ParseMethod(string(d.Method)); ok {
		d.Method = m
	}
	if d.Auth.Type == "" {
		d.Auth.Type = AuthNone
	}
	if d.Auth.APIKey.AddTo == "" {
		d.Auth.APIKey.AddTo = APIKeyInHeader
	}
	if d.Body.Type == "" {
		d.Body.Type = BodyNone
	}
	return d
}

func (d RequestDescriptor) WithMethod(m Method) RequestDescriptor {
	d = d.Clone()
	d.Method = m
	return d
}

func (d RequestDescriptor) WithURL(url string) RequestDescriptor {
	d = d.Clone()
	d.URL = url
	return d
}

func (d RequestDescriptor) WithParams(params KeyValueList) RequestDescriptor {
	d = d.Clone()
	d.Params = params.Clone()
	return d
}

func (d RequestDescriptor) WithHeaders(headers KeyValueList) RequestDescriptor {
	d = d.Clone()
	d.Headers = headers.Clone()
	return d
}

func (d RequestDescriptor) WithAuth(auth AuthConfig) RequestDescriptor {
	d = d.Clone()
	d.Auth = auth
	return d
}

func (d RequestDescriptor) WithBody(body BodyConfig) RequestDescriptor {
	d = d.Clone()
	d.Body = body.Clone()
	return d
}
