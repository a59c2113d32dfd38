package http

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Laisky/zap"
	"github.com/go-resty/resty/v2"

	"github.com/vedsharma/apicli/internal/compile"
	"github.com/vedsharma/apicli/internal/logger"
	"github.com/vedsharma/apicli/internal/model"
)

// ProxyPath is the backend endpoint that executes requests on our behalf
const ProxyPath = "/api/v1/proxy/test-request"

// ProxyRequest is the wire shape sent to the proxy. Optional sections are
// omitted entirely when they hold nothing meaningful.
type ProxyRequest struct {
	Method  model.Method      `json:"method"`
	URL     string            `json:"url"`
	Params  map[string]string `json:"params,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Auth    *ProxyAuth        `json:"auth,omitempty"`
	Body    *ProxyBody        `json:"body,omitempty"`
}

// ProxyAuth carries only the active auth variant
type ProxyAuth struct {
	Type     model.AuthType       `json:"type"`
	Token    string               `json:"token,omitempty"`
	Username string               `json:"username,omitempty"`
	Password string               `json:"password,omitempty"`
	Key      string               `json:"key,omitempty"`
	Value    string               `json:"value,omitempty"`
	AddTo    model.APIKeyLocation `json:"addTo,omitempty"`
}

// ProxyBody carries only the active body variant
type ProxyBody struct {
	Type       model.BodyType    `json:"type"`
	Raw        string            `json:"raw,omitempty"`
	FormData   map[string]string `json:"formData,omitempty"`
	URLEncoded map[string]string `json:"urlEncoded,omitempty"`
}

// BuildProxyRequest serializes d into the proxy wire shape
func BuildProxyRequest(d model.RequestDescriptor) ProxyRequest {
	d = d.Normalize()
	req := ProxyRequest{
		Method:  d.Method,
		URL:     compile.NormalizeURL(d.URL),
		Params:  pairMap(d.Params),
		Headers: pairMap(d.Headers),
	}

	if !d.Auth.IsDefault() {
		auth := &ProxyAuth{Type: d.Auth.Active()}
		switch auth.Type {
		case model.AuthBearer:
			auth.Token = d.Auth.Bearer.Token
		case model.AuthBasic:
			auth.Username, auth.Password = d.Auth.Basic.Username, d.Auth.Basic.Password
		case model.AuthAPIKey:
			auth.Key, auth.Value, auth.AddTo = d.Auth.APIKey.Key, d.Auth.APIKey.Value, d.Auth.APIKey.AddTo
		}
		req.Auth = auth
	}

	if d.Method.AllowsBody() && !d.Body.IsDefault() {
		body := &ProxyBody{Type: d.Body.Active()}
		switch body.Type {
		case model.BodyJSON:
			body.Raw = d.Body.Raw
		case model.BodyFormData:
			body.FormData = pairMap(d.Body.FormData)
		case model.BodyURLEncoded:
			body.URLEncoded = pairMap(d.Body.URLEncoded)
		}
		req.Body = body
	}
	return req
}

func pairMap(list model.KeyValueList) map[string]string {
	pairs := list.Effective()
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[strings.TrimSpace(p.Key)] = p.Value
	}
	return out
}

// ProxyClient executes requests through the backend proxy
type ProxyClient struct {
	client *resty.Client
}

// NewProxyClient creates a proxy executor for the API at baseURL. token, when
// set, is sent as a bearer token to the proxy itself.
func NewProxyClient(baseURL, token string, timeout time.Duration) *ProxyClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &ProxyClient{client: client}
}

// Execute hands d to the proxy and maps its answer into an envelope.
// Failures talking to the proxy itself also come back as status 0.
func (p *ProxyClient) Execute(ctx context.Context, d model.RequestDescriptor) *model.ResponseEnvelope {
	start := time.Now()
	if err := compile.Validate(d); err != nil {
		return model.NewTransportErrorEnvelope(start, time.Now(), err.Error())
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(BuildProxyRequest(d)).
		Post(ProxyPath)
	end := time.Now()
	if err != nil {
		return model.NewTransportErrorEnvelope(start, end, "Proxy error: "+describeTransportError(err))
	}

	logger.Logger.Debug("proxy round trip",
		zap.String("url", resp.Request.URL),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", end.Sub(start)))

	if resp.IsError() {
		return model.NewTransportErrorEnvelope(start, end,
			fmt.Sprintf("Proxy error: %s: %s", resp.Status(), snippet(resp.Body())))
	}

	env := &model.ResponseEnvelope{}
	if err := json.Unmarshal(resp.Body(), env); err != nil {
		return model.NewTransportErrorEnvelope(start, end, fmt.Sprintf("Proxy error: invalid response: %v", err))
	}
	if env.Headers == nil {
		env.Headers = map[string]string{}
	}
	if env.Timing == (model.Timing{}) {
		env.Timing = model.NewTiming(start, end)
	}
	if env.Size == 0 && env.Body != "" {
		env.Size = int64(len(env.Body))
	}
	return env
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
