package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/vedsharma/apicli/internal/compile"
	"github.com/vedsharma/apicli/internal/logger"
	"github.com/vedsharma/apicli/internal/model"
)

const (
	// MaxResponseSize limits response body to 50MB to prevent memory exhaustion
	MaxResponseSize = 50 * 1024 * 1024

	// Default timeout for HTTP requests
	DefaultTimeout = 30 * time.Second
)

// Executor sends a request and reports the outcome as an envelope. It never
// returns an error: transport failures come back as a status-0 envelope.
type Executor interface {
	Execute(ctx context.Context, d model.RequestDescriptor) *model.ResponseEnvelope
}

// Client executes requests directly from this process
type Client struct {
	client *http.Client
}

// NewClient creates a direct executor. A timeout of 0 disables the limit.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Execute compiles d and sends it
func (c *Client) Execute(ctx context.Context, d model.RequestDescriptor) *model.ResponseEnvelope {
	start := time.Now()
	compiled, err := compile.Compile(d)
	if err != nil {
		return model.NewTransportErrorEnvelope(start, time.Now(), err.Error())
	}
	return c.Do(ctx, compiled)
}

// Do sends an already compiled request
func (c *Client) Do(ctx context.Context, compiled *compile.Compiled) *model.ResponseEnvelope {
	start := time.Now()

	// Validate URL and check for SSRF risks
	if err := checkTarget(compiled.URL); err != nil {
		return model.NewTransportErrorEnvelope(start, time.Now(), err.Error())
	}

	var bodyReader io.Reader
	if data := compiled.BodyBytes(); data != nil {
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, string(compiled.Method), compiled.URL, bodyReader)
	if err != nil {
		return model.NewTransportErrorEnvelope(start, time.Now(), fmt.Sprintf("Request failed: %v", err))
	}
	for _, h := range compiled.Headers {
		req.Header.Set(h.Key, h.Value)
	}

	logger.Logger.Debug("sending request",
		zap.String("method", string(compiled.Method)),
		zap.String("url", compiled.URL),
		zap.Int("headers", len(compiled.Headers)),
		zap.Int("body_bytes", len(compiled.BodyBytes())))

	resp, err := c.client.Do(req)
	if err != nil {
		return model.NewTransportErrorEnvelope(start, time.Now(), describeTransportError(err))
	}
	defer resp.Body.Close()

	// Read response body with size limit to prevent memory exhaustion
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	end := time.Now()
	if err != nil {
		return model.NewTransportErrorEnvelope(start, end, describeTransportError(err))
	}
	if int64(len(respBody)) > MaxResponseSize {
		respBody = respBody[:MaxResponseSize]
		logger.Logger.Warn("response body truncated", zap.Int("limit_bytes", MaxResponseSize))
	}

	return &model.ResponseEnvelope{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    flattenHeaders(resp.Header),
		Body:       string(respBody),
		Size:       int64(len(respBody)),
		Timing:     model.NewTiming(start, end),
	}
}

// statusText strips the numeric code from resp.Status ("200 OK" -> "OK")
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

// flattenHeaders joins repeated values with ", "
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		out[key] = strings.Join(values, ", ")
	}
	return out
}

// checkTarget blocks cloud metadata endpoints and warns about plain HTTP and
// private addresses
func checkTarget(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(err, "invalid URL")
	}

	if strings.EqualFold(parsed.Scheme, "http") {
		logger.Logger.Warn("using insecure HTTP connection, data will be transmitted unencrypted",
			zap.String("host", parsed.Host))
	}

	hostname := parsed.Hostname()
	lowerHost := strings.ToLower(hostname)
	if lowerHost == "localhost" || lowerHost == "127.0.0.1" || lowerHost == "::1" {
		logger.Logger.Debug("request to loopback address", zap.String("host", hostname))
	}
	if isPrivateOrReservedHost(hostname) {
		logger.Logger.Warn("request to private/internal IP address", zap.String("host", hostname))
	}

	// Block common cloud metadata endpoints (SSRF targets)
	if isCloudMetadataEndpoint(hostname) {
		return errors.Errorf("blocked request to cloud metadata endpoint: %s", hostname)
	}
	return nil
}

// isPrivateOrReservedHost checks if the hostname is a private or reserved IP
func isPrivateOrReservedHost(hostname string) bool {
	privatePatterns := []string{
		"10.",      // 10.0.0.0/8
		"192.168.", // 192.168.0.0/16
		"172.16.", "172.17.", "172.18.", "172.19.", // 172.16.0.0/12
		"172.20.", "172.21.", "172.22.", "172.23.",
		"172.24.", "172.25.", "172.26.", "172.27.",
		"172.28.", "172.29.", "172.30.", "172.31.",
		"0.",       // 0.0.0.0/8
		"169.254.", // Link-local
	}

	for _, pattern := range privatePatterns {
		if strings.HasPrefix(hostname, pattern) {
			return true
		}
	}
	return false
}

func isCloudMetadataEndpoint(hostname string) bool {
	metadataHosts := map[string]bool{
		"169.254.169.254":          true, // AWS, GCP, Azure metadata
		"metadata.google.internal": true, // GCP metadata
		"metadata.goog":            true,
		"100.100.100.200":          true, // Alibaba Cloud metadata
		"169.254.170.2":            true, // AWS ECS task metadata
	}
	return metadataHosts[strings.ToLower(hostname)]
}
