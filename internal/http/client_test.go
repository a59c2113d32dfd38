package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apicli/internal/model"
)

func TestClientExecute(t *testing.T) {
	var gotMethod, gotQuery, gotAuth, gotCT, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Add("X-Multi", "a")
		w.Header().Add("X-Multi", "b")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	auth := model.NewAuthConfig().WithType(model.AuthBasic)
	auth.Basic = model.BasicAuth{Username: "admin", Password: "secret"}
	body := model.NewBodyConfig().WithType(model.BodyJSON)
	body.Raw = `{"name":"x"}`

	d := model.NewRequestDescriptor().
		WithMethod(model.MethodPost).
		WithURL(srv.URL + "/users?a=1").
		WithParams(model.Pairs("b", "2")).
		WithAuth(auth).
		WithBody(body)

	env := NewClient(5 * time.Second).Execute(context.Background(), d)
	require.Empty(t, env.Error)
	assert.Equal(t, http.StatusCreated, env.Status)
	assert.Equal(t, "Created", env.StatusText)
	assert.Equal(t, `{"id":1}`, env.Body)
	assert.EqualValues(t, 8, env.Size)
	assert.Equal(t, "a, b", env.Headers["X-Multi"])
	assert.GreaterOrEqual(t, env.Timing.End, env.Timing.Start)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "a=1&b=2", gotQuery)
	assert.Equal(t, "Basic YWRtaW46c2VjcmV0", gotAuth)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, `{"name":"x"}`, gotBody)
}

func TestClientHTTPErrorIsNotTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	env := NewClient(5*time.Second).Execute(context.Background(),
		model.NewRequestDescriptor().WithURL(srv.URL))
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.False(t, env.IsTransportError())
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	env := NewClient(5*time.Second).Execute(context.Background(),
		model.NewRequestDescriptor().WithURL(url))
	assert.Equal(t, 0, env.Status)
	assert.True(t, env.IsTransportError())
	assert.Contains(t, env.Error, "Network error")
	assert.NotNil(t, env.Headers)
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	env := NewClient(50*time.Millisecond).Execute(context.Background(),
		model.NewRequestDescriptor().WithURL(srv.URL))
	assert.Equal(t, 0, env.Status)
	assert.Contains(t, env.Error, "timed out")
}

func TestClientCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := NewClient(time.Second).Execute(ctx, model.NewRequestDescriptor().WithURL("http://127.0.0.1:1"))
	assert.Equal(t, 0, env.Status)
	assert.Contains(t, env.Error, "cancelled")
}

func TestClientRejectsBeforeSending(t *testing.T) {
	env := NewClient(time.Second).Execute(context.Background(), model.NewRequestDescriptor())
	assert.True(t, env.IsTransportError())
	assert.Equal(t, "URL is required", env.Error)

	env = NewClient(time.Second).Execute(context.Background(),
		model.NewRequestDescriptor().WithURL("http://169.254.169.254/latest/meta-data"))
	assert.True(t, env.IsTransportError())
	assert.Contains(t, env.Error, "metadata")
}

func TestIsPrivateOrReservedHost(t *testing.T) {
	assert.True(t, isPrivateOrReservedHost("10.0.0.1"))
	assert.True(t, isPrivateOrReservedHost("172.20.1.1"))
	assert.False(t, isPrivateOrReservedHost("172.32.1.1"))
	assert.False(t, isPrivateOrReservedHost("example.com"))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "OK", statusText(&http.Response{StatusCode: 200, Status: "200 OK"}))
	assert.Equal(t, "Not Found", statusText(&http.Response{StatusCode: 404, Status: "404"}))
	assert.Equal(t, "Custom", statusText(&http.Response{StatusCode: 299, Status: "299 Custom"}))
}
