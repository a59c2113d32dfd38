package compile

import (
	"strings"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apicli/internal/model"
)

func descriptor(method model.Method, url string) model.RequestDescriptor {
	return model.NewRequestDescriptor().WithMethod(method).WithURL(url)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com", NormalizeURL("  api.example.com "))
	assert.Equal(t, "http://localhost:8080", NormalizeURL("http://localhost:8080"))
	assert.Equal(t, "", NormalizeURL("   "))
}

func TestBuildFullURLMergesQuery(t *testing.T) {
	params := model.Pairs("b", "2")
	assert.Equal(t, "https://api.x.com/v1/users?a=1&b=2",
		BuildFullURL("https://api.x.com/v1/users?a=1", params))

	assert.Equal(t, "https://api.x.com/?b=2", BuildFullURL("https://api.x.com/?", params))
	assert.Equal(t, "https://api.x.com/p?b=2#frag", BuildFullURL("api.x.com/p#frag", params))
}

func TestBuildQueryStringSkipsIneffective(t *testing.T) {
	params := model.Pairs("q", "a b", "", "ignored", "x", "&")
	params = params.Toggle(params[2].ID)
	assert.Equal(t, "q=a+b", BuildQueryString(params))

	assert.Equal(t, "", BuildQueryString(model.NewKeyValueList()))
	assert.Equal(t, "https://x.com", BuildFullURL("https://x.com", model.NewKeyValueList()))
}

func TestCompileGETDropsBody(t *testing.T) {
	body := model.NewBodyConfig().WithType(model.BodyJSON)
	body.Raw = `{"a":1}`

	for _, m := range []model.Method{model.MethodGet, model.MethodHead} {
		c, err := Compile(descriptor(m, "https://x.com").WithBody(body))
		require.NoError(t, err)
		assert.Nil(t, c.Body)
		assert.False(t, c.Headers.Has("Content-Type"))
	}

	c, err := Compile(descriptor(model.MethodPost, "https://x.com").WithBody(body))
	require.NoError(t, err)
	require.NotNil(t, c.Body)
	assert.Equal(t, `{"a":1}`, string(c.Body.Data))
	assert.Equal(t, "application/json", c.Headers.Get("content-type"))
}

func TestCompileJSONKeepsExplicitContentType(t *testing.T) {
	body := model.NewBodyConfig().WithType(model.BodyJSON)
	body.Raw = "not json at all"

	d := descriptor(model.MethodPut, "https://x.com").
		WithHeaders(model.Pairs("content-type", "text/plain")).
		WithBody(body)
	c, err := Compile(d)
	require.NoError(t, err)
	require.Len(t, c.Headers, 1)
	assert.Equal(t, "text/plain", c.Headers.Get("Content-Type"))
	assert.Equal(t, "not json at all", string(c.BodyBytes()))
}

func TestCompileAuthExclusivity(t *testing.T) {
	auth := model.NewAuthConfig()
	auth.Bearer.Token = "tok"
	auth.Basic = model.BasicAuth{Username: "admin", Password: "secret"}
	auth.APIKey = model.APIKeyAuth{Key: "X-Key", Value: "k", AddTo: model.APIKeyInHeader}

	cases := []struct {
		typ     model.AuthType
		wantHdr map[string]string
	}{
		{model.AuthNone, map[string]string{}},
		{model.AuthBearer, map[string]string{"Authorization": "Bearer tok"}},
		{model.AuthBasic, map[string]string{"Authorization": "Basic YWRtaW46c2VjcmV0"}},
		{model.AuthAPIKey, map[string]string{"X-Key": "k"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			c, err := Compile(descriptor(model.MethodGet, "https://x.com").WithAuth(auth.WithType(tc.typ)))
			require.NoError(t, err)
			assert.Equal(t, tc.wantHdr, c.Headers.Map())
			assert.Equal(t, "https://x.com", c.URL)
		})
	}
}

func TestCompileAPIKeyInQuery(t *testing.T) {
	auth := model.NewAuthConfig().WithType(model.AuthAPIKey)
	auth.APIKey = model.APIKeyAuth{Key: "api_key", Value: "s3cr3t", AddTo: model.APIKeyInQuery}

	c, err := Compile(descriptor(model.MethodGet, "https://x.com/p").
		WithParams(model.Pairs("a", "1")).
		WithAuth(auth))
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/p?a=1&api_key=s3cr3t", c.URL)
	assert.Empty(t, c.Headers)
}

func TestCompileAuthOverridesManualHeader(t *testing.T) {
	auth := model.NewAuthConfig().WithType(model.AuthBearer)
	auth.Bearer.Token = "new"

	c, err := Compile(descriptor(model.MethodGet, "https://x.com").
		WithHeaders(model.Pairs("authorization", "Bearer old", "Accept", "*/*")).
		WithAuth(auth))
	require.NoError(t, err)
	require.Len(t, c.Headers, 2)
	assert.Equal(t, "Bearer new", c.Headers[0].Value)
	assert.Equal(t, "Accept", c.Headers[1].Key)
}

func TestBasicAuthValue(t *testing.T) {
	assert.Equal(t, "Basic YWRtaW46c2VjcmV0", BasicAuthValue("admin", "secret"))
}

func TestCompileFormDataReplacesContentType(t *testing.T) {
	body := model.NewBodyConfig().WithType(model.BodyFormData)
	body.FormData = model.Pairs("name", "gopher", "kind", "mascot")

	c, err := Compile(descriptor(model.MethodPost, "https://x.com").
		WithHeaders(model.Pairs("Content-Type", "application/json")).
		WithBody(body))
	require.NoError(t, err)
	require.NotNil(t, c.Body)

	ct := c.Headers.Get("Content-Type")
	assert.True(t, strings.HasPrefix(ct, "multipart/form-data; boundary="), ct)
	assert.Len(t, c.Body.Fields, 2)
	assert.Contains(t, string(c.Body.Data), `name="name"`)
	assert.Contains(t, string(c.Body.Data), "gopher")
}

func TestCompileURLEncoded(t *testing.T) {
	body := model.NewBodyConfig().WithType(model.BodyURLEncoded)
	body.URLEncoded = model.Pairs("a", "1 2", "b", "&")

	c, err := Compile(descriptor(model.MethodPost, "https://x.com").WithBody(body))
	require.NoError(t, err)
	assert.Equal(t, "a=1+2&b=%26", string(c.BodyBytes()))
	assert.Equal(t, "application/x-www-form-urlencoded", c.Headers.Get("Content-Type"))
}

func TestCompileEmptyBodies(t *testing.T) {
	for _, typ := range []model.BodyType{model.BodyJSON, model.BodyURLEncoded, model.BodyFormData, model.BodyNone} {
		c, err := Compile(descriptor(model.MethodPost, "https://x.com").
			WithBody(model.NewBodyConfig().WithType(typ)))
		require.NoError(t, err)
		assert.Nil(t, c.Body, typ)
		assert.False(t, c.Headers.Has("Content-Type"), typ)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		d       model.RequestDescriptor
		wantErr string
	}{
		{"empty url", descriptor(model.MethodGet, "  "), "URL is required"},
		{"bad scheme", descriptor(model.MethodGet, "ftp://x.com"), "unsupported URL scheme"},
		{"no host", descriptor(model.MethodGet, "https://"), "hostname"},
		{"bad method", descriptor("TRACE", "https://x.com"), "invalid Method"},
		{"ok lowercase method", descriptor("post", "x.com"), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.d)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Message, tc.wantErr)
		})
	}
}

func TestCompileRejectsInvalid(t *testing.T) {
	_, err := Compile(descriptor(model.MethodGet, ""))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "url", verr.Field)
}

func TestFormatJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ]\n}", FormatJSON(`{"a":[1,2]}`))
	assert.Equal(t, "{not json", FormatJSON("{not json"))
	assert.Equal(t, "", FormatJSON(""))
}

func TestHeaderList(t *testing.T) {
	var h HeaderList
	h = h.Set("X-A", "1").Set("X-B", "2").Set("x-a", "3")
	require.Len(t, h, 2)
	assert.Equal(t, "3", h.Get("X-A"))
	assert.Equal(t, "x-a", h[0].Key)

	h = h.Del("X-A")
	assert.False(t, h.Has("x-a"))
	assert.Equal(t, map[string]string{"X-B": "2"}, h.Map())
}
