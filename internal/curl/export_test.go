package curl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apicli/internal/compile"
	"github.com/vedsharma/apicli/internal/model"
)

func TestExportGET(t *testing.T) {
	d := model.NewRequestDescriptor().
		WithURL("api.example.com/users").
		WithParams(model.Pairs("page", "2"))

	out, err := Export(d)
	require.NoError(t, err)
	assert.Equal(t, "curl 'https://api.example.com/users?page=2'", out)
}

func TestExportPOSTWithAuthAndBody(t *testing.T) {
	auth := model.NewAuthConfig().WithType(model.AuthBearer)
	auth.Bearer.Token = "tok"
	body := model.NewBodyConfig().WithType(model.BodyJSON)
	body.Raw = `{"name":"O'Brien"}`

	d := model.NewRequestDescriptor().
		WithMethod(model.MethodPost).
		WithURL("https://api.example.com/users").
		WithAuth(auth).
		WithBody(body)

	out, err := Export(d)
	require.NoError(t, err)

	want := strings.Join([]string{
		"curl",
		"-X POST",
		"'https://api.example.com/users'",
		"-H 'Authorization: Bearer tok'",
		"-H 'Content-Type: application/json'",
		`-d '{"name":"O'\''Brien"}'`,
	}, lineJoin)
	assert.Equal(t, want, out)
}

func TestExportFormData(t *testing.T) {
	body := model.NewBodyConfig().WithType(model.BodyFormData)
	body.FormData = model.Pairs("a", "1", "b", "two")

	out, err := Export(model.NewRequestDescriptor().
		WithMethod(model.MethodPost).
		WithURL("https://x.com/upload").
		WithBody(body))
	require.NoError(t, err)
	assert.NotContains(t, out, "Content-Type")
	assert.Contains(t, out, "-F 'a=1'")
	assert.Contains(t, out, "-F 'b=two'")
}

func TestExportRejectsInvalid(t *testing.T) {
	_, err := Export(model.NewRequestDescriptor())
	require.Error(t, err)
}

func TestExportThenParse(t *testing.T) {
	auth := model.NewAuthConfig().WithType(model.AuthAPIKey)
	auth.APIKey = model.APIKeyAuth{Key: "X-Key", Value: "k1", AddTo: model.APIKeyInHeader}
	body := model.NewBodyConfig().WithType(model.BodyJSON)
	body.Raw = `{"a":[1,2]}`

	d := model.NewRequestDescriptor().
		WithMethod(model.MethodPatch).
		WithURL("https://api.example.com/items/7").
		WithParams(model.Pairs("dry", "true")).
		WithHeaders(model.Pairs("Accept", "application/json")).
		WithAuth(auth).
		WithBody(body)

	compiled, err := compile.Compile(d)
	require.NoError(t, err)

	out, err := Export(d)
	require.NoError(t, err)

	imp, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, compiled.Method, imp.Method)
	assert.Equal(t, compiled.URL, imp.URL)
	assert.Equal(t, compiled.Headers, imp.HeaderList())
	assert.Equal(t, string(compiled.BodyBytes()), imp.Data)

	// auth and params come back folded into headers and URL, not as their
	// own sections
	back := imp.Descriptor()
	assert.Equal(t, model.AuthNone, back.Auth.Type)
	assert.False(t, back.Params.HasEffective())
}
