package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyValueListSeedsPlaceholder(t *testing.T) {
	list := NewKeyValueList()
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].ID)
	assert.True(t, list[0].Enabled)
	assert.False(t, list.HasEffective())
}

func TestKeyValueListNeverEmpty(t *testing.T) {
	list := NewKeyValueList()
	list = list.Add()
	require.Len(t, list, 2)

	list = list.Remove(list[1].ID)
	require.Len(t, list, 1)

	placeholder := list[0].ID
	list = list.Remove(placeholder)
	require.Len(t, list, 1)
	assert.NotEqual(t, placeholder, list[0].ID)
	assert.Equal(t, "", list[0].Key)
}

func TestKeyValueListUpdateAndToggle(t *testing.T) {
	list := Pairs("a", "1", "b", "2")
	require.Len(t, list, 2)
	id := list[1].ID

	updated := list.Update(id, FieldKey, "bee").Update(id, FieldValue, "22")
	assert.Equal(t, "bee", updated[1].Key)
	assert.Equal(t, "22", updated[1].Value)
	assert.Equal(t, "b", list[1].Key, "original list must not change")
	assert.Equal(t, id, updated[1].ID, "ids are stable across edits")

	toggled := updated.Toggle(id)
	assert.False(t, toggled[1].Enabled)
	assert.True(t, updated[1].Enabled)

	effective := toggled.Effective()
	require.Len(t, effective, 1)
	assert.Equal(t, "a", effective[0].Key)
}

func TestKeyValueListSetReusesPlaceholder(t *testing.T) {
	list := NewKeyValueList().Set("k", "v")
	require.Len(t, list, 1)
	assert.Equal(t, "k", list[0].Key)

	list = list.Set("k", "w")
	require.Len(t, list, 2, "duplicate keys are kept")
	assert.Equal(t, "w", list[1].Value)
}

func TestIsEffective(t *testing.T) {
	cases := []struct {
		name string
		pair KeyValuePair
		want bool
	}{
		{"enabled with key", KeyValuePair{Key: "a", Enabled: true}, true},
		{"disabled", KeyValuePair{Key: "a"}, false},
		{"blank key", KeyValuePair{Key: "   ", Value: "x", Enabled: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.pair.IsEffective())
		})
	}
}

func TestNormalizeFillsIDs(t *testing.T) {
	var decoded KeyValueList
	list := decoded.Normalize()
	require.Len(t, list, 1)

	list = KeyValueList{{Key: "a", Enabled: true}}.Normalize()
	assert.NotEmpty(t, list[0].ID)
}

func TestRequestDescriptorWithIsCopyOnWrite(t *testing.T) {
	d := NewRequestDescriptor().WithParams(Pairs("q", "1"))
	changed := d.WithParams(d.Params.Update(d.Params[0].ID, FieldValue, "2"))

	assert.Equal(t, "1", d.Params[0].Value)
	assert.Equal(t, "2", changed.Params[0].Value)
}

func TestRequestDescriptorNormalize(t *testing.T) {
	d := RequestDescriptor{Method: "post", URL: "example.com"}.Normalize()
	assert.Equal(t, MethodPost, d.Method)
	assert.Equal(t, AuthNone, d.Auth.Type)
	assert.Equal(t, APIKeyInHeader, d.Auth.APIKey.AddTo)
	assert.Equal(t, BodyNone, d.Body.Type)
	assert.Len(t, d.Headers, 1)
}

func TestAuthWithTypeKeepsCredentials(t *testing.T) {
	auth := NewAuthConfig()
	auth.Bearer.Token = "abc"
	auth = auth.WithType(AuthBearer).WithType(AuthBasic).WithType(AuthBearer)
	assert.Equal(t, "abc", auth.Bearer.Token)
	assert.False(t, auth.IsDefault())
}

func TestAuthIsDefaultWhenActiveVariantBlank(t *testing.T) {
	auth := NewAuthConfig()
	assert.True(t, auth.IsDefault())

	auth.Basic.Username = "admin"
	assert.True(t, auth.WithType(AuthBearer).IsDefault())
	assert.False(t, auth.WithType(AuthBasic).IsDefault())

	auth.Bearer.Token = "  "
	assert.True(t, auth.WithType(AuthBearer).IsDefault())
	assert.True(t, auth.WithType(AuthAPIKey).IsDefault())

	auth.APIKey.Key = "X-API-Key"
	assert.False(t, auth.WithType(AuthAPIKey).IsDefault())
}

func TestMethodAllowsBody(t *testing.T) {
	assert.False(t, MethodGet.AllowsBody())
	assert.False(t, MethodHead.AllowsBody())
	assert.True(t, MethodPost.AllowsBody())
	assert.True(t, MethodOptions.AllowsBody())

	m, ok := ParseMethod(" patch ")
	assert.True(t, ok)
	assert.Equal(t, MethodPatch, m)

	_, ok = ParseMethod("TRACE")
	assert.False(t, ok)
}
