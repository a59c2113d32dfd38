package model

import "strings"

// AuthType selects the active variant of an AuthConfig
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthAPIKey AuthType = "api-key"
)

// APIKeyLocation says where an API key is injected
type APIKeyLocation string

const (
	APIKeyInHeader APIKeyLocation = "header"
	APIKeyInQuery  APIKeyLocation = "query"
)

type BearerAuth struct {
	Token string `json:"token"`
}

type BasicAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type APIKeyAuth struct {
	Key   string         `json:"key"`
	Value string         `json:"value"`
	AddTo APIKeyLocation `json:"addTo" validate:"omitempty,oneof=header query"`
}

// AuthConfig is a tagged union over the supported auth schemes.
//
// Every variant struct is always present, not just the active one, so that
// switching Type back and forth keeps the credentials a user already entered.
// Only the variant selected by Type has any effect on a compiled request.
type AuthConfig struct {
	Type   AuthType   `json:"type" validate:"omitempty,oneof=none bearer basic api-key"`
	Bearer BearerAuth `json:"bearer"`
	Basic  BasicAuth  `json:"basic"`
	APIKey APIKeyAuth `json:"apiKey"`
}

// NewAuthConfig returns a config with no active auth
func NewAuthConfig() AuthConfig {
	return AuthConfig{
		Type:   AuthNone,
		APIKey: APIKeyAuth{AddTo: APIKeyInHeader},
	}
}

// Active returns Type, treating the zero value as AuthNone
func (a AuthConfig) Active() AuthType {
	if a.Type == "" {
		return AuthNone
	}
	return a.Type
}

// WithType switches the active variant, keeping all stored credentials
func (a AuthConfig) WithType(t AuthType) AuthConfig {
	a.Type = t
	return a
}

// IsDefault reports whether the config has no effect on a request. An active
// variant with a blank token, username or key contributes nothing.
func (a AuthConfig) IsDefault() bool {
	switch a.Active() {
	case AuthBearer:
		return strings.TrimSpace(a.Bearer.Token) == ""
	case AuthBasic:
		return strings.TrimSpace(a.Basic.Username) == ""
	case AuthAPIKey:
		return strings.TrimSpace(a.APIKey.Key) == ""
	}
	return true
}
