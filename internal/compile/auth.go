package compile

import (
	"encoding/base64"
	"strings"

	"github.com/vedsharma/apicli/internal/model"
)

const headerAuthorization = "Authorization"

// ApplyAuth adds whatever the active auth variant contributes: a header, or
// for query API keys an extra query pair on fullURL. fullURL must already
// carry the params query string. Inactive variants are ignored entirely.
func ApplyAuth(auth model.AuthConfig, headers HeaderList, fullURL string) (HeaderList, string) {
	switch auth.Active() {
	case model.AuthBearer:
		token := strings.TrimSpace(auth.Bearer.Token)
		if token != "" {
			headers = headers.Set(headerAuthorization, "Bearer "+token)
		}
	case model.AuthBasic:
		if strings.TrimSpace(auth.Basic.Username) != "" {
			headers = headers.Set(headerAuthorization, BasicAuthValue(auth.Basic.Username, auth.Basic.Password))
		}
	case model.AuthAPIKey:
		key := strings.TrimSpace(auth.APIKey.Key)
		if key == "" {
			break
		}
		if auth.APIKey.AddTo == model.APIKeyInQuery {
			fullURL = appendQuery(fullURL, encodePair(key, auth.APIKey.Value))
		} else {
			headers = headers.Set(key, auth.APIKey.Value)
		}
	}
	return headers, fullURL
}

// BasicAuthValue renders an Authorization header value for basic auth
func BasicAuthValue(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
