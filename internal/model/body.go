package model

// BodyType selects the active variant of a BodyConfig
type BodyType string

const (
	BodyNone       BodyType = "none"
	BodyJSON       BodyType = "json"
	BodyFormData   BodyType = "form-data"
	BodyURLEncoded BodyType = "url-encoded"
)

// BodyConfig is a tagged union over request payload kinds. Like AuthConfig it
// holds the payload of every variant at once so switching Type never throws
// away what was typed into another variant. Raw may be any text; it is not
// required to be valid JSON even when Type is BodyJSON.
type BodyConfig struct {
	Type       BodyType     `json:"type" validate:"omitempty,oneof=none json form-data url-encoded"`
	Raw        string       `json:"raw"`
	FormData   KeyValueList `json:"formData"`
	URLEncoded KeyValueList `json:"urlEncoded"`
}

// NewBodyConfig returns a config with no body
func NewBodyConfig() BodyConfig {
	return BodyConfig{
		Type:       BodyNone,
		FormData:   NewKeyValueList(),
		URLEncoded: NewKeyValueList(),
	}
}

// Active returns Type, treating the zero value as BodyNone
func (b BodyConfig) Active() BodyType {
	if b.Type == "" {
		return BodyNone
	}
	return b.Type
}

// WithType switches the active variant, keeping every stored payload
func (b BodyConfig) WithType(t BodyType) BodyConfig {
	b = b.Clone()
	b.Type = t
	return b
}

// Clone returns a copy with its own form lists
func (b BodyConfig) Clone() BodyConfig {
	b.FormData = b.FormData.Clone()
	b.URLEncoded = b.URLEncoded.Clone()
	return b
}

// IsDefault reports whether the active variant carries nothing worth sending
func (b BodyConfig) IsDefault() bool {
	switch b.Active() {
	case BodyJSON:
		return b.Raw == ""
	case BodyFormData:
		return !b.FormData.HasEffective()
	case BodyURLEncoded:
		return !b.URLEncoded.HasEffective()
	default:
		return true
	}
}
