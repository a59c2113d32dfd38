package compile

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/go-playground/validator/v10"

	"github.com/vedsharma/apicli/internal/model"
)

var validate = validator.New()

// ValidationError rejects a descriptor before anything is compiled or sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks that d can be compiled: a URL is present and parses, and
// every enum field holds a known value.
func Validate(d model.RequestDescriptor) error {
	if strings.TrimSpace(d.URL) == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	if err := validate.Struct(d.Normalize()); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ValidationError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("invalid %s: %q", strings.TrimPrefix(fe.Namespace(), "RequestDescriptor."), fmt.Sprint(fe.Value())),
			}
		}
		return errors.Wrap(err, "validate request")
	}

	parsed, err := url.Parse(NormalizeURL(d.URL))
	if err != nil {
		return &ValidationError{Field: "url", Message: fmt.Sprintf("invalid URL: %v", err)}
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("unsupported URL scheme: %s (only http and https are allowed)", parsed.Scheme),
		}
	}
	if parsed.Hostname() == "" {
		return &ValidationError{Field: "url", Message: "URL must have a hostname"}
	}
	return nil
}
