package compile

import (
	"bytes"
	"mime/multipart"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/vedsharma/apicli/internal/model"
)

const (
	headerContentType  = "Content-Type"
	mimeJSON           = "application/json"
	mimeFormURLEncoded = "application/x-www-form-urlencoded"
)

// Payload is a compiled request body
type Payload struct {
	Type model.BodyType
	Data []byte
	// Fields holds the multipart fields for form-data bodies, in order
	Fields []model.KeyValuePair
}

// BuildBody compiles the active body variant and sets Content-Type when the
// user has not set one. GET and HEAD never carry a body, whatever is
// configured. For form-data any explicit Content-Type is dropped in favour of
// the multipart one, which carries the boundary.
func BuildBody(method model.Method, body model.BodyConfig, headers HeaderList) (HeaderList, *Payload, error) {
	if !method.AllowsBody() {
		return headers, nil, nil
	}

	switch body.Active() {
	case model.BodyJSON:
		if body.Raw == "" {
			return headers, nil, nil
		}
		if !headers.Has(headerContentType) {
			headers = headers.Set(headerContentType, mimeJSON)
		}
		return headers, &Payload{Type: model.BodyJSON, Data: []byte(body.Raw)}, nil

	case model.BodyURLEncoded:
		pairs := body.URLEncoded.Effective()
		if len(pairs) == 0 {
			return headers, nil, nil
		}
		parts := make([]string, 0, len(pairs))
		for _, p := range pairs {
			parts = append(parts, encodePair(p.Key, p.Value))
		}
		if !headers.Has(headerContentType) {
			headers = headers.Set(headerContentType, mimeFormURLEncoded)
		}
		return headers, &Payload{Type: model.BodyURLEncoded, Data: []byte(strings.Join(parts, "&"))}, nil

	case model.BodyFormData:
		headers = headers.Del(headerContentType)
		pairs := body.FormData.Effective()
		if len(pairs) == 0 {
			return headers, nil, nil
		}
		data, contentType, err := encodeMultipart(pairs)
		if err != nil {
			return headers, nil, err
		}
		headers = headers.Set(headerContentType, contentType)
		return headers, &Payload{Type: model.BodyFormData, Data: data, Fields: pairs}, nil
	}

	return headers, nil, nil
}

func encodeMultipart(pairs []model.KeyValuePair) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range pairs {
		if err := w.WriteField(strings.TrimSpace(p.Key), p.Value); err != nil {
			return nil, "", errors.Wrapf(err, "write form field %q", p.Key)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
