// Package curl converts between cURL command lines and request descriptors.
//
// Export and Parse are deliberately not inverses. Export renders what would
// actually be sent, after params, auth and body have been compiled into the
// URL and headers. Parse only recovers what is literally written in the
// pasted command.
package curl

import (
	"net/url"
	"strings"

	"github.com/vedsharma/apicli/internal/compile"
	"github.com/vedsharma/apicli/internal/model"
)

// Field is one header or form entry as written in the command
type Field struct {
	Key   string
	Value string
}

// Imported is the textual content of a cURL command
type Imported struct {
	Method model.Method
	URL    string
	// Headers keeps command order; a header given twice appears twice
	Headers []Field
	Data    string
	HasData bool
	Form    []Field
	User    string
}

type parseState struct {
	imp            Imported
	methodExplicit bool
	getMode        bool
	// first bare argument, used as the URL when nothing looks like one
	firstBare string
}

// Parse reads a cURL invocation. It fails with *ParseError when the text is
// not a curl command or names no URL.
func Parse(command string) (*Imported, error) {
	tokens, err := splitTokens(command)
	if err != nil {
		return nil, err
	}

	start, ok := findCurl(tokens)
	if !ok {
		return nil, &ParseError{Message: "not a curl command: " + msgNoURL}
	}

	st := &parseState{}
	positionalOnly := false
	for i := start; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case positionalOnly, tok == "-", !strings.HasPrefix(tok, "-"):
			st.positional(tok)
		case tok == "--":
			positionalOnly = true
		case strings.HasPrefix(tok, "--"):
			if err := st.long(tok, tokens, &i); err != nil {
				return nil, err
			}
		default:
			if err := st.short(tok, tokens, &i); err != nil {
				return nil, err
			}
		}
	}

	if st.imp.URL == "" {
		st.imp.URL = st.firstBare
	}
	if strings.TrimSpace(st.imp.URL) == "" {
		return nil, &ParseError{Message: msgNoURL}
	}
	st.finish()
	return &st.imp, nil
}

func findCurl(tokens []string) (int, bool) {
	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		if lower == "curl" || strings.HasSuffix(lower, "/curl") {
			return i + 1, true
		}
		if !commandPrefixes[lower] {
			return 0, false
		}
	}
	return 0, false
}

func nextValue(tokens []string, i *int, flag string) (string, error) {
	*i++
	if *i >= len(tokens) {
		return "", &ParseError{Message: "missing argument for " + flag}
	}
	return tokens[*i], nil
}

func (st *parseState) long(tok string, tokens []string, i *int) error {
	name, val, hasVal := strings.Cut(tok[2:], "=")
	def, ok := options[name]
	if !ok {
		return nil
	}
	if def.kind == optValue && !hasVal {
		v, err := nextValue(tokens, i, tok)
		if err != nil {
			return err
		}
		val = v
	}
	st.apply(def.name, val)
	return nil
}

// short handles bundled short flags such as -sSL or -XPOST
func (st *parseState) short(tok string, tokens []string, i *int) error {
	raw := tok[1:]
	for j := 0; j < len(raw); j++ {
		name, ok := shortOptions[raw[j]]
		if !ok {
			continue
		}
		def := options[name]
		if def.kind == optFlag {
			st.apply(def.name, "")
			continue
		}
		val := strings.TrimPrefix(raw[j+1:], "=")
		if j+1 >= len(raw) {
			v, err := nextValue(tokens, i, "-"+string(raw[j]))
			if err != nil {
				return err
			}
			val = v
		}
		st.apply(def.name, val)
		return nil
	}
	return nil
}

func (st *parseState) positional(tok string) {
	if st.firstBare == "" && tok != "-" && strings.TrimSpace(tok) != "" {
		st.firstBare = tok
	}
	if st.imp.URL == "" && looksLikeURL(tok) {
		st.imp.URL = tok
	}
}

func looksLikeURL(tok string) bool {
	t := strings.TrimSpace(tok)
	if t == "" {
		return false
	}
	return strings.Contains(t, "://") ||
		strings.HasPrefix(strings.ToLower(t), "localhost") ||
		strings.ContainsAny(t, ".:")
}

func (st *parseState) apply(name, val string) {
	imp := &st.imp
	switch name {
	case "request":
		imp.Method = model.Method(strings.ToUpper(strings.TrimSpace(val)))
		st.methodExplicit = true
	case "head":
		imp.Method = model.MethodHead
		st.methodExplicit = true
	case "get":
		st.getMode = true
	case "url":
		imp.URL = val
	case "header":
		if key, value, ok := splitHeader(val); ok {
			imp.Headers = append(imp.Headers, Field{Key: key, Value: value})
		}
	case "user-agent":
		imp.Headers = append(imp.Headers, Field{Key: "User-Agent", Value: val})
	case "referer":
		imp.Headers = append(imp.Headers, Field{Key: "Referer", Value: val})
	case "cookie":
		imp.Headers = append(imp.Headers, Field{Key: "Cookie", Value: val})
	case "data", "data-raw", "data-binary":
		imp.Data, imp.HasData = val, true
	case "data-urlencode":
		imp.Data, imp.HasData = urlEncodeData(val), true
	case "json":
		imp.Data, imp.HasData = val, true
		if !st.hasHeader("Content-Type") {
			imp.Headers = append(imp.Headers, Field{Key: "Content-Type", Value: "application/json"})
		}
		if !st.hasHeader("Accept") {
			imp.Headers = append(imp.Headers, Field{Key: "Accept", Value: "application/json"})
		}
	case "form":
		key, value, _ := strings.Cut(val, "=")
		if strings.TrimSpace(key) != "" {
			imp.Form = append(imp.Form, Field{Key: strings.TrimSpace(key), Value: value})
		}
	case "user":
		imp.User = val
	}
}

func (st *parseState) hasHeader(key string) bool {
	for _, h := range st.imp.Headers {
		if strings.EqualFold(h.Key, key) {
			return true
		}
	}
	return false
}

// splitHeader splits on the first colon and left-trims the value
func splitHeader(raw string) (string, string, bool) {
	key, value, ok := strings.Cut(raw, ":")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", false
	}
	return key, strings.TrimLeft(value, " \t"), true
}

// urlEncodeData follows curl: for name=content only content is encoded
func urlEncodeData(val string) string {
	if name, content, ok := strings.Cut(val, "="); ok {
		if name == "" {
			return url.QueryEscape(content)
		}
		return name + "=" + url.QueryEscape(content)
	}
	return url.QueryEscape(val)
}

func (st *parseState) finish() {
	imp := &st.imp
	if st.getMode && imp.HasData {
		sep := "?"
		if strings.Contains(imp.URL, "?") {
			sep = "&"
		}
		imp.URL += sep + imp.Data
		imp.Data, imp.HasData = "", false
	}

	if st.methodExplicit {
		return
	}
	switch {
	case st.getMode:
		imp.Method = model.MethodGet
	case imp.HasData, len(imp.Form) > 0:
		imp.Method = model.MethodPost
	default:
		imp.Method = model.MethodGet
	}
}

// Descriptor builds a request descriptor from the imported command. A
// Content-Type of application/x-www-form-urlencoded turns the data into
// url-encoded pairs; any other data becomes the raw body.
func (imp *Imported) Descriptor() model.RequestDescriptor {
	d := model.NewRequestDescriptor()
	d.Method = imp.Method
	if m, ok := model.ParseMethod(string(imp.Method)); ok {
		d.Method = m
	}
	d.URL = imp.URL

	headers := model.NewKeyValueList()
	for _, h := range imp.Headers {
		headers = headers.Set(h.Key, h.Value)
	}
	d.Headers = headers

	if imp.User != "" {
		user, pass, _ := strings.Cut(imp.User, ":")
		d.Auth.Basic = model.BasicAuth{Username: user, Password: pass}
		d.Auth = d.Auth.WithType(model.AuthBasic)
	}

	switch {
	case len(imp.Form) > 0:
		form := model.NewKeyValueList()
		for _, f := range imp.Form {
			form = form.Set(f.Key, f.Value)
		}
		d.Body.FormData = form
		d.Body.Type = model.BodyFormData
	case imp.HasData && isFormURLEncoded(imp.headerValue("Content-Type")):
		d.Body.URLEncoded = parseFormPairs(imp.Data)
		d.Body.Type = model.BodyURLEncoded
	case imp.HasData:
		d.Body.Raw = imp.Data
		d.Body.Type = model.BodyJSON
	}
	return d
}

// HeaderList returns the imported headers with later duplicates overriding
// earlier ones, the way they would be sent.
func (imp *Imported) HeaderList() compile.HeaderList {
	var out compile.HeaderList
	for _, h := range imp.Headers {
		out = out.Set(h.Key, h.Value)
	}
	return out
}

func (imp *Imported) headerValue(key string) string {
	return imp.HeaderList().Get(key)
}

func isFormURLEncoded(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "application/x-www-form-urlencoded")
}

func parseFormPairs(data string) model.KeyValueList {
	list := model.NewKeyValueList()
	for _, part := range strings.Split(data, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		list = list.Set(key, value)
	}
	return list
}
