package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/spf13/cobra"

	"github.com/vedsharma/apicli/internal/compile"
	"github.com/vedsharma/apicli/internal/format"
	"github.com/vedsharma/apicli/internal/history"
	"github.com/vedsharma/apicli/internal/model"
	"github.com/vedsharma/apicli/internal/storage"
)

// sensitiveHeaders is a list of headers that should be redacted before storing in history
var sensitiveHeaders = map[string]bool{
	// Standard authentication headers
	"authorization":       true,
	"proxy-authorization": true,
	"www-authenticate":    true,

	// Session and token headers
	"cookie":       true,
	"set-cookie":   true,
	"x-api-key":    true,
	"api-key":      true,
	"x-auth-token": true,
	"x-csrf-token": true,
	"x-xsrf-token": true,

	// Cloud credentials
	"x-amz-security-token":     true,
	"x-amz-credential":         true,
	"x-amz-signature":          true,
	"x-goog-iap-jwt-assertion": true,
	"x-ms-token-aad-id-token":  true,

	"x-access-token":  true,
	"x-refresh-token": true,
	"x-session-token": true,
	"x-secret-key":    true,
	"x-private-key":   true,
}

const redacted = "[REDACTED]"

// requestFlags holds the request-building flags shared by send, the method
// shortcuts and curl export
type requestFlags struct {
	method     string
	headers    []string
	params     []string
	data       string
	bodyType   string
	fields     []string
	authType   string
	token      string
	user       string
	apiKey     string
	apiKeyIn   string
	noHistory  bool
	collection string
	name       string
}

var reqFlags requestFlags

func init() {
	sendCmd := &cobra.Command{
		Use:   "send <url>",
		Short: "Build and send a request",
		Long: `Build and send a request.

Examples:
  apicli send https://api.example.com/users -X POST -d '{"name":"John"}'
  apicli send api.example.com/search -q q=go -q page=2 --token $TOKEN
  apicli send https://api.example.com/upload -X POST -f file=a.txt -f kind=doc`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			method, ok := model.ParseMethod(reqFlags.method)
			if !ok {
				exitWithError(fmt.Sprintf("Unsupported method: %s", reqFlags.method))
			}
			runRequest(method)(cmd, args)
		},
	}
	sendCmd.Flags().StringVarP(&reqFlags.method, "request", "X", "GET", "HTTP method")
	addRequestFlags(sendCmd)
	addSendFlags(sendCmd)
	rootCmd.AddCommand(sendCmd)

	for _, method := range model.Methods {
		lower := strings.ToLower(string(method))
		shortcut := &cobra.Command{
			Use:   lower + " <url>",
			Short: fmt.Sprintf("Send a %s request", method),
			Args:  cobra.ExactArgs(1),
			Run:   runRequest(method),
		}
		addRequestFlags(shortcut)
		addSendFlags(shortcut)
		rootCmd.AddCommand(shortcut)
	}
}

// addRequestFlags registers the flags that shape the request itself
func addRequestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVarP(&reqFlags.headers, "header", "H", nil, "Add header 'Key: Value' (repeatable)")
	f.StringArrayVarP(&reqFlags.params, "query", "q", nil, "Add query param key=value (repeatable)")
	f.StringVarP(&reqFlags.data, "data", "d", "", "Request body (raw text or @filename)")
	f.StringVar(&reqFlags.bodyType, "body-type", "", "Body type: json, form-data or url-encoded")
	f.StringArrayVarP(&reqFlags.fields, "field", "f", nil, "Add form field key=value (repeatable)")
	f.StringVar(&reqFlags.authType, "auth", "", "Auth type: none, bearer, basic or api-key")
	f.StringVar(&reqFlags.token, "token", "", "Bearer token")
	f.StringVar(&reqFlags.user, "user", "", "Basic auth credentials user:password")
	f.StringVar(&reqFlags.apiKey, "api-key", "", "API key as name=value")
	f.StringVar(&reqFlags.apiKeyIn, "api-key-in", "header", "Where to send the API key: header or query")
}

// addSendFlags registers the flags that control what happens after sending
func addSendFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&reqFlags.noHistory, "no-history", false, "Don't save to history")
	f.StringVarP(&reqFlags.collection, "collection", "c", "", "Save to collection")
	f.StringVar(&reqFlags.name, "name", "", "Name of the saved request")
}

func runRequest(method model.Method) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		store := openStore("Failed to open storage")
		defer store.Close()

		d, err := buildDescriptor(store, method, args[0], reqFlags)
		if err != nil {
			exitWithError(err.Error())
		}

		env := deliver(store, d, verbose)
		if reqFlags.collection != "" {
			saveRequestToCollection(store, reqFlags.collection, reqFlags.name, d)
		}
		exitIfFailed(env)
	}
}

// deliver sends d, prints the response and records it in history unless
// --no-history is set
func deliver(store *storage.Storage, d model.RequestDescriptor, verbose bool) *model.ResponseEnvelope {
	if !reqFlags.noHistory && d.Body.Active() == model.BodyJSON {
		warnIfSensitiveBody(d.Body.Raw)
	}

	env := sendRequest(d)
	format.PrintEnvelope(env, verbose)

	if !reqFlags.noHistory {
		recordHistory(store, d, env)
	}
	return env
}

// exitIfFailed exits 1 when the request never produced a response
func exitIfFailed(env *model.ResponseEnvelope) {
	if env.IsTransportError() {
		os.Exit(1)
	}
}

// sendRequest validates d and sends it with the configured executor. A
// validation failure exits before anything touches the network.
func sendRequest(d model.RequestDescriptor) *model.ResponseEnvelope {
	env, err := executeRequest(d)
	if err != nil {
		exitWithError(validationMessage(err))
	}
	return env
}

// executeRequest sends d unless it fails validation. Ctrl-C cancels the
// request in flight.
func executeRequest(d model.RequestDescriptor) (*model.ResponseEnvelope, error) {
	if err := compile.Validate(d); err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newExecutor().Execute(ctx, d), nil
}

func validationMessage(err error) string {
	var verr *compile.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return fmt.Sprintf("Invalid request: %v", err)
}

// buildDescriptor turns command-line flags into a request descriptor
func buildDescriptor(store *storage.Storage, method model.Method, rawURL string, flags requestFlags) (model.RequestDescriptor, error) {
	d := model.NewRequestDescriptor().
		WithMethod(method).
		WithURL(resolveAlias(store, rawURL))

	params := d.Params
	for _, raw := range flags.params {
		key, value, _ := strings.Cut(raw, "=")
		params = params.Set(key, value)
	}
	d = d.WithParams(params)

	headers := d.Headers
	for _, raw := range flags.headers {
		key, value, ok := strings.Cut(raw, ":")
		if !ok {
			return d, errors.Errorf("invalid header %q, expected 'Key: Value'", raw)
		}
		headers = headers.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	d = d.WithHeaders(headers)

	auth, err := buildAuth(flags)
	if err != nil {
		return d, err
	}
	d = d.WithAuth(auth)

	body, err := buildBody(flags)
	if err != nil {
		return d, err
	}
	return d.WithBody(body), nil
}

func buildAuth(flags requestFlags) (model.AuthConfig, error) {
	auth := model.NewAuthConfig()
	auth.Bearer.Token = flags.token
	if flags.user != "" {
		auth.Basic.Username, auth.Basic.Password, _ = strings.Cut(flags.user, ":")
	}
	if flags.apiKey != "" {
		auth.APIKey.Key, auth.APIKey.Value, _ = strings.Cut(flags.apiKey, "=")
	}
	auth.APIKey.AddTo = model.APIKeyLocation(strings.ToLower(flags.apiKeyIn))
	if auth.APIKey.AddTo != model.APIKeyInHeader && auth.APIKey.AddTo != model.APIKeyInQuery {
		return auth, errors.Errorf("invalid --api-key-in %q, expected header or query", flags.apiKeyIn)
	}

	authType := model.AuthType(strings.ToLower(flags.authType))
	if authType == "" {
		switch {
		case flags.token != "":
			authType = model.AuthBearer
		case flags.user != "":
			authType = model.AuthBasic
		case flags.apiKey != "":
			authType = model.AuthAPIKey
		default:
			authType = model.AuthNone
		}
	}
	switch authType {
	case model.AuthNone, model.AuthBearer, model.AuthBasic, model.AuthAPIKey:
	default:
		return auth, errors.Errorf("invalid --auth %q", flags.authType)
	}
	return auth.WithType(authType), nil
}

func buildBody(flags requestFlags) (model.BodyConfig, error) {
	body := model.NewBodyConfig()

	raw := flags.data
	if strings.HasPrefix(raw, "@") {
		content, err := readBodyFromFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return body, errors.Wrap(err, "failed to read file")
		}
		raw = content
	}
	body.Raw = raw

	for _, f := range flags.fields {
		key, value, _ := strings.Cut(f, "=")
		body.FormData = body.FormData.Set(key, value)
		body.URLEncoded = body.URLEncoded.Set(key, value)
	}

	bodyType := model.BodyType(strings.ToLower(flags.bodyType))
	if bodyType == "" {
		switch {
		case len(flags.fields) > 0:
			bodyType = model.BodyFormData
		case flags.data != "":
			bodyType = model.BodyJSON
		default:
			bodyType = model.BodyNone
		}
	}
	switch bodyType {
	case model.BodyNone, model.BodyJSON, model.BodyFormData, model.BodyURLEncoded:
	default:
		return body, errors.Errorf("invalid --body-type %q", flags.bodyType)
	}
	return body.WithType(bodyType), nil
}

// recordHistory pushes the sent request onto the persisted history ring.
// Failures are logged as warnings and never interrupt the user.
func recordHistory(store *storage.Storage, d model.RequestDescriptor, env *model.ResponseEnvelope) {
	entry, err := history.NewEntry(redactDescriptor(d), env)
	if err != nil {
		format.PrintWarning(fmt.Sprintf("Failed to record history: %v", err))
		return
	}

	stored, err := store.LoadHistory()
	if err != nil {
		format.PrintWarning(fmt.Sprintf("Failed to record history: %v", err))
		return
	}

	ring := history.NewRing(history.DefaultCapacity)
	ring.Load(stored)
	ring.Push(entry)
	if err := store.SaveHistory(ring.Entries()); err != nil {
		format.PrintWarning(fmt.Sprintf("Failed to record history: %v", err))
	}
}

func saveRequestToCollection(store *storage.Storage, collection, name string, d model.RequestDescriptor) {
	if name == "" {
		name = fmt.Sprintf("%s %s", d.Method, d.URL)
	}
	if _, err := store.SaveRequest(collection, name, redactDescriptor(d)); err != nil {
		format.PrintError(fmt.Sprintf("Failed to save to collection: %v", err))
		return
	}
	format.PrintSuccess(fmt.Sprintf("Saved '%s' to collection '%s'", name, collection))
}

// redactDescriptor returns a copy of d with sensitive header values replaced
func redactDescriptor(d model.RequestDescriptor) model.RequestDescriptor {
	d = d.Clone()
	for i, h := range d.Headers {
		if sensitiveHeaders[strings.ToLower(strings.TrimSpace(h.Key))] {
			d.Headers[i].Value = redacted
		}
	}
	return d
}

// withoutRedactedHeaders disables headers whose stored value was redacted so
// the placeholder is never sent, and returns their names
func withoutRedactedHeaders(d model.RequestDescriptor) (model.RequestDescriptor, []string) {
	var names []string
	for _, h := range d.Headers {
		if h.IsEffective() && h.Value == redacted {
			names = append(names, h.Key)
		}
	}
	if len(names) == 0 {
		return d, nil
	}
	d = d.Clone()
	for i, h := range d.Headers {
		if h.IsEffective() && h.Value == redacted {
			d.Headers[i].Enabled = false
		}
	}
	return d, names
}

// restoreForSend prepares a stored request for sending, warning about
// redacted headers that cannot be replayed
func restoreForSend(d model.RequestDescriptor) model.RequestDescriptor {
	d, names := withoutRedactedHeaders(d)
	if len(names) > 0 {
		format.PrintWarning(fmt.Sprintf("Skipping redacted header(s) %s; pass them again with -H to send them",
			strings.Join(names, ", ")))
	}
	return d
}

// resolveAlias resolves URL aliases to their full URLs.
// If the URL starts with http:// or https://, it's returned as-is.
// Otherwise, it checks if the first path segment is a known alias.
func resolveAlias(store *storage.Storage, url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}

	aliasName, path, _ := strings.Cut(url, "/")

	baseURL, exists, err := store.GetAlias(aliasName)
	if err != nil || !exists {
		return url
	}

	baseURL = strings.TrimSuffix(baseURL, "/")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return baseURL
	}
	return baseURL + "/" + path
}

// readBodyFromFile reads file content with path validation to prevent directory traversal
func readBodyFromFile(filename string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get working directory")
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return "", errors.Wrap(err, "invalid file path")
	}
	cleanPath := filepath.Clean(absPath)

	if !withinDir(cleanPath, wd) {
		return "", errors.New("access denied: file must be within current directory")
	}

	realPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", errors.Wrap(err, "failed to resolve path")
		}
		realPath = cleanPath
	} else if !withinDir(realPath, wd) {
		return "", errors.New("access denied: symlink target must be within current directory")
	}

	content, err := os.ReadFile(realPath)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func withinDir(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// sensitiveBodyPatterns contains patterns that suggest sensitive data in request bodies
var sensitiveBodyPatterns = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"private_key", "privatekey",
	"credit_card", "creditcard", "card_number",
	"ssn", "social_security",
	"access_token", "refresh_token",
	"client_secret", "auth",
}

// warnIfSensitiveBody checks if the request body might contain sensitive data and warns the user
func warnIfSensitiveBody(body string) {
	if body == "" {
		return
	}

	lowerBody := strings.ToLower(body)
	for _, pattern := range sensitiveBodyPatterns {
		if strings.Contains(lowerBody, pattern) {
			format.PrintWarning("Request body may contain sensitive data (e.g. passwords, tokens). It will be stored in history.")
			format.PrintWarning("Use --no-history to skip storing this request.")
			return
		}
	}
}
