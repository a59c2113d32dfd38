package format

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/vedsharma/apicli/internal/compile"
	"github.com/vedsharma/apicli/internal/model"
)

// Output is where tables are rendered; tests swap it for a buffer
var Output io.Writer = os.Stdout

// sanitizeOutput removes or escapes potentially dangerous control characters
// that could manipulate terminal display or execute commands
func sanitizeOutput(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			result.WriteRune(r)
		case r == '\x1b':
			result.WriteString("\\x1b")
		case unicode.IsControl(r) && r < 0x20:
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		case r == 0x7F:
			result.WriteString("\\x7f")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

var (
	successColor   = color.New(color.FgGreen, color.Bold)
	redirectColor  = color.New(color.FgYellow, color.Bold)
	clientErrColor = color.New(color.FgRed, color.Bold)
	serverErrColor = color.New(color.FgRed, color.Bold, color.BgWhite)
	headerKeyColor = color.New(color.FgCyan)
	methodColor    = color.New(color.FgMagenta, color.Bold)
	urlColor       = color.New(color.FgBlue)
	dimColor       = color.New(color.Faint)
)

func getStatusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return successColor
	case code >= 300 && code < 400:
		return redirectColor
	case code >= 400 && code < 500:
		return clientErrColor
	default:
		return serverErrColor
	}
}

// PrintEnvelope prints a response envelope. A transport failure prints the
// error line only.
func PrintEnvelope(env *model.ResponseEnvelope, showHeaders bool) {
	if env.IsTransportError() {
		PrintError(sanitizeOutput(env.Error))
		dimColor.Printf("  Time: %dms\n", env.Timing.Duration)
		return
	}

	getStatusColor(env.Status).Printf("%d %s\n", env.Status, sanitizeOutput(env.StatusText))
	dimColor.Printf("  Time: %dms  Size: %s\n\n", env.Timing.Duration, HumanSize(env.Size))

	if showHeaders {
		printHeaders(env.Headers)
	}
	printBody(env.Body)
}

// HumanSize renders a byte count
func HumanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func printHeaders(headers map[string]string) {
	if len(headers) == 0 {
		return
	}

	fmt.Println("Headers:")

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		headerKeyColor.Printf("  %s: ", sanitizeOutput(key))
		fmt.Println(sanitizeOutput(headers[key]))
	}
	fmt.Println()
}

func printBody(body string) {
	if body == "" {
		dimColor.Println("(empty body)")
		return
	}
	fmt.Println(sanitizeOutput(compile.FormatJSON(body)))
}

// PrintDescriptor prints the editable parts of a request
func PrintDescriptor(d model.RequestDescriptor) {
	methodColor.Printf("%s ", d.Method)
	urlColor.Println(sanitizeOutput(d.URL))

	printPairs("Params", d.Params)
	printPairs("Headers", d.Headers)

	switch d.Auth.Active() {
	case model.AuthBearer:
		dimColor.Println("Auth: bearer")
	case model.AuthBasic:
		dimColor.Printf("Auth: basic (%s)\n", sanitizeOutput(d.Auth.Basic.Username))
	case model.AuthAPIKey:
		dimColor.Printf("Auth: api-key %s in %s\n", sanitizeOutput(d.Auth.APIKey.Key), d.Auth.APIKey.AddTo)
	}

	switch d.Body.Active() {
	case model.BodyJSON:
		fmt.Println("Body (json):")
		fmt.Println(sanitizeOutput(compile.FormatJSON(d.Body.Raw)))
	case model.BodyFormData:
		printPairs("Body (form-data)", d.Body.FormData)
	case model.BodyURLEncoded:
		printPairs("Body (url-encoded)", d.Body.URLEncoded)
	}
}

func printPairs(title string, list model.KeyValueList) {
	pairs := list.Effective()
	if len(pairs) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, p := range pairs {
		headerKeyColor.Printf("  %s: ", sanitizeOutput(p.Key))
		fmt.Println(sanitizeOutput(p.Value))
	}
}

// PrintHistoryTable prints history entries, newest first, as a table
func PrintHistoryTable(entries []model.HistoryEntry, limit int) {
	if len(entries) == 0 {
		dimColor.Println("No requests in history")
		return
	}

	count := len(entries)
	if limit > 0 && limit < count {
		count = limit
	}

	table := tablewriter.NewWriter(Output)
	table.SetHeader([]string{"#", "ID", "Method", "URL", "Status", "Time"})
	table.SetAutoWrapText(false)
	for i, e := range entries[:count] {
		status := strconv.Itoa(e.Status)
		if e.Status == 0 {
			status = "ERR"
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			shortID(e.ID),
			string(e.Method),
			sanitizeOutput(truncate(e.URL, 60)),
			status,
			fmt.Sprintf("%dms", e.Duration),
		})
	}
	table.Render()

	if count < len(entries) {
		dimColor.Printf("... and %d more requests\n", len(entries)-count)
	}
}

// PrintHistoryEntry prints the full details of one history entry
func PrintHistoryEntry(e model.HistoryEntry) {
	fmt.Println("Request:")
	fmt.Println(strings.Repeat("-", 40))
	dimColor.Printf("ID: %s\n", e.ID)
	dimColor.Printf("Time: %s\n\n", e.Timestamp.Format("2006-01-02 15:04:05"))
	PrintDescriptor(e.Request)

	fmt.Println()
	fmt.Println("Result:")
	fmt.Println(strings.Repeat("-", 40))
	if e.Error != "" {
		PrintError(sanitizeOutput(e.Error))
	} else {
		getStatusColor(e.Status).Printf("%d\n", e.Status)
	}
	dimColor.Printf("Duration: %dms\n", e.Duration)
}

// PrintCollectionList prints a list of collections
func PrintCollectionList(collections []model.Collection) {
	if len(collections) == 0 {
		dimColor.Println("No collections found")
		return
	}

	table := tablewriter.NewWriter(Output)
	table.SetHeader([]string{"Name", "Requests", "Updated"})
	for _, col := range collections {
		table.Append([]string{
			sanitizeOutput(col.Name),
			strconv.Itoa(len(col.Requests)),
			col.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
}

// PrintCollectionRequests prints requests in a collection
func PrintCollectionRequests(col *model.Collection) {
	if len(col.Requests) == 0 {
		dimColor.Printf("Collection '%s' is empty\n", sanitizeOutput(col.Name))
		return
	}

	headerKeyColor.Printf("Collection: %s\n", sanitizeOutput(col.Name))
	fmt.Println(strings.Repeat("-", 40))

	for i, req := range col.Requests {
		dimColor.Printf("[%d] ", i+1)
		if req.Name != "" {
			fmt.Printf("%s: ", sanitizeOutput(req.Name))
		}
		methodColor.Printf("%s ", req.Request.Method)
		urlColor.Println(sanitizeOutput(req.Request.URL))
	}
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	successColor.Printf("✓ %s\n", msg)
}

// PrintError prints an error message
func PrintError(msg string) {
	clientErrColor.Printf("✗ %s\n", msg)
}

// PrintWarning prints a warning to stderr
func PrintWarning(msg string) {
	redirectColor.Fprintf(os.Stderr, "! %s\n", msg)
}

// PrintAliasList prints a list of aliases
func PrintAliasList(aliases model.Aliases) {
	if len(aliases) == 0 {
		dimColor.Println("No aliases found")
		return
	}

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Aliases:")
	for _, name := range names {
		fmt.Print("  ")
		PrintAlias(name, aliases[name])
	}
}

// PrintAlias prints a single alias
func PrintAlias(name, url string) {
	headerKeyColor.Printf("%s ", sanitizeOutput(name))
	dimColor.Print("→ ")
	urlColor.Println(sanitizeOutput(url))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
