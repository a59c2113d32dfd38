package curl

type optKind int

const (
	optFlag optKind = iota
	optValue
)

type optDef struct {
	name string
	kind optKind
}

// options lists the long options the importer understands, keyed by name.
// Options it does not model still need an entry when they take a value so
// the value is not mistaken for the URL.
var options = map[string]optDef{
	"request":        {"request", optValue},
	"url":            {"url", optValue},
	"header":         {"header", optValue},
	"data":           {"data", optValue},
	"data-ascii":     {"data", optValue},
	"data-raw":       {"data-raw", optValue},
	"data-binary":    {"data-binary", optValue},
	"data-urlencode": {"data-urlencode", optValue},
	"json":           {"json", optValue},
	"form":           {"form", optValue},
	"form-string":    {"form", optValue},
	"user":           {"user", optValue},
	"user-agent":     {"user-agent", optValue},
	"referer":        {"referer", optValue},
	"cookie":         {"cookie", optValue},
	"head":           {"head", optFlag},
	"get":            {"get", optFlag},

	"output":          {"ignored", optValue},
	"proxy":           {"ignored", optValue},
	"max-time":        {"ignored", optValue},
	"connect-timeout": {"ignored", optValue},
	"max-redirs":      {"ignored", optValue},
	"retry":           {"ignored", optValue},
	"write-out":       {"ignored", optValue},
	"cacert":          {"ignored", optValue},
	"cert":            {"ignored", optValue},
	"key":             {"ignored", optValue},
	"resolve":         {"ignored", optValue},
	"dump-header":     {"ignored", optValue},
	"cookie-jar":      {"ignored", optValue},
	"upload-file":     {"ignored", optValue},
	"config":          {"ignored", optValue},
	"range":           {"ignored", optValue},
	"limit-rate":      {"ignored", optValue},
	"retry-delay":     {"ignored", optValue},
	"retry-max-time":  {"ignored", optValue},
	"interface":       {"ignored", optValue},
	"capath":          {"ignored", optValue},
	"cert-type":       {"ignored", optValue},
	"key-type":        {"ignored", optValue},
	"pass":            {"ignored", optValue},
	"proxy-user":      {"ignored", optValue},
	"connect-to":      {"ignored", optValue},
	"trace":           {"ignored", optValue},
	"trace-ascii":     {"ignored", optValue},
	"stderr":          {"ignored", optValue},
	"time-cond":       {"ignored", optValue},
	"speed-limit":     {"ignored", optValue},
	"speed-time":      {"ignored", optValue},
	"continue-at":     {"ignored", optValue},
	"quote":           {"ignored", optValue},
}

var shortOptions = map[byte]string{
	'X': "request",
	'H': "header",
	'd': "data",
	'F': "form",
	'u': "user",
	'A': "user-agent",
	'e': "referer",
	'b': "cookie",
	'I': "head",
	'G': "get",
	'o': "output",
	'x': "proxy",
	'm': "max-time",
	'w': "write-out",
	'E': "cert",
	'D': "dump-header",
	'c': "cookie-jar",
	'T': "upload-file",
	'K': "config",
	'r': "range",
	'U': "proxy-user",
	'z': "time-cond",
	'Y': "speed-limit",
	'y': "speed-time",
	'C': "continue-at",
	'Q': "quote",
}

// prefixes that may precede the curl token in a pasted command
var commandPrefixes = map[string]bool{
	"$":      true,
	"%":      true,
	">":      true,
	"sudo":   true,
	"env":    true,
	"time":   true,
	"noglob": true,
}
