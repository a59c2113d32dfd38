package curl

// ParseError reports a command that cannot be turned into a request. The
// caller's state is left untouched when it is returned.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

const msgNoURL = "could not find a URL in the provided command"
