package curl

import (
	"strings"
)

type quoteState int

const (
	quoteNone quoteState = iota
	quoteSingle
	quoteDouble
	quoteANSI
)

type lexer struct {
	rs    []rune
	pos   int
	quote quoteState
	buf   strings.Builder
	// inWord is set once a token has started, so '' yields an empty token
	inWord bool
	out    []string
}

// splitTokens splits a shell-style command line. Single quotes are literal,
// double quotes honour backslash escapes, $'...' decodes ANSI-C escapes and an
// unquoted backslash escapes the next character. A backslash before a line
// break joins the lines.
func splitTokens(input string) ([]string, error) {
	lx := &lexer{rs: []rune(input)}
	for lx.pos < len(lx.rs) {
		if err := lx.step(); err != nil {
			return nil, err
		}
	}
	if lx.quote != quoteNone {
		return nil, &ParseError{Message: "unterminated quoted string"}
	}
	lx.flush()
	return lx.out, nil
}

func (lx *lexer) emit(r rune) {
	lx.buf.WriteRune(r)
	lx.inWord = true
}

func (lx *lexer) flush() {
	if !lx.inWord {
		return
	}
	lx.out = append(lx.out, lx.buf.String())
	lx.buf.Reset()
	lx.inWord = false
}

func (lx *lexer) peek() (rune, bool) {
	if lx.pos+1 >= len(lx.rs) {
		return 0, false
	}
	return lx.rs[lx.pos+1], true
}

// skipLineBreak consumes the line break that follows a backslash at pos
func (lx *lexer) skipLineBreak() bool {
	next, ok := lx.peek()
	if !ok || (next != '\n' && next != '\r') {
		return false
	}
	lx.pos += 2
	if next == '\r' && lx.pos < len(lx.rs) && lx.rs[lx.pos] == '\n' {
		lx.pos++
	}
	return true
}

func (lx *lexer) step() error {
	r := lx.rs[lx.pos]

	switch lx.quote {
	case quoteSingle:
		if r == '\'' {
			lx.quote = quoteNone
		} else {
			lx.emit(r)
		}
		lx.pos++
		return nil

	case quoteDouble:
		switch r {
		case '"':
			lx.quote = quoteNone
		case '\\':
			if lx.skipLineBreak() {
				return nil
			}
			next, ok := lx.peek()
			if ok && strings.ContainsRune("\"\\$`", next) {
				lx.emit(next)
				lx.pos += 2
				return nil
			}
			lx.emit(r)
		default:
			lx.emit(r)
		}
		lx.pos++
		return nil

	case quoteANSI:
		switch r {
		case '\'':
			lx.quote = quoteNone
			lx.pos++
		case '\\':
			lx.pos++
			if lx.pos >= len(lx.rs) {
				return &ParseError{Message: "unterminated escape sequence"}
			}
			decoded, err := lx.ansiEscape()
			if err != nil {
				return err
			}
			lx.emit(decoded)
		default:
			lx.emit(r)
			lx.pos++
		}
		return nil
	}

	switch {
	case r == '\\':
		if lx.skipLineBreak() {
			return nil
		}
		next, ok := lx.peek()
		if !ok {
			return &ParseError{Message: "unterminated escape sequence"}
		}
		lx.emit(next)
		lx.pos += 2
	case r == '\'':
		lx.quote = quoteSingle
		lx.inWord = true
		lx.pos++
	case r == '"':
		lx.quote = quoteDouble
		lx.inWord = true
		lx.pos++
	case r == '$' && lx.pos+1 < len(lx.rs) && lx.rs[lx.pos+1] == '\'':
		lx.quote = quoteANSI
		lx.inWord = true
		lx.pos += 2
	case isSpace(r):
		lx.flush()
		lx.pos++
	default:
		lx.emit(r)
		lx.pos++
	}
	return nil
}

// ansiEscape decodes the escape whose letter is at pos and advances past it
func (lx *lexer) ansiEscape() (rune, error) {
	r := lx.rs[lx.pos]
	lx.pos++
	switch r {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'x':
		return lx.readHex(2)
	case 'u':
		return lx.readHex(4)
	default:
		return r, nil
	}
}

func (lx *lexer) readHex(n int) (rune, error) {
	if lx.pos+n > len(lx.rs) {
		return 0, &ParseError{Message: "invalid hex escape"}
	}
	val := 0
	for _, r := range lx.rs[lx.pos : lx.pos+n] {
		d, ok := hexVal(r)
		if !ok {
			return 0, &ParseError{Message: "invalid hex escape"}
		}
		val = val*16 + d
	}
	lx.pos += n
	return rune(val), nil
}

func hexVal(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
