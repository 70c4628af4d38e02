package codec

import (
	"strings"
)

type tokenKind int

const (
	tokenTitle tokenKind = iota
	// tokenText is the literal text between two structural tokens.
	tokenText
	tokenField
)

type token struct {
	kind   tokenKind
	text   string
	offset int
}

// lexError reports where a line stopped making sense.
type lexError struct {
	offset int
	reason string
}

func (e *lexError) Error() string {
	return e.reason
}

// lex splits a task line into its quoted title, the bracketed fields and the
// literal text around them. The text after the last field is returned as the
// final tokenText even when empty.
func lex(line string) ([]token, error) {
	if !strings.HasPrefix(line, `"`) {
		return nil, &lexError{offset: 0, reason: "line must start with a quoted title"}
	}

	title, pos, err := lexTitle(line)
	if err != nil {
		return nil, err
	}
	tokens := []token{{kind: tokenTitle, text: title, offset: 1}}

	for {
		open := strings.IndexByte(line[pos:], '[')
		if open < 0 {
			if len(tokens) == 1 {
				return nil, &lexError{offset: pos, reason: "missing bracketed field"}
			}
			tokens = append(tokens, token{kind: tokenText, text: line[pos:], offset: pos})
			return tokens, nil
		}
		open += pos
		tokens = append(tokens, token{kind: tokenText, text: line[pos:open], offset: pos})

		closing := strings.IndexByte(line[open+1:], ']')
		if closing < 0 {
			return nil, &lexError{offset: open, reason: "unterminated bracketed field"}
		}
		closing += open + 1
		tokens = append(tokens, token{kind: tokenField, text: line[open+1 : closing], offset: open + 1})
		pos = closing + 1
	}
}

// lexTitle reads the quote-doubled title starting at line[0] and returns it
// unescaped along with the offset just past its closing quote.
func lexTitle(line string) (string, int, error) {
	var b strings.Builder
	for i := 1; i < len(line); i++ {
		if line[i] != '"' {
			b.WriteByte(line[i])
			continue
		}
		if i+1 < len(line) && line[i+1] == '"' {
			b.WriteByte('"')
			i++
			continue
		}
		return b.String(), i + 1, nil
	}
	return "", 0, &lexError{offset: 0, reason: "unterminated title"}
}

// quote doubles every quote in s and wraps it in quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
