package format

import (
	"strings"

	"github.com/teranos/compdoc/errors"
)

var closerFor = map[byte]byte{'{': '}', '[': ']', '(': ')'}

// tsState is carried across lines
type tsState struct {
	stack        []byte
	blockComment bool
	template     bool
}

func (f *Formatter) typescript(text string) (string, error) {
	st := &tsState{}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))

	for n, line := range lines {
		lineNo := n + 1
		trimmed := strings.TrimSpace(line)

		switch {
		case st.template:
			// Template literal content is kept verbatim
			out = append(out, line)
		case st.blockComment:
			level := len(st.stack)
			if strings.HasPrefix(trimmed, "*") {
				out = append(out, strings.Repeat(f.Indent, level)+" "+trimmed)
			} else {
				out = append(out, strings.Repeat(f.Indent, level)+trimmed)
			}
		default:
			level := len(st.stack) - leadingClosers(trimmed)
			if level < 0 {
				level = 0
			}
			out = append(out, strings.Repeat(f.Indent, level)+trimmed)
		}

		if err := st.scan(line, lineNo); err != nil {
			return "", err
		}
	}

	switch {
	case st.blockComment:
		return "", errors.New("unterminated block comment at end of input")
	case st.template:
		return "", errors.New("unterminated template literal at end of input")
	case len(st.stack) > 0:
		return "", errors.Newf("unclosed %q at end of input", st.stack[len(st.stack)-1])
	}

	return finish(out), nil
}

func leadingClosers(s string) int {
	n := 0
	for n < len(s) && (s[n] == '}' || s[n] == ']' || s[n] == ')') {
		n++
	}
	return n
}

// scan advances the bracket/comment/string state over one line
func (st *tsState) scan(line string, lineNo int) error {
	for i := 0; i < len(line); i++ {
		c := line[i]

		if st.blockComment {
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				st.blockComment = false
				i++
			}
			continue
		}
		if st.template {
			switch c {
			case '\\':
				i++
			case '`':
				st.template = false
			}
			continue
		}

		switch c {
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return nil
			}
			if i+1 < len(line) && line[i+1] == '*' {
				st.blockComment = true
				i++
			}
		case '"', '\'':
			end := closingQuote(line, i+1, c)
			if end < 0 {
				return errors.Newf("line %d: unterminated string literal", lineNo)
			}
			i = end
		case '`':
			st.template = true
		case '{', '[', '(':
			st.stack = append(st.stack, c)
		case '}', ']', ')':
			if len(st.stack) == 0 {
				return errors.Newf("line %d: unexpected %q", lineNo, c)
			}
			open := st.stack[len(st.stack)-1]
			if closerFor[open] != c {
				return errors.Newf("line %d: %q closes %q", lineNo, c, open)
			}
			st.stack = st.stack[:len(st.stack)-1]
		}
	}
	return nil
}

// closingQuote returns the index of the quote ending a string started before from, or -1
func closingQuote(line string, from int, quote byte) int {
	for i := from; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}
