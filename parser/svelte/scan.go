package svelte

import (
	"strings"

	"github.com/teranos/compdoc/errors"
)

// comment is a /** doc comment found in a script
type comment struct {
	// body is the text between "/**" and "*/"
	body string
	// end is the offset just past "*/"
	end  int
	line int
}

// scanScript blanks out every comment in text (keeping offsets and newlines)
// and returns the doc comments in order. Quoted strings are skipped so that
// comment markers inside them are ignored.
func scanScript(text string, baseLine int) (string, []comment, error) {
	code := []byte(text)
	var comments []comment
	var quote byte

	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			switch {
			case c == '\\':
				i++
			case c == quote:
				quote = 0
			case c == '\n' && quote != '`':
				// Unterminated single-line string; regex literals land here too
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if i+1 >= len(text) {
				continue
			}
			switch text[i+1] {
			case '/':
				end := strings.IndexByte(text[i:], '\n')
				if end < 0 {
					end = len(text) - i
				}
				blank(code, i, i+end)
				i += end - 1
			case '*':
				end := strings.Index(text[i+2:], "*/")
				if end < 0 {
					return "", nil, errors.Newf("line %d: unterminated comment in <script>", baseLine+strings.Count(text[:i], "\n"))
				}
				stop := i + 2 + end + 2
				if strings.HasPrefix(text[i:], "/**") && stop-i > 4 {
					comments = append(comments, comment{
						body: text[i+3 : stop-2],
						end:  stop,
						line: baseLine + strings.Count(text[:i], "\n"),
					})
				}
				blank(code, i, stop)
				i = stop - 1
			}
		}
	}
	return string(code), comments, nil
}

func blank(b []byte, from, to int) {
	for i := from; i < to; i++ {
		if b[i] != '\n' {
			b[i] = ' '
		}
	}
}
