package svelte

import (
	"strings"

	"github.com/teranos/compdoc/errors"
)

// tag is one @name entry of a JSDoc block
type tag struct {
	name string
	// typ is the braced type expression without the outer braces
	typ string
	// text is whatever follows the type expression
	text string
}

// docBlock is a parsed /** ... */ comment
type docBlock struct {
	description string
	tags        []tag
}

func (d docBlock) find(name string) (tag, bool) {
	for _, t := range d.tags {
		if t.name == name {
			return t, true
		}
	}
	return tag{}, false
}

func (d docBlock) has(name string) bool {
	_, ok := d.find(name)
	return ok
}

// parseDocBlock parses the body of a JSDoc comment (between "/**" and "*/").
// Tag text continues over following lines until the next tag.
func parseDocBlock(body string, line int) (docBlock, error) {
	var block docBlock
	var desc []string
	var raw []string
	var tagLines []int

	for i, l := range strings.Split(body, "\n") {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		l = strings.TrimRight(strings.TrimPrefix(l, " "), " \t")

		switch {
		case strings.HasPrefix(l, "@"):
			raw = append(raw, l)
			tagLines = append(tagLines, line+i)
		case len(raw) > 0:
			raw[len(raw)-1] += "\n" + l
		default:
			desc = append(desc, l)
		}
	}
	block.description = trimBlankLines(desc)

	for i, r := range raw {
		t, err := parseTag(r)
		if err != nil {
			return docBlock{}, errors.Newf("line %d: %s", tagLines[i], err)
		}
		block.tags = append(block.tags, t)
	}
	return block, nil
}

// parseTag splits "@name {type} text" into its parts
func parseTag(s string) (tag, error) {
	s = strings.TrimPrefix(s, "@")
	name := s
	rest := ""
	if i := strings.IndexAny(s, " \t\n{"); i >= 0 {
		name, rest = s[:i], strings.TrimSpace(s[i:])
	}
	t := tag{name: name}

	if strings.HasPrefix(rest, "{") {
		end, err := matchBrace(rest)
		if err != nil {
			return tag{}, errors.Wrapf(err, "@%s", name)
		}
		t.typ = strings.TrimSpace(rest[1:end])
		rest = strings.TrimSpace(rest[end+1:])
	}
	t.text = strings.TrimSpace(rest)
	return t, nil
}

// matchBrace returns the index of the brace closing s[0]
func matchBrace(s string) (int, error) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, errors.New("unbalanced braces in type expression")
}

// splitWord returns the first whitespace-delimited word and the rest
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}
	return s, ""
}

// trimDescriptionLead drops a leading "- " separator commonly used after tag names
func trimDescriptionLead(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "- "))
}

func trimBlankLines(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
