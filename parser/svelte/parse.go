// Package svelte is the default parsing service for .svelte component sources.
//
// It reads the component description from an `<!-- @component -->` comment,
// props and type tags from the JSDoc in `<script>` blocks, and slots,
// forwarded events and rest props from the markup. It does not evaluate
// JavaScript; declarations are recognized lexically.
package svelte

import (
	"regexp"
	"strings"

	"github.com/teranos/compdoc/docgen"
	"github.com/teranos/compdoc/errors"
)

// Parser implements docgen.Parser. It holds no state and is safe for concurrent use.
type Parser struct{}

// New creates a Svelte parser
func New() *Parser {
	return &Parser{}
}

// Parse extracts the documentation block of one component. Every @typedef
// tag is reported to opts.OnTypeDef in source order.
func (p *Parser) Parse(source string, opts docgen.ParseOptions) (*docgen.Documentation, error) {
	sec, err := split(source)
	if err != nil {
		return nil, err
	}

	doc := &docgen.Documentation{Description: sec.description}
	a := &analysis{
		doc:       doc,
		onTypeDef: opts.OnTypeDef,
		slotTypes: make(map[string]string),
		events:    make(map[string]bool),
	}

	for _, s := range sec.scripts {
		if err := a.script(s); err != nil {
			return nil, err
		}
	}
	if err := a.markup(sec.markup); err != nil {
		return nil, err
	}
	return doc, nil
}

// script is the content of one <script> block with its starting line
type script struct {
	text string
	line int
}

// sections is a component source split into its parts
type sections struct {
	scripts     []script
	markup      string
	description string
}

// split separates script blocks, style blocks and comments from the markup.
// Styles and comments are dropped; the @component comment becomes the description.
func split(source string) (*sections, error) {
	lower := strings.ToLower(source)
	sec := &sections{}
	var markup strings.Builder

	pos := 0
	for pos < len(source) {
		next, kind := nextSection(lower, pos)
		if next < 0 {
			markup.WriteString(source[pos:])
			break
		}
		markup.WriteString(source[pos:next])
		line := lineAt(source, next)

		switch kind {
		case "<!--":
			end := strings.Index(source[next+4:], "-->")
			if end < 0 {
				return nil, errors.Newf("line %d: unterminated HTML comment", line)
			}
			body := source[next+4 : next+4+end]
			if trimmed := strings.TrimSpace(body); strings.HasPrefix(trimmed, "@component") && sec.description == "" {
				sec.description = dedent(strings.TrimPrefix(trimmed, "@component"))
			}
			// Keep line structure for markup positions
			markup.WriteString(strings.Repeat("\n", strings.Count(body, "\n")))
			pos = next + 4 + end + 3
		default:
			closing := "</" + kind[1:] + ">"
			open := strings.IndexByte(source[next:], '>')
			if open < 0 {
				return nil, errors.Newf("line %d: unterminated %s tag", line, kind+">")
			}
			bodyStart := next + open + 1
			end := strings.Index(lower[bodyStart:], closing)
			if end < 0 {
				return nil, errors.Newf("line %d: unterminated %s block", line, kind+">")
			}
			body := source[bodyStart : bodyStart+end]
			if kind == "<script" {
				sec.scripts = append(sec.scripts, script{text: body, line: lineAt(source, bodyStart)})
			}
			markup.WriteString(strings.Repeat("\n", strings.Count(source[next:bodyStart+end], "\n")))
			pos = bodyStart + end + len(closing)
		}
	}

	sec.markup = markup.String()
	return sec, nil
}

// nextSection finds the earliest script, style or comment opening at or after pos
func nextSection(lower string, pos int) (int, string) {
	best, kind := -1, ""
	for _, marker := range []string{"<script", "<style", "<!--"} {
		from := pos
		for {
			i := strings.Index(lower[from:], marker)
			if i < 0 {
				break
			}
			i += from
			// "<scripts>" or "<style-guide>" are not section openers
			if marker == "<!--" || isTagBoundary(lower, i+len(marker)) {
				if best < 0 || i < best {
					best, kind = i, marker
				}
				break
			}
			from = i + len(marker)
		}
	}
	return best, kind
}

func isTagBoundary(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	switch s[i] {
	case '>', ' ', '\t', '\n', '\r', '/':
		return true
	}
	return false
}

func lineAt(s string, i int) int {
	return strings.Count(s[:i], "\n") + 1
}

// dedent trims each line and drops surrounding blank lines
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return trimBlankLines(lines)
}

// analysis accumulates the documentation block across a component's sections
type analysis struct {
	doc       *docgen.Documentation
	onTypeDef func(docgen.TypeDef)
	// slotTypes holds @slot prop types by slot name
	slotTypes map[string]string
	// events records names already documented
	events       map[string]bool
	restPropsTag bool
}

var (
	exportDeclRe = regexp.MustCompile(`\bexport\s+(let|const|function)\s+([A-Za-z_$][\w$]*)`)
	dispatchRe   = regexp.MustCompile(`\bdispatch\(\s*["']([^"']+)["']\s*(,)?`)
	numberRe     = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)
)

func (a *analysis) script(s script) error {
	code, comments, err := scanScript(s.text, s.line)
	if err != nil {
		return err
	}

	blocks := make([]docBlock, len(comments))
	for i, c := range comments {
		b, err := parseDocBlock(c.body, c.line)
		if err != nil {
			return err
		}
		blocks[i] = b
		a.blockTags(b)
	}

	for _, m := range exportDeclRe.FindAllStringSubmatchIndex(code, -1) {
		kind := code[m[2]:m[3]]
		name := code[m[4]:m[5]]
		prop := docgen.Prop{Name: name, Kind: kind}

		var block docBlock
		if i := precedingComment(code, comments, m[0]); i >= 0 {
			block = blocks[i]
		}
		prop.Description = block.description
		if t, ok := block.find("type"); ok {
			prop.Type = t.typ
			if d := trimDescriptionLead(t.text); d != "" {
				prop.Description = joinText(prop.Description, d)
			}
		}

		switch kind {
		case docgen.PropFunction:
			if prop.Type == "" {
				prop.Type = "() => any"
			}
			prop.Constant = true
		default:
			annotation, value := declarationTail(code[m[1]:])
			if prop.Type == "" {
				prop.Type = annotation
			}
			prop.Value = value
			if prop.Type == "" {
				prop.Type = inferType(value)
			}
			prop.Constant = kind == docgen.PropConst || block.has("constant")
			prop.IsRequired = kind == docgen.PropLet && value == ""
			prop.Reactive = kind == docgen.PropLet && reassigned(code[m[1]:], name)
		}
		a.doc.Props = append(a.doc.Props, prop)
	}

	for _, m := range dispatchRe.FindAllStringSubmatch(code, -1) {
		name := m[1]
		if a.events[name] {
			continue
		}
		a.events[name] = true
		e := docgen.Event{Name: name, Kind: docgen.EventDispatched}
		if m[2] == "" {
			e.Detail = "null"
		}
		a.doc.Events = append(a.doc.Events, e)
	}
	return nil
}

// blockTags applies the component-level tags of one JSDoc block
func (a *analysis) blockTags(b docBlock) {
	for _, t := range b.tags {
		switch t.name {
		case "typedef":
			name, desc := splitWord(t.text)
			if name == "" || a.onTypeDef == nil {
				continue
			}
			typ := t.typ
			if typ == "" {
				typ = "any"
			}
			a.onTypeDef(docgen.TypeDef{
				Name:        name,
				Type:        typ,
				Description: joinText(trimDescriptionLead(desc), b.description),
				TS:          "type " + name + " = " + typ,
			})
		case "event":
			name, desc := splitWord(t.text)
			if name == "" || a.events[name] {
				continue
			}
			a.events[name] = true
			a.doc.Events = append(a.doc.Events, docgen.Event{
				Name:        name,
				Kind:        docgen.EventDispatched,
				Detail:      t.typ,
				Description: trimDescriptionLead(desc),
			})
		case "slot":
			name, _ := splitWord(t.text)
			if name == "" {
				name = defaultSlot
			}
			a.slotTypes[name] = t.typ
		case "restProps":
			el, _ := splitWord(t.text)
			if el == "" {
				el = t.typ
			}
			if el != "" {
				a.doc.RestProps = &docgen.RestProps{Name: el}
				a.restPropsTag = true
			}
		}
	}
}

// precedingComment returns the index of the doc comment that ends right
// before pos with only whitespace in between, or -1
func precedingComment(code string, comments []comment, pos int) int {
	for i := len(comments) - 1; i >= 0; i-- {
		c := comments[i]
		if c.end > pos {
			continue
		}
		if strings.TrimSpace(code[c.end:pos]) == "" {
			return i
		}
		return -1
	}
	return -1
}

// declarationTail reads "[: Type] [= value]" up to the end of the statement
func declarationTail(rest string) (annotation, value string) {
	stmt := statement(rest)
	eq := topLevelIndex(stmt, '=')
	head := stmt
	if eq >= 0 {
		head = stmt[:eq]
		value = strings.TrimSpace(stmt[eq+1:])
	}
	head = strings.TrimSpace(head)
	if strings.HasPrefix(head, ":") {
		annotation = strings.TrimSpace(head[1:])
	}
	return annotation, value
}

// statement returns rest up to the first top-level ";" or newline
func statement(rest string) string {
	depth := 0
	var quote byte
	for i := 0; i < len(rest); i++ {
		c := rest[i]
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
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case ';', '\n':
			if depth <= 0 {
				// A trailing operator continues the expression onto the next line
				if c == '\n' && continues(rest[:i]) {
					continue
				}
				return rest[:i]
			}
		}
	}
	return rest
}

func continues(s string) bool {
	s = strings.TrimRight(s, " \t\r")
	if s == "" {
		return false
	}
	return strings.ContainsAny(s[len(s)-1:], "=+-*/|&?:,.")
}

// topLevelIndex finds c outside brackets and strings, ignoring "==", "=>" and friends
func topLevelIndex(s string, c byte) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '{', '[', '(', '<':
			depth++
		case '}', ']', ')':
			depth--
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
		case c:
			if depth != 0 {
				continue
			}
			if i+1 < len(s) && (s[i+1] == '=' || s[i+1] == '>') {
				i++
				continue
			}
			if i > 0 && strings.IndexByte("!<>=", s[i-1]) >= 0 {
				continue
			}
			return i
		}
	}
	return -1
}

func inferType(value string) string {
	switch {
	case value == "":
		return ""
	case value == "true" || value == "false":
		return "boolean"
	case value == "null", value == "undefined":
		return value
	case strings.HasPrefix(value, `"`), strings.HasPrefix(value, "'"), strings.HasPrefix(value, "`"):
		return "string"
	case numberRe.MatchString(value):
		return "number"
	case strings.HasPrefix(value, "["):
		return "any[]"
	case strings.HasPrefix(value, "{"):
		return "object"
	case strings.HasPrefix(value, "()") || strings.Contains(value, "=>"):
		return "() => any"
	}
	return ""
}

// reassigned reports whether name is assigned after its declaration
func reassigned(rest, name string) bool {
	re := regexp.MustCompile(`(^|[^\w$.])` + regexp.QuoteMeta(name) + `\s*(=[^=>]|\+=|-=|\*=|/=|\+\+|--)`)
	// Skip the declaration's own initializer
	stmt := statement(rest)
	return re.MatchString(rest[len(stmt):])
}

func joinText(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n" + b
}
