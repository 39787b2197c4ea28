package svelte

import (
	"regexp"
	"sort"
	"strings"

	"github.com/teranos/compdoc/docgen"
	"github.com/teranos/compdoc/errors"
)

const defaultSlot = "default"

// element is one opening tag in the markup
type element struct {
	name        string
	attrs       string
	selfClosing bool
	// end is the offset just past ">"
	end int
}

var (
	slotNameRe    = regexp.MustCompile(`(?:^|\s)name\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>/]+))`)
	slotAttrRe    = regexp.MustCompile(`(?:^|\s)([A-Za-z_$][\w$-]*)\s*=\s*\{`)
	shorthandRe   = regexp.MustCompile(`(?:^|\s)\{([A-Za-z_$][\w$]*)\}`)
	forwardRe     = regexp.MustCompile(`(?:^|\s)on:([A-Za-z][\w-]*)((?:\|[\w]+)*)(\s*=)?`)
	restPropsRe   = regexp.MustCompile(`\{\s*\.\.\.\s*\$\$restProps\s*\}`)
	closingSlotRe = regexp.MustCompile(`(?i)</slot\s*>`)
)

func (a *analysis) markup(text string) error {
	elements, err := scanElements(text)
	if err != nil {
		return err
	}

	slots := make(map[string]bool)
	for _, el := range elements {
		if el.name == "slot" {
			a.slot(text, el, slots)
		}

		for _, m := range forwardRe.FindAllStringSubmatch(el.attrs, -1) {
			if m[3] != "" {
				continue
			}
			name := m[1]
			if a.events[name] {
				continue
			}
			a.events[name] = true
			a.doc.Events = append(a.doc.Events, docgen.Event{
				Name:    name,
				Kind:    docgen.EventForwarded,
				Element: el.name,
			})
		}

		if !a.restPropsTag && a.doc.RestProps == nil && restPropsRe.MatchString(el.attrs) {
			a.doc.RestProps = &docgen.RestProps{Name: el.name}
		}
	}

	// @slot tags for slots the markup never renders are still part of the API
	var extra []string
	for name := range a.slotTypes {
		if !slots[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		a.doc.Slots = append(a.doc.Slots, docgen.Slot{
			Name:      name,
			Default:   name == defaultSlot,
			SlotProps: a.slotTypes[name],
		})
	}
	return nil
}

func (a *analysis) slot(text string, el element, seen map[string]bool) {
	name := defaultSlot
	if m := slotNameRe.FindStringSubmatch(el.attrs); m != nil {
		name = m[1] + m[2] + m[3]
	}
	if seen[name] {
		return
	}
	seen[name] = true

	s := docgen.Slot{Name: name, Default: name == defaultSlot}
	if !el.selfClosing {
		if loc := closingSlotRe.FindStringIndex(text[el.end:]); loc != nil {
			s.Fallback = strings.Join(strings.Fields(text[el.end:el.end+loc[0]]), " ")
		}
	}

	if t, ok := a.slotTypes[name]; ok && t != "" {
		s.SlotProps = t
	} else {
		s.SlotProps = slotProps(el.attrs)
	}
	a.doc.Slots = append(a.doc.Slots, s)
}

// slotProps builds an object type from the attributes a slot passes down
func slotProps(attrs string) string {
	var names []string
	for _, m := range slotAttrRe.FindAllStringSubmatch(attrs, -1) {
		if m[1] != "name" {
			names = append(names, m[1])
		}
	}
	for _, m := range shorthandRe.FindAllStringSubmatch(attrs, -1) {
		names = append(names, m[1])
	}
	if len(names) == 0 {
		return ""
	}
	fields := make([]string, len(names))
	for i, n := range names {
		fields[i] = n + ": any"
	}
	return "{ " + strings.Join(fields, "; ") + " }"
}

// scanElements returns the opening tags of text. Attribute values in quotes
// or braces may contain ">"; "<" inside {expressions} does not open a tag.
func scanElements(text string) ([]element, error) {
	var out []element
	expr := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			expr++
			continue
		case '}':
			if expr > 0 {
				expr--
			}
			continue
		}
		if expr > 0 || text[i] != '<' || i+1 >= len(text) || !isNameStart(text[i+1]) {
			continue
		}
		start := i
		j := i + 1
		for j < len(text) && isNameChar(text[j]) {
			j++
		}
		name := text[i+1 : j]

		depth := 0
		var quote byte
		end := -1
		for k := j; k < len(text) && end < 0; k++ {
			c := text[k]
			if quote != 0 {
				if c == quote {
					quote = 0
				}
				continue
			}
			switch c {
			case '"', '\'':
				if depth == 0 {
					quote = c
				}
			case '{':
				depth++
			case '}':
				depth--
			case '>':
				if depth == 0 {
					end = k
				}
			}
		}
		if end < 0 {
			return nil, errors.Newf("line %d: unterminated <%s> tag", lineAt(text, start), name)
		}

		attrs := text[j:end]
		el := element{
			name:        name,
			selfClosing: strings.HasSuffix(strings.TrimSpace(attrs), "/"),
			attrs:       strings.TrimSuffix(strings.TrimSpace(attrs), "/"),
			end:         end + 1,
		}
		out = append(out, el)
		i = end
	}
	return out, nil
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-' || c == ':' || c == '.'
}
