package format

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/teranos/compdoc/errors"
)

func markdown(text string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))

	fence := ""
	fenceLine := 0
	var table []string

	flush := func() {
		if len(table) > 0 {
			out = append(out, alignTable(table)...)
			table = nil
		}
	}

	for n, line := range lines {
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			out = append(out, line)
			if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == "" {
				fence = ""
			}
			continue
		}

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			flush()
			fence = trimmed[:3]
			fenceLine = n + 1
			out = append(out, trimmed)
			continue
		}

		if strings.HasPrefix(trimmed, "|") {
			table = append(table, trimmed)
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	if fence != "" {
		return "", errors.Newf("line %d: unterminated code fence", fenceLine)
	}
	return finish(out), nil
}

// splitRow splits a table row on unescaped pipes
func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	if strings.HasSuffix(row, "|") && !strings.HasSuffix(row, "\\|") {
		row = row[:len(row)-1]
	}

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(row); i++ {
		if row[i] == '\\' && i+1 < len(row) {
			cur.WriteByte(row[i])
			cur.WriteByte(row[i+1])
			i++
			continue
		}
		if row[i] == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(row[i])
	}
	return append(cells, strings.TrimSpace(cur.String()))
}

func isDelimiterCell(cell string) bool {
	if cell == "" {
		return false
	}
	return strings.Trim(cell, ":-") == "" && strings.Contains(cell, "-")
}

// alignTable pads every column to its widest cell
func alignTable(rows []string) []string {
	cells := make([][]string, len(rows))
	cols := 0
	for i, r := range rows {
		cells[i] = splitRow(r)
		if len(cells[i]) > cols {
			cols = len(cells[i])
		}
	}

	delimiter := -1
	if len(cells) > 1 {
		allDelim := true
		for _, c := range cells[1] {
			if !isDelimiterCell(c) {
				allDelim = false
				break
			}
		}
		if allDelim {
			delimiter = 1
		}
	}

	widths := make([]int, cols)
	for i, row := range cells {
		if i == delimiter {
			continue
		}
		for j, c := range row {
			if w := runewidth.StringWidth(c); w > widths[j] {
				widths[j] = w
			}
		}
	}
	for j := range widths {
		if widths[j] < 3 {
			widths[j] = 3
		}
	}

	out := make([]string, len(cells))
	for i, row := range cells {
		var sb strings.Builder
		sb.WriteString("|")
		for j := 0; j < cols; j++ {
			c := ""
			if j < len(row) {
				c = row[j]
			}
			sb.WriteString(" ")
			if i == delimiter {
				sb.WriteString(delimiterCell(c, widths[j]))
			} else {
				sb.WriteString(c)
				sb.WriteString(strings.Repeat(" ", widths[j]-runewidth.StringWidth(c)))
			}
			sb.WriteString(" |")
		}
		out[i] = sb.String()
	}
	return out
}

func delimiterCell(c string, width int) string {
	left := strings.HasPrefix(c, ":")
	right := strings.HasSuffix(c, ":") && len(c) > 1
	dashes := width
	if left {
		dashes--
	}
	if right {
		dashes--
	}
	var sb strings.Builder
	if left {
		sb.WriteString(":")
	}
	sb.WriteString(strings.Repeat("-", dashes))
	if right {
		sb.WriteString(":")
	}
	return sb.String()
}
