package block

import (
	"strings"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

const captionPrefix = "Table:"

// cell is the trimmed text of one table cell and its source column.
type cell struct {
	text string
	col  int
}

// splitRow splits a table row on unescaped pipes. Leading and trailing
// pipes are optional.
func splitRow(l line) []cell {
	t := l.trimIndent()
	text := strings.TrimRight(t.text, " \t")
	if text == "" {
		return nil
	}

	start := 0
	if strings.HasPrefix(text, "|") {
		start = 1
	}
	end := len(text)
	if end > start && text[end-1] == '|' && (end < 2 || text[end-2] != '\\') {
		end--
	}

	var cells []cell
	segStart := start
	for idx := start; idx < end; idx++ {
		switch text[idx] {
		case '\\':
			if idx+1 < end && text[idx+1] == '|' {
				idx++
			}
		case '|':
			cells = append(cells, makeCell(text[segStart:idx], t.col+segStart))
			segStart = idx + 1
		}
	}
	return append(cells, makeCell(text[segStart:end], t.col+segStart))
}

func makeCell(text string, col int) cell {
	trimmed := strings.TrimLeft(text, " \t")
	col += len(text) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t")
	return cell{text: strings.ReplaceAll(trimmed, `\|`, "|"), col: col}
}

// delimiterRow parses a row of :?-+:? cells into column alignments.
func delimiterRow(l line) ([]mdast.Alignment, bool) {
	if l.lazy || l.indent() >= tabStop || !strings.Contains(l.text, "|") {
		return nil, false
	}

	cells := splitRow(l)
	if len(cells) == 0 {
		return nil, false
	}

	aligns := make([]mdast.Alignment, 0, len(cells))
	for _, c := range cells {
		text := c.text
		left := strings.HasPrefix(text, ":")
		right := strings.HasSuffix(text, ":") && len(text) > 1
		core := strings.TrimSuffix(strings.TrimPrefix(text, ":"), ":")
		if core == "" || strings.Trim(core, "-") != "" {
			return nil, false
		}

		switch {
		case left && right:
			aligns = append(aligns, mdast.AlignCenter)
		case left:
			aligns = append(aligns, mdast.AlignLeft)
		case right:
			aligns = append(aligns, mdast.AlignRight)
		default:
			aligns = append(aligns, mdast.AlignNone)
		}
	}

	return aligns, true
}

// isTableStart reports whether header and delim open a table with a
// header row.
func isTableStart(header, delim line) bool {
	if header.lazy || header.blank() || header.indent() >= tabStop {
		return false
	}
	aligns, ok := delimiterRow(delim)
	if !ok {
		return false
	}
	return len(splitRow(header)) == len(aligns)
}

func (p *Parser) parseTable(parent *mdast.Node, lines []line, idx int) (int, bool) {
	head := lines[idx]

	var (
		aligns    []mdast.Alignment
		header    []cell
		bodyStart int
	)

	switch {
	case idx+1 < len(lines) && isTableStart(head, lines[idx+1]):
		aligns, _ = delimiterRow(lines[idx+1])
		header = splitRow(head)
		bodyStart = idx + 2
	default:
		var ok bool
		aligns, ok = delimiterRow(head)
		if !ok || idx+1 >= len(lines) || lines[idx+1].blank() || !strings.Contains(lines[idx+1].text, "|") {
			return 0, false
		}
		bodyStart = idx + 1
	}

	table := mdast.NewNode(mdast.NodeTable)
	table.Pos = head.firstPos()
	table.Block = mdast.NewBlockAttrs().WithTable(&mdast.TableAttrs{
		Alignments: aligns,
		HasHeader:  header != nil,
	})
	mdast.AppendChild(parent, table)

	if header != nil {
		mdast.AppendChild(table, tableRow(head, header, aligns, true))
	}

	idx = bodyStart
	for idx < len(lines) {
		l := lines[idx]
		if l.blank() || l.lazy || p.interrupts(l, scope{}) {
			break
		}

		text := l.trimIndent().text
		if caption, ok := strings.CutPrefix(text, captionPrefix); ok {
			node := mdast.NewNode(mdast.NodeTableCaption)
			node.Pos = l.firstPos()
			col := l.trimIndent().col + len(text) - len(strings.TrimLeft(caption, " \t"))
			node.Raw = rawText(strings.TrimSpace(caption), mdast.SourcePos{Line: l.num, Column: col})
			mdast.AppendChild(table, node)
			idx++
			break
		}

		mdast.AppendChild(table, tableRow(l, splitRow(l), aligns, false))
		idx++
	}

	return idx, true
}

// tableRow builds a row padded or truncated to the column count.
func tableRow(l line, cells []cell, aligns []mdast.Alignment, header bool) *mdast.Node {
	row := mdast.NewNode(mdast.NodeTableRow)
	row.Pos = l.firstPos()
	row.Block = &mdast.BlockAttrs{Header: header}

	for col, align := range aligns {
		node := mdast.NewNode(mdast.NodeTableCell)
		node.Block = &mdast.BlockAttrs{Header: header, Align: align}

		c := cell{col: l.col + len(l.text)}
		if col < len(cells) {
			c = cells[col]
		}
		node.Pos = mdast.SourcePos{Line: l.num, Column: c.col}
		node.Raw = rawText(c.text, node.Pos)
		mdast.AppendChild(row, node)
	}

	return row
}
