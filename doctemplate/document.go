package doctemplate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// document is a parsed word/document.xml.
type document struct {
	xml  *etree.Document
	body *etree.Element
}

func parseDocument(data []byte) (*document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}
	body := doc.FindElement("//w:body")
	if body == nil {
		return nil, fmt.Errorf("parse %s: no w:body element", documentPart)
	}
	return &document{xml: doc, body: body}, nil
}

// tables returns the top-level tables of the body in document order.
func (d *document) tables() []*etree.Element {
	return d.body.SelectElements("w:tbl")
}

func tableRows(tbl *etree.Element) []*etree.Element {
	return tbl.SelectElements("w:tr")
}

// tableGrid lays the cells of a table out on its grid the way Word shows
// them. A cell spanning n grid columns appears n times, columns skipped by
// w:gridBefore are nil, and a vertically merged continuation cell resolves to
// the cell it continues in the row above.
func tableGrid(tbl *etree.Element) [][]*etree.Element {
	rows := tableRows(tbl)
	grid := make([][]*etree.Element, len(rows))
	for ri, tr := range rows {
		var cells []*etree.Element
		for range gridValue(tr.FindElement("./w:trPr/w:gridBefore"), 0) {
			cells = append(cells, nil)
		}
		for _, tc := range tr.SelectElements("w:tc") {
			owner := tc
			if ri > 0 && continuesMerge(tc) {
				if above := grid[ri-1]; len(cells) < len(above) && above[len(cells)] != nil {
					owner = above[len(cells)]
				}
			}
			for range max(gridValue(tc.FindElement("./w:tcPr/w:gridSpan"), 1), 1) {
				cells = append(cells, owner)
			}
		}
		grid[ri] = cells
	}
	return grid
}

func gridValue(el *etree.Element, fallback int) int {
	if el == nil {
		return fallback
	}
	n, err := strconv.Atoi(el.SelectAttrValue("w:val", ""))
	if err != nil {
		return fallback
	}
	return n
}

// continuesMerge reports a w:vMerge cell that is not the start of its merge.
func continuesMerge(tc *etree.Element) bool {
	vm := tc.FindElement("./w:tcPr/w:vMerge")
	return vm != nil && vm.SelectAttrValue("w:val", "continue") == "continue"
}

// cellText is the plain text of a cell, one line per paragraph.
func cellText(tc *etree.Element) string {
	paragraphs := tc.SelectElements("w:p")
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		lines = append(lines, paragraphText(p))
	}
	return strings.Join(lines, "\n")
}

func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	for _, r := range p.FindElements(".//w:r") {
		for _, child := range r.ChildElements() {
			switch child.Tag {
			case "t":
				sb.WriteString(child.Text())
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// setCellText replaces the content of a cell with a single centered
// paragraph holding text. styleID may be empty.
func setCellText(tc *etree.Element, text, styleID string) {
	for _, child := range tc.ChildElements() {
		if child.Space == "w" && child.Tag == "tcPr" {
			continue
		}
		tc.RemoveChild(child)
	}

	p := tc.CreateElement("w:p")
	ppr := p.CreateElement("w:pPr")
	if styleID != "" {
		ppr.CreateElement("w:pStyle").CreateAttr("w:val", styleID)
	}
	spacing := ppr.CreateElement("w:spacing")
	spacing.CreateAttr("w:before", "0")
	spacing.CreateAttr("w:after", "0")
	ppr.CreateElement("w:jc").CreateAttr("w:val", "center")
	addRun(p, text)
}

// insertTitle puts a centered paragraph before the first body paragraph, or
// at the top of the body when there is none.
func (d *document) insertTitle(title, styleID string) {
	p := etree.NewElement("w:p")
	ppr := p.CreateElement("w:pPr")
	if styleID != "" {
		ppr.CreateElement("w:pStyle").CreateAttr("w:val", styleID)
	}
	ppr.CreateElement("w:jc").CreateAttr("w:val", "center")
	addRun(p, title)

	index := 0
	if first := d.body.SelectElement("w:p"); first != nil {
		index = first.Index()
	}
	d.body.InsertChildAt(index, p)
}

func addRun(p *etree.Element, text string) {
	r := p.CreateElement("w:r")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		t := r.CreateElement("w:t")
		if strings.TrimSpace(line) != line {
			t.CreateAttr("xml:space", "preserve")
		}
		t.SetText(line)
	}
}

func (d *document) bytes() ([]byte, error) {
	out, err := d.xml.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", documentPart, err)
	}
	return out, nil
}
