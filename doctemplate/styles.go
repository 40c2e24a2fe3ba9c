package doctemplate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Style is a paragraph style the template is expected to carry. Size is in
// points.
type Style struct {
	Name string
	Font string
	Size int
	Bold bool
}

func (s Style) id() string {
	return strings.ReplaceAll(s.Name, " ", "")
}

type styleSheet struct {
	xml  *etree.Document
	root *etree.Element
}

func parseStyles(data []byte) (*styleSheet, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", stylesPart, err)
	}
	root := doc.SelectElement("w:styles")
	if root == nil {
		return nil, fmt.Errorf("parse %s: no w:styles element", stylesPart)
	}
	return &styleSheet{xml: doc, root: root}, nil
}

// ensure returns the id of the style named s.Name, adding a paragraph style
// built from s when the sheet has none.
func (ss *styleSheet) ensure(s Style) string {
	for _, el := range ss.root.SelectElements("w:style") {
		name := el.SelectElement("w:name")
		if name != nil && name.SelectAttrValue("w:val", "") == s.Name {
			return el.SelectAttrValue("w:styleId", s.id())
		}
	}

	el := ss.root.CreateElement("w:style")
	el.CreateAttr("w:type", "paragraph")
	el.CreateAttr("w:customStyle", "1")
	el.CreateAttr("w:styleId", s.id())
	el.CreateElement("w:name").CreateAttr("w:val", s.Name)
	el.CreateElement("w:qFormat")

	rpr := el.CreateElement("w:rPr")
	if s.Font != "" {
		fonts := rpr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", s.Font)
		fonts.CreateAttr("w:hAnsi", s.Font)
		fonts.CreateAttr("w:cs", s.Font)
	}
	bold := rpr.CreateElement("w:b")
	if !s.Bold {
		bold.CreateAttr("w:val", "0")
	}
	if s.Size > 0 {
		// w:sz is in half-points.
		rpr.CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(s.Size*2))
	}
	return s.id()
}

func (ss *styleSheet) bytes() ([]byte, error) {
	out, err := ss.xml.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", stylesPart, err)
	}
	return out, nil
}

const dcNamespace = "http://purl.org/dc/elements/1.1/"

// setCoreTitle sets dc:title in docProps/core.xml.
func setCoreTitle(data []byte, title string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", corePart, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse %s: empty document", corePart)
	}

	el := root.SelectElement("dc:title")
	if el == nil {
		if root.SelectAttr("xmlns:dc") == nil {
			root.CreateAttr("xmlns:dc", dcNamespace)
		}
		el = root.CreateElement("dc:title")
	}
	el.SetText(title)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", corePart, err)
	}
	return out, nil
}
