// Package testdocx builds and inspects minimal DOCX files for tests.
package testdocx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/><Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/></Types>`

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/></Relationships>`

const coreProps = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:creator>test</dc:creator></cp:coreProperties>`

// Document describes a fixture. Tables are rows of cell texts. Styles names
// paragraph styles already present in word/styles.xml besides "Normal".
type Document struct {
	Paragraphs []string
	Tables     [][][]string
	Styles     []string
	NoCore     bool

	// RawTables are w:tbl elements appended after Tables, for layouts such
	// as merged cells that plain rows cannot express.
	RawTables []string
}

func Build(doc Document) ([]byte, error) {
	body, err := documentXML(doc)
	if err != nil {
		return nil, err
	}
	styles, err := stylesXML(doc.Styles)
	if err != nil {
		return nil, err
	}

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", rootRels},
		{"word/document.xml", body},
		{"word/styles.xml", styles},
	}
	if !doc.NoCore {
		parts = append(parts, struct {
			name string
			data string
		}{"docProps/core.xml", coreProps})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, p.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write builds doc into dir/name and returns the path.
func Write(t testing.TB, dir, name string, doc Document) string {
	t.Helper()

	data, err := Build(doc)
	if err != nil {
		t.Fatalf("build docx fixture: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write docx fixture: %v", err)
	}
	return path
}

func documentXML(doc Document) (string, error) {
	xml := etree.NewDocument()
	xml.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := xml.CreateElement("w:document")
	root.CreateAttr("xmlns:w", wordNamespace)
	body := root.CreateElement("w:body")

	for _, text := range doc.Paragraphs {
		paragraph(body, text)
	}
	for _, rows := range doc.Tables {
		tbl := body.CreateElement("w:tbl")
		for _, row := range rows {
			tr := tbl.CreateElement("w:tr")
			for _, text := range row {
				paragraph(tr.CreateElement("w:tc"), text)
			}
		}
		body.CreateElement("w:p")
	}
	for _, raw := range doc.RawTables {
		fragment := etree.NewDocument()
		if err := fragment.ReadFromString(raw); err != nil {
			return "", fmt.Errorf("parse raw table: %w", err)
		}
		if fragment.Root() == nil {
			return "", fmt.Errorf("parse raw table: empty fragment")
		}
		body.AddChild(fragment.Root())
		body.CreateElement("w:p")
	}
	body.CreateElement("w:sectPr")

	return xml.WriteToString()
}

func paragraph(parent *etree.Element, text string) {
	p := parent.CreateElement("w:p")
	if text == "" {
		return
	}
	p.CreateElement("w:r").CreateElement("w:t").SetText(text)
}

func stylesXML(names []string) (string, error) {
	xml := etree.NewDocument()
	xml.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := xml.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", wordNamespace)
	for _, name := range append([]string{"Normal"}, names...) {
		style := root.CreateElement("w:style")
		style.CreateAttr("w:type", "paragraph")
		style.CreateAttr("w:styleId", strings.ReplaceAll(name, " ", ""))
		style.CreateElement("w:name").CreateAttr("w:val", name)
	}
	return xml.WriteToString()
}

// Content is what a test usually wants to assert about a rendered DOCX.
type Content struct {
	// Paragraphs are the texts of the top-level body paragraphs.
	Paragraphs []string
	// ParagraphStyles are the w:pStyle ids of the same paragraphs.
	ParagraphStyles []string
	Tables          [][][]string
	Title           string
	StyleNames      []string
}

func Read(data []byte) (Content, error) {
	parts, err := readParts(data)
	if err != nil {
		return Content{}, err
	}

	var out Content
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(parts["word/document.xml"]); err != nil {
		return Content{}, fmt.Errorf("parse document: %w", err)
	}
	body := doc.FindElement("//w:body")
	if body == nil {
		return Content{}, fmt.Errorf("parse document: no body")
	}
	for _, p := range body.SelectElements("w:p") {
		out.Paragraphs = append(out.Paragraphs, text(p))
		style := ""
		if ps := p.FindElement("./w:pPr/w:pStyle"); ps != nil {
			style = ps.SelectAttrValue("w:val", "")
		}
		out.ParagraphStyles = append(out.ParagraphStyles, style)
	}
	for _, tbl := range body.SelectElements("w:tbl") {
		var rows [][]string
		for _, tr := range tbl.SelectElements("w:tr") {
			var cells []string
			for _, tc := range tr.SelectElements("w:tc") {
				var lines []string
				for _, p := range tc.SelectElements("w:p") {
					lines = append(lines, text(p))
				}
				cells = append(cells, strings.Join(lines, "\n"))
			}
			rows = append(rows, cells)
		}
		out.Tables = append(out.Tables, rows)
	}

	if core, ok := parts["docProps/core.xml"]; ok {
		coreDoc := etree.NewDocument()
		if err := coreDoc.ReadFromBytes(core); err != nil {
			return Content{}, fmt.Errorf("parse core properties: %w", err)
		}
		if title := coreDoc.FindElement("//dc:title"); title != nil {
			out.Title = title.Text()
		}
	}

	if styles, ok := parts["word/styles.xml"]; ok {
		stylesDoc := etree.NewDocument()
		if err := stylesDoc.ReadFromBytes(styles); err != nil {
			return Content{}, fmt.Errorf("parse styles: %w", err)
		}
		for _, name := range stylesDoc.FindElements("//w:style/w:name") {
			out.StyleNames = append(out.StyleNames, name.SelectAttrValue("w:val", ""))
		}
	}
	return out, nil
}

// ReadFile reads a DOCX from disk.
func ReadFile(t testing.TB, path string) Content {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read docx %s: %v", path, err)
	}
	content, err := Read(data)
	if err != nil {
		t.Fatalf("inspect docx %s: %v", path, err)
	}
	return content
}

func readParts(data []byte) (map[string][]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	parts := make(map[string][]byte, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		parts[f.Name] = content
	}
	return parts, nil
}

func text(p *etree.Element) string {
	var sb strings.Builder
	for _, t := range p.FindElements(".//w:t") {
		sb.WriteString(t.Text())
	}
	return sb.String()
}
