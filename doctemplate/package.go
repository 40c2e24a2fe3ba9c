package doctemplate

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"
)

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"
	corePart     = "docProps/core.xml"
)

type part struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

// Package is an unpacked DOCX container. Parts keep their original order and
// compression method so that a rewritten file differs from its source only in
// the parts that were replaced.
type Package struct {
	parts []*part
}

func ReadPackage(data []byte) (*Package, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx container: %w", err)
	}

	pkg := &Package{parts: make([]*part, 0, len(r.File))}
	for _, f := range r.File {
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, err)
		}
		pkg.parts = append(pkg.parts, &part{
			name:     f.Name,
			method:   f.Method,
			modified: f.Modified,
			data:     content,
		})
	}
	return pkg, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Part returns the content of a part by its name inside the container.
func (p *Package) Part(name string) ([]byte, bool) {
	for _, pt := range p.parts {
		if pt.name == name {
			return pt.data, true
		}
	}
	return nil, false
}

// SetPart replaces a part, or appends it when the container has no part of
// that name.
func (p *Package) SetPart(name string, data []byte) {
	for _, pt := range p.parts {
		if pt.name == name {
			pt.data = data
			return
		}
	}
	p.parts = append(p.parts, &part{name: name, method: zip.Deflate, modified: time.Now(), data: data})
}

func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, pt := range p.parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     pt.name,
			Method:   pt.method,
			Modified: pt.modified,
		})
		if err != nil {
			return nil, fmt.Errorf("write part %s: %w", pt.name, err)
		}
		if _, err := w.Write(pt.data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx container: %w", err)
	}
	return buf.Bytes(), nil
}
