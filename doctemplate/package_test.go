package doctemplate

import (
	"bytes"
	"testing"

	"docfill/internal/testdocx"
)

func TestPackageRoundTripKeepsPartOrder(t *testing.T) {
	t.Parallel()

	data, err := testdocx.Build(testdocx.Document{Paragraphs: []string{"x"}})
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	pkg, err := ReadPackage(data)
	if err != nil {
		t.Fatalf("ReadPackage returned error: %v", err)
	}

	pkg.SetPart("custom/extra.xml", []byte("<x/>"))
	pkg.SetPart(documentPart, []byte("<replaced/>"))

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	reread, err := ReadPackage(out)
	if err != nil {
		t.Fatalf("ReadPackage(rewritten) returned error: %v", err)
	}

	var names []string
	for _, p := range reread.parts {
		names = append(names, p.name)
	}
	want := []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml", "docProps/core.xml", "custom/extra.xml"}
	if len(names) != len(want) {
		t.Fatalf("parts = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("parts = %v, want %v", names, want)
		}
	}

	doc, _ := reread.Part(documentPart)
	if !bytes.Equal(doc, []byte("<replaced/>")) {
		t.Fatalf("document part = %q", doc)
	}
}
