package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>5 years of experience in Go and PostgreSQL</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func minimalDOCX(t *testing.T) []byte {
	return buildZip(t, map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	})
}

func TestTextFromDOCXViaZipMime(t *testing.T) {
	text, err := Text(context.Background(), minimalDOCX(t), "application/zip", "cv.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.HasPrefix(text, "Jane Doe\n") || !strings.Contains(text, "Go and PostgreSQL") {
		t.Fatalf("unexpected docx text %q", text)
	}
}

func TestTextRejectsPlainZip(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})
	_, err := Text(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTextPlain(t *testing.T) {
	text, err := Text(context.Background(), []byte("Go developer"), "text/plain; charset=utf-8", "cv.txt")
	if err != nil || text != "Go developer" {
		t.Fatalf("Text = %q, %v", text, err)
	}
	if _, err := Text(context.Background(), []byte{0xff, 0xfe}, "text/plain", "cv.txt"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected invalid utf-8 to be rejected, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		mime string
		name string
		want string
	}{
		{mime: "application/pdf", name: "x", want: MimePDF},
		{mime: "application/octet-stream", name: "CV.PDF", want: MimePDF},
		{mime: "", name: "cv.docx", want: MimeDOCX},
		{mime: "", name: "cv.txt", want: MimePlain},
		{mime: "image/png", name: "cv.pdf", want: "image/png"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.mime, tt.name, nil); got != tt.want {
			t.Fatalf("Normalize(%q, %q) = %q, want %q", tt.mime, tt.name, got, tt.want)
		}
	}
}

func TestTextHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Text(ctx, []byte("x"), MimePlain, "x.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
