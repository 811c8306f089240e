package encode

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestEncodeHTMLPassthrough(t *testing.T) {
	enc := NewEncoder(nil, nil)
	doc := "<html><body><h1>Jane</h1></body></html>"

	got, err := enc.Encode(context.Background(), doc, "html")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(got.Bytes) != doc {
		t.Fatalf("html bytes altered")
	}
	if got.ContentType != "text/html" || got.Extension != ".html" || got.FormatTag != "HTML" {
		t.Fatalf("unexpected metadata: %+v", got)
	}
}

func TestEncodeFormatCaseInsensitive(t *testing.T) {
	enc := NewEncoder(nil, nil)
	for _, format := range []string{"PDF", "Pdf", " pdf "} {
		got, err := enc.Encode(context.Background(), "<p>x</p>", format)
		if err != nil {
			t.Fatalf("Encode(%q): %v", format, err)
		}
		if got.FormatTag != "PDF" || got.Extension != ".pdf" {
			t.Fatalf("Encode(%q) metadata: %+v", format, got)
		}
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	enc := NewEncoder(nil, nil)
	_, err := enc.Encode(context.Background(), "<p>x</p>", "rtf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

type failingConverter struct{}

func (failingConverter) Convert(ctx context.Context, html string) ([]byte, error) {
	return nil, errors.New("converter down")
}

func TestEncodeConverterErrorPropagates(t *testing.T) {
	enc := NewEncoder(failingConverter{}, nil)
	_, err := enc.Encode(context.Background(), "<p>x</p>", "pdf")
	if err == nil || !strings.Contains(err.Error(), "converter down") {
		t.Fatalf("expected converter error, got %v", err)
	}
}

func TestContentTypeAndExtensionFor(t *testing.T) {
	cases := []struct {
		format      string
		contentType string
		extension   string
	}{
		{"html", "text/html", ".html"},
		{"PDF", "application/pdf", ".pdf"},
		{"DOCX", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
	}
	for _, tc := range cases {
		ct, ok := ContentTypeFor(tc.format)
		if !ok || ct != tc.contentType {
			t.Fatalf("ContentTypeFor(%q) = %q, %v", tc.format, ct, ok)
		}
		ext, ok := ExtensionFor(tc.format)
		if !ok || ext != tc.extension {
			t.Fatalf("ExtensionFor(%q) = %q, %v", tc.format, ext, ok)
		}
	}

	if _, ok := ContentTypeFor("rtf"); ok {
		t.Fatalf("ContentTypeFor accepted unknown format")
	}
	if _, ok := ExtensionFor(""); ok {
		t.Fatalf("ExtensionFor accepted empty format")
	}
}

func TestWordDOCXProducesValidPackage(t *testing.T) {
	doc := `<html><head><style>h1{color:red}</style></head><body>
<h1>Jane Doe</h1>
<h2>Experience</h2>
<ul><li>Shipped the tracker.</li><li>Cut costs &amp; latency.</li></ul>
</body></html>`

	data, err := WordDOCX{}.Convert(context.Background(), doc)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}

	var body string
	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		body = string(raw)
	}
	if body == "" {
		t.Fatalf("word/document.xml missing from package")
	}

	if !strings.Contains(body, "Jane Doe") {
		t.Fatalf("document text missing heading")
	}
	if !strings.Contains(body, "Shipped the tracker.") {
		t.Fatalf("document text missing bullet")
	}
	if !strings.Contains(body, "Cut costs &amp; latency.") {
		t.Fatalf("expected XML-escaped ampersand")
	}
	if strings.Contains(body, "color:red") {
		t.Fatalf("stylesheet text leaked into document body")
	}
}

func TestWordDOCXHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (WordDOCX{}).Convert(ctx, "<p>x</p>"); err == nil {
		t.Fatalf("expected context error")
	}
}
