package encode

import (
	"context"
	"errors"
	"strings"
)

// Output formats accepted by the encoder.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

const (
	contentTypeHTML = "text/html"
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedFormat indicates an unknown output format. It is returned
// before any conversion or I/O happens.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Converter turns a rendered HTML document into bytes of another format.
type Converter interface {
	Convert(ctx context.Context, html string) ([]byte, error)
}

// Result is the encoded artifact plus the metadata the caller persists.
type Result struct {
	Bytes       []byte
	ContentType string
	Extension   string
	FormatTag   string
}

// Encoder produces format-negotiated bytes from rendered HTML. PDF and DOCX
// conversion are pluggable so a real converter can replace the placeholder
// without changing callers.
type Encoder struct {
	PDF  Converter
	DOCX Converter
}

// NewEncoder constructs an Encoder, substituting the HTML-passthrough
// placeholder for any converter left nil.
func NewEncoder(pdf, docx Converter) *Encoder {
	if pdf == nil {
		pdf = Placeholder{}
	}
	if docx == nil {
		docx = Placeholder{}
	}
	return &Encoder{PDF: pdf, DOCX: docx}
}

// Encode converts the HTML document to the requested format. The format is
// matched case-insensitively; an unknown format fails up front.
func (e *Encoder) Encode(ctx context.Context, html string, format string) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatHTML:
		return Result{
			Bytes:       []byte(html),
			ContentType: contentTypeHTML,
			Extension:   ".html",
			FormatTag:   "HTML",
		}, nil
	case FormatPDF:
		data, err := e.PDF.Convert(ctx, html)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Bytes:       data,
			ContentType: contentTypePDF,
			Extension:   ".pdf",
			FormatTag:   "PDF",
		}, nil
	case FormatDOCX:
		data, err := e.DOCX.Convert(ctx, html)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Bytes:       data,
			ContentType: contentTypeDOCX,
			Extension:   ".docx",
			FormatTag:   "DOCX",
		}, nil
	default:
		return Result{}, ErrUnsupportedFormat
	}
}

// ContentTypeFor maps a stored format tag back to its content type. The tag
// is matched case-insensitively, so both "pdf" and "PDF" resolve.
func ContentTypeFor(format string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatHTML:
		return contentTypeHTML, true
	case FormatPDF:
		return contentTypePDF, true
	case FormatDOCX:
		return contentTypeDOCX, true
	default:
		return "", false
	}
}

// ExtensionFor maps a stored format tag to its file extension.
func ExtensionFor(format string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatHTML:
		return ".html", true
	case FormatPDF:
		return ".pdf", true
	case FormatDOCX:
		return ".docx", true
	default:
		return "", false
	}
}

// Placeholder stands in for a real converter and returns the HTML bytes
// unchanged. Kept from the original behavior; callers still receive the
// negotiated content type of the requested format.
type Placeholder struct{}

// Convert returns the input HTML as UTF-8 bytes.
func (Placeholder) Convert(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(html), nil
}

var _ Converter = Placeholder{}
