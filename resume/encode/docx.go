package encode

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"strings"

	xhtml "golang.org/x/net/html"
)

// WordDOCX converts HTML to a minimal OOXML wordprocessing package. It keeps
// the document text and block structure (headings, paragraphs, bullets); the
// visual styling of the HTML is not carried over.
type WordDOCX struct{}

type docxParagraph struct {
	text    string
	heading int  // 0 = body text
	bullet  bool // list item
}

// Convert extracts block-level text from the HTML and packages it as a .docx.
func (WordDOCX) Convert(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paragraphs := extractParagraphs(html)
	return buildDocxPackage(paragraphs)
}

func extractParagraphs(raw string) []docxParagraph {
	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))

	var out []docxParagraph
	var current strings.Builder
	heading := 0
	bullet := false
	inStyle := false

	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		current.Reset()
		if text == "" {
			return
		}
		out = append(out, docxParagraph{text: text, heading: heading, bullet: bullet})
	}

	for {
		tt := tokenizer.Next()
		if tt == xhtml.ErrorToken {
			flush()
			return out
		}
		switch tt {
		case xhtml.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "style", "script", "head", "title":
				inStyle = true
			case "h1":
				flush()
				heading = 1
			case "h2":
				flush()
				heading = 2
			case "h3":
				flush()
				heading = 3
			case "p", "div", "ul":
				flush()
			case "li":
				flush()
				bullet = true
			}
		case xhtml.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "style", "script", "head", "title":
				inStyle = false
			case "h1", "h2", "h3":
				flush()
				heading = 0
			case "p", "div", "ul":
				flush()
			case "li":
				flush()
				bullet = false
			}
		case xhtml.TextToken:
			if inStyle {
				continue
			}
			text := string(tokenizer.Text())
			if strings.TrimSpace(text) == "" {
				continue
			}
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(strings.TrimSpace(text))
		}
	}
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

func buildDocxPackage(paragraphs []docxParagraph) ([]byte, error) {
	var output bytes.Buffer
	writer := zip.NewWriter(&output)

	files := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRootRels},
		{"word/document.xml", buildDocumentXML(paragraphs)},
	}
	for _, f := range files {
		w, err := writer.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func buildDocumentXML(paragraphs []docxParagraph) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString("\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, p := range paragraphs {
		b.WriteString("<w:p>")
		props := runProps(p)
		text := p.text
		if p.bullet {
			text = "• " + text
		}
		b.WriteString("<w:r>")
		if props != "" {
			b.WriteString(props)
		}
		b.WriteString(`<w:t xml:space="preserve">` + escapeXML(text) + `</w:t>`)
		b.WriteString("</w:r>")
		b.WriteString("</w:p>")
	}

	b.WriteString(`<w:sectPr/></w:body></w:document>`)
	return b.String()
}

func runProps(p docxParagraph) string {
	switch p.heading {
	case 1:
		return `<w:rPr><w:b/><w:sz w:val="40"/></w:rPr>`
	case 2:
		return `<w:rPr><w:b/><w:sz w:val="30"/></w:rPr>`
	case 3:
		return `<w:rPr><w:b/><w:sz w:val="26"/></w:rPr>`
	default:
		return ""
	}
}

func escapeXML(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

var _ Converter = WordDOCX{}
