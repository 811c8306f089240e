package uploads

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// detectFileType parses the file to prove it really is a PDF or DOCX.
// Sniffing the first bytes is not enough; a truncated or repackaged file
// should be rejected before it reaches storage.
func detectFileType(data []byte) (string, error) {
	if isPDF(data) {
		return mimePDF, nil
	}
	if isDOCX(data) {
		return mimeDOCX, nil
	}
	return "", fmt.Errorf("%w: expected a PDF or DOCX document", ErrUnsupportedFile)
}

func isPDF(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return false
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return reader.NumPage() > 0
}

func isDOCX(data []byte) bool {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			return true
		}
	}
	return false
}
