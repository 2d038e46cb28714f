package documents

import (
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/gen2brain/go-fitz"
)

// Parser extracts the full text of a document file
type Parser interface {
	Parse(filePath string) (string, error)
}

// PDFParser parses PDF files
type PDFParser struct{}

// Parse extracts text from every page of a PDF, pages separated by a
// blank line
func (p *PDFParser) Parse(filePath string) (string, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err == nil && strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

// WordParser parses Word documents (.docx and legacy .doc)
type WordParser struct{}

// Parse extracts the document body text
func (p *WordParser) Parse(filePath string) (string, error) {
	res, err := docconv.ConvertPath(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read Word document: %w", err)
	}

	return res.Body, nil
}
