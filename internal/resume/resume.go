// Package resume extracts text from uploaded PDF resumes and matches it
// against a skill vocabulary.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/utils"
)

// PreviewLength is the number of characters returned as text_preview.
const PreviewLength = 500

var (
	ErrEmptyFile = errors.New("uploaded file is empty")
	ErrNotPDF    = errors.New("only PDF files are supported")
)

var pdfMagic = []byte("%PDF-")

type Result struct {
	Skills      []string `json:"skills"`
	TextPreview string   `json:"text_preview"`
}

// Validate checks an upload before parsing. The file must be named *.pdf or
// start with the PDF signature.
func Validate(filename string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") && !bytes.HasPrefix(data, pdfMagic) {
		return ErrNotPDF
	}
	return nil
}

// Parse validates and extracts an upload. Validation failures are returned
// as ErrEmptyFile or ErrNotPDF, anything else is an extraction error.
func Parse(filename string, data []byte) (*Result, error) {
	if err := Validate(filename, data); err != nil {
		return nil, err
	}

	text, err := Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	return &Result{
		Skills:      MatchSkills(text),
		TextPreview: utils.Preview(text, PreviewLength),
	}, nil
}

// Extract returns the plain text of a PDF document.
func Extract(r io.ReaderAt, size int64) (text string, err error) {
	// The pdf reader panics on some malformed documents.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
