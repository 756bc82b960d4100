// -----------------------------------------------------------------------
// Document Text Extraction - PDF to plain text via pdfcpu
// Non-PDF payloads are treated as plain text.
// -----------------------------------------------------------------------

package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
)

var pdfMagic = []byte("%PDF")

// documentText converts raw document bytes to the plain text fed into the
// extraction prompt. PDFs go through pdfcpu; everything else is assumed to
// already be text.
func documentText(document []byte, logger arbor.ILogger) (string, error) {
	if !bytes.HasPrefix(document, pdfMagic) {
		return string(document), nil
	}

	text, err := extractPDFText(document)
	if err != nil {
		logger.Warn().Err(err).Msg("PDF text extraction failed, falling back to raw bytes")
		return string(document), nil
	}
	return text, nil
}

// extractPDFText extracts text from PDF bytes. pdfcpu operates on files, so
// the document is staged in a temp directory for the duration of the call.
func extractPDFText(document []byte) (string, error) {
	tempDir, err := os.MkdirTemp("", "loanlens-pdf-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, "document.pdf")
	if err := os.WriteFile(tempFile, document, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp PDF file: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF context: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(tempDir, "pages")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction dir: %w", err)
	}

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	files, _ := os.ReadDir(outDir)
	pageTexts := make(map[int]string)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var fullText strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text, ok := pageTexts[pageNum]
		if !ok {
			continue
		}
		if fullText.Len() > 0 {
			fullText.WriteString("\n\n")
		}
		fullText.WriteString(text)
	}

	if fullText.Len() == 0 {
		return "", fmt.Errorf("no text extracted from %d page PDF", pageCount)
	}

	return fullText.String(), nil
}
