package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxDocumentBytes caps how much of a remote document is read. Loan packets
// are rarely above a few megabytes; anything larger is likely not a document.
const maxDocumentBytes = 32 << 20

// downloadDocument fetches a remote document so that URL-based analysis can
// reuse the byte-oriented extraction path.
func downloadDocument(ctx context.Context, client *http.Client, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid document URL: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document fetch returned status %d", resp.StatusCode)
	}

	document, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read document body: %w", err)
	}
	if len(document) == 0 {
		return nil, fmt.Errorf("document fetch returned empty body")
	}

	return document, nil
}
