package interfaces

import (
	"context"

	"github.com/ternarybob/loanlens/internal/models"
)

// DocumentParser extracts structured mortgage facts from a document.
// Implementations apply the extractor-side defaulting policy (email sentinel,
// credit score default and clamp, numeric coercion) before returning, so
// callers always receive a fully normalized schema.
type DocumentParser interface {
	// ParseDocument extracts facts from raw document bytes (PDF or plain text).
	ParseDocument(ctx context.Context, document []byte) (*models.ExtractedFacts, error)

	// ParseDocumentFromURL fetches the document at the given URL and extracts
	// facts from it.
	ParseDocumentFromURL(ctx context.Context, fileURL string) (*models.ExtractedFacts, error)
}
