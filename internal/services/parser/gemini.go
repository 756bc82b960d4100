// -----------------------------------------------------------------------
// Gemini Document Parser - mortgage fact extraction via Google genai
// -----------------------------------------------------------------------

package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiParser implements DocumentParser using the Google genai client.
type GeminiParser struct {
	client     *genai.Client
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.DocumentParser = (*GeminiParser)(nil)

// NewGeminiParser creates a Gemini-backed document parser.
func NewGeminiParser(ctx context.Context, config *common.Config, logger arbor.ILogger) (*GeminiParser, error) {
	if config.Parser.APIKey == "" {
		return nil, fmt.Errorf("Google API key is required for the Gemini parser (set GEMINI_API_KEY or parser.api_key in config)")
	}

	model := config.Parser.Model
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.Parser.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	timeout := config.ParserTimeout()

	parser := &GeminiParser{
		client:     client,
		model:      model,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Msg("Gemini document parser initialized")

	return parser, nil
}

// ParseDocument extracts normalized loan facts from raw document bytes.
func (p *GeminiParser) ParseDocument(ctx context.Context, document []byte) (*models.ExtractedFacts, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("document cannot be empty")
	}

	text, err := documentText(document, p.logger)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	startTime := time.Now()
	response, err := p.complete(timeoutCtx, extractionPrompt+text)
	if err != nil {
		p.logger.Error().Err(err).Int("document_bytes", len(document)).Msg("Gemini extraction failed")
		return nil, err
	}

	facts, err := decodeExtraction(response)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Int("document_bytes", len(document)).
		Dur("duration", time.Since(startTime)).
		Float64("loan_amount", facts.LoanAmount).
		Msg("Gemini extraction completed")

	return facts, nil
}

// ParseDocumentFromURL fetches a remote document and extracts loan facts.
func (p *GeminiParser) ParseDocumentFromURL(ctx context.Context, fileURL string) (*models.ExtractedFacts, error) {
	document, err := downloadDocument(ctx, p.httpClient, fileURL)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(ctx, document)
}

// complete sends a single-turn extraction request and returns the generated
// text.
func (p *GeminiParser) complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
	}

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Gemini API")
	}

	return response.String(), nil
}
