// -----------------------------------------------------------------------
// Claude Document Parser - mortgage fact extraction via the Anthropic API
// -----------------------------------------------------------------------

package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/models"
)

const defaultClaudeModel = "claude-sonnet-4-20250514"

// ClaudeParser implements DocumentParser using Anthropic's Messages API.
// Documents are reduced to plain text before prompting so the same extraction
// prompt serves both providers.
type ClaudeParser struct {
	client     anthropic.Client
	model      string
	maxTokens  int
	timeout    time.Duration
	httpClient *http.Client
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.DocumentParser = (*ClaudeParser)(nil)

// NewClaudeParser creates a Claude-backed document parser.
func NewClaudeParser(config *common.Config, logger arbor.ILogger) (*ClaudeParser, error) {
	if config.Parser.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for the Claude parser (set ANTHROPIC_API_KEY or parser.api_key in config)")
	}

	model := config.Parser.Model
	if model == "" {
		model = defaultClaudeModel
	}

	maxTokens := config.Parser.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	timeout := config.ParserTimeout()

	parser := &ClaudeParser{
		client:     anthropic.NewClient(option.WithAPIKey(config.Parser.APIKey)),
		model:      model,
		maxTokens:  maxTokens,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude document parser initialized")

	return parser, nil
}

// ParseDocument extracts normalized loan facts from raw document bytes.
func (p *ClaudeParser) ParseDocument(ctx context.Context, document []byte) (*models.ExtractedFacts, error) {
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
		p.logger.Error().Err(err).Int("document_bytes", len(document)).Msg("Claude extraction failed")
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
		Msg("Claude extraction completed")

	return facts, nil
}

// ParseDocumentFromURL fetches a remote document and extracts loan facts.
func (p *ClaudeParser) ParseDocumentFromURL(ctx context.Context, fileURL string) (*models.ExtractedFacts, error) {
	document, err := downloadDocument(ctx, p.httpClient, fileURL)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(ctx, document)
}

// complete sends a single-turn extraction request and returns the text blocks
// of the response.
func (p *ClaudeParser) complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}

	return response.String(), nil
}
