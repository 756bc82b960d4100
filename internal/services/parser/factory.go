package parser

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/interfaces"
)

// New creates the document parser named by parser.provider in config.
func New(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.DocumentParser, error) {
	switch config.Parser.Provider {
	case "claude":
		return NewClaudeParser(config, logger)
	case "gemini":
		return NewGeminiParser(ctx, config, logger)
	default:
		return nil, fmt.Errorf("unknown parser provider %q", config.Parser.Provider)
	}
}
