package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
)

// Factory creates providers by configuration or per-request key
type Factory struct {
	config *common.Config
	logger arbor.ILogger
}

// NewFactory creates a provider factory
func NewFactory(config *common.Config, logger arbor.ILogger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// NewProvider creates the configured default provider. An empty
// apiKey uses the server-managed key; a non-empty one is a
// client-supplied override, only honored when the server allows it.
func (f *Factory) NewProvider(ctx context.Context, apiKey string) (interfaces.LLMProvider, error) {
	if apiKey != "" && !f.config.Server.AllowClientKey {
		return nil, fmt.Errorf("client-supplied API keys are not accepted by this server")
	}

	switch f.config.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		return NewClaudeProvider(&f.config.Claude, apiKey, f.logger)
	case common.LLMProviderGemini:
		return NewGeminiProvider(ctx, &f.config.Gemini, apiKey, f.logger)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", f.config.LLM.DefaultProvider)
	}
}
