package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maadv/parecer/internal/common"
)

func TestNewProvider_MissingKey(t *testing.T) {
	config := common.NewDefaultConfig()
	factory := NewFactory(config, common.GetLogger())

	_, err := factory.NewProvider(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewProvider_ClientKeyRejected(t *testing.T) {
	config := common.NewDefaultConfig()
	require.False(t, config.Server.AllowClientKey)
	factory := NewFactory(config, common.GetLogger())

	_, err := factory.NewProvider(context.Background(), "client-supplied-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accepted")
}

func TestNewProvider_ClaudeDefault(t *testing.T) {
	config := common.NewDefaultConfig()
	config.LLM.DefaultProvider = common.LLMProviderClaude
	config.Claude.APIKey = "test-key"
	factory := NewFactory(config, common.GetLogger())

	provider, err := factory.NewProvider(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "claude", provider.Name())
	assert.False(t, provider.SupportsFiles())
}
