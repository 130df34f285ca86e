package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algowatch/internal/generation/provider/openai"
	"algowatch/internal/platform/config"
)

func TestNewProviderWithoutKeyIsUnavailable(t *testing.T) {
	provider, err := NewProvider(context.Background(), config.GenerationConfig{Provider: config.ProviderOpenAI})
	require.NoError(t, err)
	assert.Nil(t, provider)
}

func TestNewProviderDefaultsToGateway(t *testing.T) {
	provider, err := NewProvider(context.Background(), config.GenerationConfig{
		Provider: config.ProviderOpenAI,
		APIKey:   "key",
	})
	require.NoError(t, err)
	require.IsType(t, &openai.Client{}, provider)
	assert.Equal(t, "openai", provider.Name())
}
