// Package generation turns a caller's classification of what happened into a
// structured advocacy kit through a completion provider.
package generation

import (
	"context"
	"log/slog"

	"algowatch/internal/generation/handler"
	"algowatch/internal/generation/provider/gemini"
	"algowatch/internal/generation/provider/openai"
	"algowatch/internal/generation/service"
	"algowatch/internal/platform/config"
)

const (
	defaultGatewayURL   = "https://ai.gateway.lovable.dev/v1"
	defaultGatewayModel = "google/gemini-3-flash-preview"
	defaultGeminiModel  = "gemini-2.5-flash"
)

// Service generates kits.
type Service = service.Service

// Handler wires HTTP endpoints to the generation service.
type Handler = handler.Handler

// NewProvider builds the configured provider, or nil when no API key is set.
func NewProvider(ctx context.Context, cfg config.GenerationConfig) (service.Provider, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		model := cfg.Model
		if model == "" {
			model = defaultGeminiModel
		}
		client, err := gemini.New(ctx, cfg.APIKey, model, cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		model, baseURL := cfg.Model, cfg.BaseURL
		if model == "" {
			model = defaultGatewayModel
		}
		if baseURL == "" {
			baseURL = defaultGatewayURL
		}
		return openai.New(cfg.APIKey, model, baseURL, cfg.Timeout), nil
	}
}

// NewService constructs the generation service.
func NewService(provider service.Provider, opts ...service.Option) *Service {
	return service.New(provider, opts...)
}

// NewHandler constructs the HTTP handler.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
