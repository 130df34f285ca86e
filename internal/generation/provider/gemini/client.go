// Package gemini calls the Gemini API directly through google.golang.org/genai,
// forcing the single kit function with FunctionCallingConfigModeAny.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"algowatch/internal/generation/models"
)

const providerName = "gemini"

// Client wraps a genai client bound to one model.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New creates the client. baseURL may be empty to use the public endpoint.
func New(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{client: client, model: model, timeout: timeout}, nil
}

func (c *Client) Name() string { return providerName }

func (c *Client) Complete(ctx context.Context, prompt models.Prompt) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.User), contentConfig(prompt))
	if err != nil {
		return nil, classify(err)
	}
	return toolArguments(resp, prompt.ToolName)
}

func contentConfig(prompt models.Prompt) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:                 prompt.ToolName,
				Description:          prompt.ToolDescription,
				ParametersJsonSchema: prompt.Schema,
			}},
		}},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: []string{prompt.ToolName},
			},
		},
	}
}

// toolArguments extracts the forced call's arguments as JSON.
func toolArguments(resp *genai.GenerateContentResponse, toolName string) ([]byte, error) {
	if resp == nil {
		return nil, models.ErrNoToolCall
	}
	for _, call := range resp.FunctionCalls() {
		if call == nil || call.Name != toolName || call.Args == nil {
			continue
		}
		raw, err := json.Marshal(call.Args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode function arguments: %w", err)
		}
		return raw, nil
	}
	return nil, models.ErrNoToolCall
}

// classify turns genai API errors into status errors. Gemini reports quota
// exhaustion as 429 RESOURCE_EXHAUSTED; billing problems surface as 402 only
// through OpenAI-compatible gateways.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return statusError(*apiErrPtr)
	}
	return fmt.Errorf("gemini request failed: %w", err)
}

func statusError(apiErr genai.APIError) error {
	code := apiErr.Code
	if code == 0 {
		code = http.StatusBadGateway
	}
	return &models.StatusError{
		Provider:   providerName,
		StatusCode: code,
		Body:       apiErr.Message,
	}
}
