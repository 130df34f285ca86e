package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/genai"

	"algowatch/internal/generation/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func responseWith(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: parts},
		}},
	}
}

func TestToolArguments(t *testing.T) {
	t.Run("forced call", func(t *testing.T) {
		resp := responseWith(&genai.Part{FunctionCall: &genai.FunctionCall{
			Name: "generate_advocacy_kit",
			Args: map[string]any{"letter": "L", "checklist": []any{}, "explainer": "E"},
		}})
		raw, err := toolArguments(resp, "generate_advocacy_kit")
		require.NoError(t, err)
		assert.JSONEq(t, `{"letter":"L","checklist":[],"explainer":"E"}`, string(raw))
	})

	t.Run("text only", func(t *testing.T) {
		_, err := toolArguments(responseWith(&genai.Part{Text: "prose"}), "generate_advocacy_kit")
		assert.ErrorIs(t, err, models.ErrNoToolCall)
	})

	t.Run("different function", func(t *testing.T) {
		resp := responseWith(&genai.Part{FunctionCall: &genai.FunctionCall{Name: "other", Args: map[string]any{}}})
		_, err := toolArguments(resp, "generate_advocacy_kit")
		assert.ErrorIs(t, err, models.ErrNoToolCall)
	})

	t.Run("nil response", func(t *testing.T) {
		_, err := toolArguments(nil, "generate_advocacy_kit")
		assert.ErrorIs(t, err, models.ErrNoToolCall)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"value api error", genai.APIError{Code: http.StatusTooManyRequests, Message: "RESOURCE_EXHAUSTED"}, http.StatusTooManyRequests},
		{"pointer api error", &genai.APIError{Code: http.StatusPaymentRequired}, http.StatusPaymentRequired},
		{"wrapped api error", fmt.Errorf("call: %w", genai.APIError{Code: http.StatusInternalServerError}), http.StatusInternalServerError},
		{"zero code", genai.APIError{Message: "odd"}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var statusErr *models.StatusError
			require.True(t, errors.As(classify(tt.err), &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
		})
	}

	t.Run("transport error is not a status", func(t *testing.T) {
		var statusErr *models.StatusError
		assert.False(t, errors.As(classify(errors.New("dial tcp: refused")), &statusErr))
	})
}

func TestContentConfigForcesFunction(t *testing.T) {
	cfg := contentConfig(models.Prompt{
		System:   "rules",
		User:     "input",
		ToolName: "generate_advocacy_kit",
		Schema:   map[string]any{"type": "object"},
	})

	require.Len(t, cfg.Tools, 1)
	require.Len(t, cfg.Tools[0].FunctionDeclarations, 1)
	assert.Equal(t, "generate_advocacy_kit", cfg.Tools[0].FunctionDeclarations[0].Name)
	assert.Equal(t, genai.FunctionCallingConfigModeAny, cfg.ToolConfig.FunctionCallingConfig.Mode)
	assert.Equal(t, []string{"generate_advocacy_kit"}, cfg.ToolConfig.FunctionCallingConfig.AllowedFunctionNames)
	assert.Equal(t, "rules", cfg.SystemInstruction.Parts[0].Text)
}
