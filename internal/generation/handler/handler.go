package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"algowatch/internal/generation/models"
	"algowatch/pkg/platform/httputil"
	"algowatch/pkg/requestcontext"
)

// Service defines the generation operations the handler needs.
type Service interface {
	GenerateKit(ctx context.Context, req models.Request) (*models.Result, error)
}

// Handler serves POST /generate-kit. It requires no caller identity.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the generation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/generate-kit", h.HandleGenerateKit)
}

func (h *Handler) HandleGenerateKit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GenerateKitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.GenerateKit(ctx, req.ToModel())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
