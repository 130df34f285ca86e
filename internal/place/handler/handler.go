package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"algowatch/internal/place/models"
	"algowatch/pkg/platform/httputil"
	"algowatch/pkg/requestcontext"
)

// Resolver maps a free-text query to candidate places.
type Resolver interface {
	Resolve(ctx context.Context, query string) ([]models.Place, error)
}

type Handler struct {
	resolver Resolver
	logger   *slog.Logger
}

func New(resolver Resolver, logger *slog.Logger) *Handler {
	return &Handler{resolver: resolver, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/resolve-place", h.HandleResolvePlace)
}

type ResolvePlaceRequest struct {
	Query string `json:"query"`
}

// Validate leaves query rules to the resolver.
func (r *ResolvePlaceRequest) Validate() error { return nil }

type ResolvePlaceResponse struct {
	Places []models.Place `json:"places"`
}

func (h *Handler) HandleResolvePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ResolvePlaceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	places, err := h.resolver.Resolve(ctx, req.Query)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ResolvePlaceResponse{Places: places})
}
