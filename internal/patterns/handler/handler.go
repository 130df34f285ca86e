package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"algowatch/internal/patterns/models"
	dErrors "algowatch/pkg/domain-errors"
	"algowatch/pkg/platform/httputil"
	"algowatch/pkg/requestcontext"
)

const maxPlaceIDLength = 200

// Service defines the aggregation operation the handler needs.
type Service interface {
	Aggregate(ctx context.Context, placeID string) (*models.Summary, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the aggregation route. It needs no caller identity.
func (h *Handler) Register(r chi.Router) {
	r.Post("/get-patterns", h.HandleGetPatterns)
}

// GetPatternsRequest is the body of POST /get-patterns. An empty body asks
// for the global summary.
type GetPatternsRequest struct {
	PlaceID string `json:"placeId"`
}

func (r *GetPatternsRequest) Validate() error {
	r.PlaceID = strings.TrimSpace(r.PlaceID)
	if len(r.PlaceID) > maxPlaceIDLength {
		return dErrors.New(dErrors.CodeValidation, "place id is too long")
	}
	return nil
}

func (h *Handler) HandleGetPatterns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GetPatternsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	summary, err := h.service.Aggregate(ctx, req.PlaceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summary)
}
