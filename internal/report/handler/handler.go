package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"algowatch/internal/report/models"
	id "algowatch/pkg/domain"
	"algowatch/pkg/platform/httputil"
	"algowatch/pkg/platform/middleware/auth"
	"algowatch/pkg/requestcontext"
)

// Service defines the report operations the handler needs.
type Service interface {
	CreateReport(ctx context.Context, owner id.UserID, draft models.Draft) (*models.Report, error)
	ListMine(ctx context.Context, owner id.UserID) ([]*models.Report, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the report routes. Mount them behind auth.RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/create-report", h.HandleCreateReport)
	r.Get("/reports", h.HandleListReports)
}

func (h *Handler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, err := auth.Caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateReportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if _, err := h.service.CreateReport(ctx, caller, req.ToModel()); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w)
}

type ReportResponse struct {
	ID             string    `json:"id"`
	KitID          *string   `json:"kit_id"`
	CareSetting    string    `json:"care_setting"`
	Tags           []string  `json:"tags"`
	ShortText      string    `json:"short_text,omitempty"`
	PlaceID        string    `json:"place_id,omitempty"`
	PlaceName      string    `json:"place_name,omitempty"`
	LocationBucket string    `json:"location_bucket,omitempty"`
	Visibility     string    `json:"visibility"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
}

func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := auth.Caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reports, err := h.service.ListMine(ctx, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := ReportListResponse{Reports: make([]ReportResponse, 0, len(reports))}
	for _, rep := range reports {
		item := ReportResponse{
			ID:             rep.ID.String(),
			CareSetting:    string(rep.CareSetting),
			Tags:           id.TagStrings(rep.Tags),
			ShortText:      rep.ShortText,
			PlaceID:        rep.PlaceID,
			PlaceName:      rep.PlaceName,
			LocationBucket: rep.LocationBucket,
			Visibility:     string(rep.Visibility),
			CreatedAt:      rep.CreatedAt,
		}
		if rep.KitID != nil {
			kitID := rep.KitID.String()
			item.KitID = &kitID
		}
		resp.Reports = append(resp.Reports, item)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
