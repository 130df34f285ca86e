package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"algowatch/internal/kit/models"
	id "algowatch/pkg/domain"
	"algowatch/pkg/platform/httputil"
	"algowatch/pkg/platform/middleware/auth"
	"algowatch/pkg/requestcontext"
)

// Service defines the kit lifecycle operations the handler needs.
type Service interface {
	CreateKit(ctx context.Context, owner id.UserID, content models.Content) (*models.Kit, error)
	DuplicateKit(ctx context.Context, caller id.UserID, kitID id.KitID) (*models.Kit, error)
	SetPublication(ctx context.Context, caller id.UserID, change models.PublicationChange) error
	GetKit(ctx context.Context, caller id.UserID, kitID id.KitID) (*models.Kit, error)
	ListKits(ctx context.Context, caller id.UserID) ([]*models.Kit, error)
	DeleteKit(ctx context.Context, caller id.UserID, kitID id.KitID) error
	Library(ctx context.Context, filter models.LibraryFilter) ([]models.LibraryEntry, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the routes that act as the caller. Mount them behind
// auth.RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kits", h.HandleCreateKit)
	r.Get("/kits", h.HandleListKits)
	r.Get("/kits/{id}", h.HandleGetKit)
	r.Delete("/kits/{id}", h.HandleDeleteKit)
	r.Post("/duplicate-kit", h.HandleDuplicateKit)
	r.Post("/share-kit", h.HandleShareKit)
}

// RegisterPublic registers the routes that need no caller identity.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/library", h.HandleLibrary)
}

func (h *Handler) HandleCreateKit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, err := auth.Caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SaveKitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	kit, err := h.service.CreateKit(ctx, caller, req.ToContent())
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create kit", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, IDResponse{ID: kit.ID.String()})
}

func (h *Handler) HandleListKits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := auth.Caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	kits, err := h.service.ListKits(ctx, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := KitListResponse{Kits: make([]KitResponse, 0, len(kits))}
	for _, k := range kits {
		resp.Kits = append(resp.Kits, toKitResponse(k))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetKit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := auth.Caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	kitID, err := id.ParseKitID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	kit, err := h.service.GetKit(ctx, caller, kitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toKitResponse(kit))
}

func (h *Handler) HandleDeleteKit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := auth.Caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	kitID, err := id.ParseKitID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteKit(ctx, caller, kitID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w)
}

func (h *Handler) HandleDuplicateKit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, err := auth.Caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[DuplicateKitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	kit, err := h.service.DuplicateKit(ctx, caller, req.kitID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to duplicate kit", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, IDResponse{ID: kit.ID.String()})
}

func (h *Handler) HandleShareKit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, err := auth.Caller(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ShareKitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SetPublication(ctx, caller, req.ToModel()); err != nil {
		h.logger.WarnContext(ctx, "failed to change publication", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w)
}

func (h *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter models.LibraryFilter
	if raw := r.URL.Query().Get("care_setting"); raw != "" {
		careSetting, err := id.ParseCareSetting(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.CareSetting = careSetting
	}
	if raw := r.URL.Query().Get("audience"); raw != "" {
		audience, err := id.ParseAudience(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Audience = audience
	}

	entries, err := h.service.Library(ctx, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := LibraryResponse{Kits: make([]LibraryEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Kits = append(resp.Kits, toLibraryEntryResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
