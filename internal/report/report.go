// Package report accepts de-identified disclosure reports and lists a
// caller's own reports.
package report

import (
	"context"
	"database/sql"
	"log/slog"

	"algowatch/internal/report/handler"
	"algowatch/internal/report/models"
	"algowatch/internal/report/service"
	"algowatch/internal/report/store"
)

// Service accepts reports.
type Service = service.Service

// Handler wires HTTP endpoints to the report service.
type Handler = handler.Handler

// SystemReader reads shared report facts across owners for aggregation.
type SystemReader interface {
	ListSharedFacts(ctx context.Context, placeID string) ([]models.SharedFacts, error)
}

// NewStores returns the owner and system handles. A nil db selects the
// in-process store.
func NewStores(db *sql.DB) (service.OwnerStore, SystemReader) {
	if db == nil {
		mem := store.NewInMemoryStore()
		return mem.Owner(), mem.System()
	}
	return store.NewPostgresOwnerStore(db), store.NewPostgresSystemReader(db)
}

func NewService(owner service.OwnerStore, opts ...service.Option) (*Service, error) {
	return service.New(owner, opts...)
}

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
