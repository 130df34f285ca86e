// Package kit manages saved advocacy kits: saving generated results,
// duplicating, publishing to the community library and owner reads.
package kit

import (
	"database/sql"
	"log/slog"

	"algowatch/internal/kit/handler"
	"algowatch/internal/kit/service"
	"algowatch/internal/kit/store"
)

// Service manages the kit lifecycle.
type Service = service.Service

// Handler wires HTTP endpoints to the kit service.
type Handler = handler.Handler

// NewStores returns the owner and system handles. A nil db selects the
// in-process store.
func NewStores(db *sql.DB) (service.OwnerStore, service.SystemReader) {
	if db == nil {
		mem := store.NewInMemoryStore()
		return mem.Owner(), mem.System()
	}
	return store.NewPostgresOwnerStore(db), store.NewPostgresSystemReader(db)
}

// NewService constructs the kit service.
func NewService(owner service.OwnerStore, system service.SystemReader, opts ...service.Option) (*Service, error) {
	return service.New(owner, system, opts...)
}

// NewHandler constructs the HTTP handler.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
