// Package place resolves free-text place queries. Only a stub resolver exists
// until a geocoder is connected.
package place

import (
	"log/slog"

	"algowatch/internal/place/handler"
	"algowatch/internal/place/service"
)

type Handler = handler.Handler

func NewHandler(logger *slog.Logger) *Handler {
	return handler.New(service.NewStubResolver(), logger)
}
