package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server. The write timeout leaves room for one full
// generation round trip.
func New(addr string, handler http.Handler, generationTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      generationTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
