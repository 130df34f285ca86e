package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"algowatch/internal/place/service"
	"algowatch/pkg/testutil"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	New(service.NewStubResolver(), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestResolvePlace(t *testing.T) {
	rr := testutil.DoRequest(newRouter(), testutil.NewJSONRequest(t, http.MethodPost, "/resolve-place",
		map[string]string{"query": "Mercy General"}))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[ResolvePlaceResponse](t, rr)
	if len(resp.Places) != 1 || resp.Places[0].PlaceID != "place_mercy_general" {
		t.Fatalf("unexpected places: %+v", resp.Places)
	}
}

func TestResolvePlaceRequiresQuery(t *testing.T) {
	rr := testutil.DoRequest(newRouter(), testutil.NewJSONRequest(t, http.MethodPost, "/resolve-place",
		map[string]string{}))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "query is required")
}

func TestResolvePlaceMalformedBody(t *testing.T) {
	rr := testutil.DoRequest(newRouter(), testutil.NewRequestWithBody(t, http.MethodPost, "/resolve-place", "{"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid request body")
}
