package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "algowatch/internal/jwt_token"
	id "algowatch/pkg/domain"
	"algowatch/pkg/platform/httputil"
	"algowatch/pkg/platform/middleware/auth"
	"algowatch/pkg/requestcontext"
	"algowatch/pkg/testutil"
)

type recordingObserver struct {
	routes []string
}

func (o *recordingObserver) ObserveHTTPRequest(method, route string, _ int, _ time.Duration) {
	o.routes = append(o.routes, method+" "+route)
}

func newTestRouter(t *testing.T, health map[string]HealthCheck) (http.Handler, *jwttoken.JWTService, *recordingObserver) {
	t.Helper()
	jwt := jwttoken.NewJWTService("test-key", "algowatch", "algowatch-api")
	observer := &recordingObserver{}

	public := RegistrarFunc(func(r chi.Router) {
		r.Get("/library", func(w http.ResponseWriter, _ *http.Request) {
			httputil.WriteJSON(w, http.StatusOK, map[string]any{"kits": []any{}})
		})
	})
	protected := RegistrarFunc(func(r chi.Router) {
		r.Get("/kits", func(w http.ResponseWriter, r *http.Request) {
			caller, err := auth.Caller(r.Context())
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, map[string]string{
				"caller":     caller.String(),
				"request_id": requestcontext.RequestID(r.Context()),
			})
		})
		r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	})

	router := NewRouter(Config{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Observer:       observer,
		Validator:      jwttoken.NewJWTServiceAdapter(jwt),
		Public:         []Registrar{public},
		Protected:      []Registrar{protected},
		Health:         health,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "# metrics") }),
	})
	return router, jwt, observer
}

func bearer(t *testing.T, jwt *jwttoken.JWTService, user id.UserID) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(user, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	router, _, observer := newTestRouter(t, nil)

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/library", ""))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"kits":[]}`, rr.Body.String())
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, []string{"GET /library"}, observer.routes)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, jwt, _ := newTestRouter(t, nil)

	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/kits", ""))
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "Not authenticated")

	req := testutil.NewRequestWithBody(t, http.MethodGet, "/kits", "")
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "Not authenticated")

	user := id.UserID(uuid.New())
	req = testutil.NewRequestWithBody(t, http.MethodGet, "/kits", "")
	req.Header.Set("Authorization", bearer(t, jwt, user))
	req.Header.Set("X-Request-ID", "req-123")
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	body := testutil.UnmarshalResponse[map[string]string](t, rr)
	assert.Equal(t, user.String(), (*body)["caller"])
	assert.Equal(t, "req-123", (*body)["request_id"])
}

func TestPreflightAnsweredOnEveryRoute(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)

	for _, path := range []string{"/kits", "/library", "/create-report"} {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodOptions, path, ""))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "authorization", path)
	}
}

func TestPanicIsMasked(t *testing.T) {
	router, jwt, _ := newTestRouter(t, nil)

	req := testutil.NewRequestWithBody(t, http.MethodGet, "/boom", "")
	req.Header.Set("Authorization", bearer(t, jwt, id.UserID(uuid.New())))
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)
	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/health", ""))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	router, _, _ = newTestRouter(t, map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})
	rr = testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/health", ""))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"ok","redis":"unavailable"}}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)
	rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/metrics", ""))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "# metrics", rr.Body.String())
}
