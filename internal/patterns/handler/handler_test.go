package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"algowatch/internal/patterns/handler/mocks"
	"algowatch/internal/patterns/models"
	dErrors "algowatch/pkg/domain-errors"
	"algowatch/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type PatternsHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestPatternsHandlerSuite(t *testing.T) {
	suite.Run(t, new(PatternsHandlerSuite))
}

func (s *PatternsHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *PatternsHandlerSuite) TestPlaceSummary() {
	s.service.EXPECT().Aggregate(gomock.Any(), "place_mercy").Return(&models.Summary{
		Tags:         map[string]int{"denied_service": 2},
		CareSettings: map[string]int{"primary_care": 2},
		Total:        2,
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/get-patterns",
		map[string]string{"placeId": " place_mercy "}))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.JSONEq(`{"tags":{"denied_service":2},"care_settings":{"primary_care":2},"total":2}`, rr.Body.String())
}

func (s *PatternsHandlerSuite) TestEmptyBodyIsGlobal() {
	s.service.EXPECT().Aggregate(gomock.Any(), "").Return(&models.Summary{
		Tags: map[string]int{}, CareSettings: map[string]int{}, Total: 0,
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/get-patterns", ""))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.JSONEq(`{"tags":{},"care_settings":{},"total":0}`, rr.Body.String())
}

func (s *PatternsHandlerSuite) TestSuppressedFlag() {
	s.service.EXPECT().Aggregate(gomock.Any(), "place_small").Return(&models.Summary{
		Tags: map[string]int{}, CareSettings: map[string]int{}, Total: 1, Suppressed: true,
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/get-patterns",
		map[string]string{"placeId": "place_small"}))
	s.JSONEq(`{"tags":{},"care_settings":{},"total":1,"suppressed":true}`, rr.Body.String())
}

func (s *PatternsHandlerSuite) TestErrors() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/get-patterns",
		map[string]string{"placeId": strings.Repeat("p", 201)}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "place id is too long")

	s.service.EXPECT().Aggregate(gomock.Any(), "").
		Return(nil, dErrors.Wrap(errors.New("db down"), dErrors.CodeInternal, "failed to load patterns"))
	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/get-patterns", map[string]string{}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
}
