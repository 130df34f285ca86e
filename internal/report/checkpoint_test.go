package report_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algowatch/internal/phi"
	"algowatch/internal/phi/phitest"
	"algowatch/internal/report/handler"
	"algowatch/internal/report/models"
	"algowatch/internal/report/service"
	"algowatch/internal/report/store"
	id "algowatch/pkg/domain"
)

// The entry check in the request and the storage-boundary check in the
// service must reject exactly the same texts.
func TestCheckpointsAgree(t *testing.T) {
	corpus := append([]string(nil), phitest.Clean...)
	for _, tc := range phitest.Sensitive {
		corpus = append(corpus, tc.Text)
	}
	require.GreaterOrEqual(t, len(corpus), 50)

	mem := store.NewInMemoryStore()
	svc, err := service.New(mem.Owner(), service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	owner := id.UserID(uuid.New())

	for _, text := range corpus {
		t.Run(text, func(t *testing.T) {
			req := &handler.CreateReportRequest{
				CareSetting: "other",
				Tags:        []string{"no_explanation"},
				Visibility:  "private",
				ShortText:   text,
			}
			entryRejects := req.Validate() != nil

			draft := req.ToModel()
			if entryRejects {
				// Build the draft the service would have seen without the entry check.
				draft.CareSetting = id.CareSettingOther
				draft.Tags = []id.SituationTag{id.TagNoExplanation}
				draft.Visibility = "private"
				draft.ShortText = text
			}
			_, err := svc.CreateReport(context.Background(), owner, draft)
			boundaryRejects := err != nil

			assert.Equal(t, entryRejects, boundaryRejects)
			assert.Equal(t, phi.ContainsSensitiveInfo(text), entryRejects)
		})
	}
}

func TestPaddedNoteOverLimitRejectedAtBothCheckpoints(t *testing.T) {
	text := strings.Repeat("a", 279) + "  "

	req := &handler.CreateReportRequest{
		CareSetting: "other",
		Visibility:  "private",
		ShortText:   text,
	}
	require.Error(t, req.Validate())

	mem := store.NewInMemoryStore()
	svc, err := service.New(mem.Owner(), service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	_, err = svc.CreateReport(context.Background(), id.UserID(uuid.New()), models.Draft{
		CareSetting: id.CareSettingOther,
		Visibility:  models.VisibilityPrivate,
		ShortText:   text,
	})
	require.Error(t, err)
	assert.Zero(t, mem.Count())
}
