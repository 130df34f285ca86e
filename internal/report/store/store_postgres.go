package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"algowatch/internal/platform/postgres"
	"algowatch/internal/report/models"
	id "algowatch/pkg/domain"
	"algowatch/pkg/platform/sentinel"
)

// PostgresOwnerStore binds every statement to the acting owner's user_id.
type PostgresOwnerStore struct {
	db *sql.DB
}

func NewPostgresOwnerStore(db *sql.DB) *PostgresOwnerStore {
	return &PostgresOwnerStore{db: db}
}

// PostgresSystemReader serves the aggregation read across owners. It selects
// only care setting and tags.
type PostgresSystemReader struct {
	db *sql.DB
}

func NewPostgresSystemReader(db *sql.DB) *PostgresSystemReader {
	return &PostgresSystemReader{db: db}
}

func (s *PostgresOwnerStore) CreateReport(ctx context.Context, owner id.UserID, report *models.Report) error {
	var kitID any
	if report.KitID != nil {
		kitID = uuid.UUID(*report.KitID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, user_id, kit_id, care_setting, tags, short_text,
			place_id, place_name, location_bucket, visibility, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		uuid.UUID(report.ID),
		uuid.UUID(owner),
		kitID,
		string(report.CareSetting),
		pq.Array(id.TagStrings(report.Tags)),
		nullString(report.ShortText),
		nullString(report.PlaceID),
		nullString(report.PlaceName),
		nullString(report.LocationBucket),
		string(report.Visibility),
		report.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *PostgresOwnerStore) ListReports(ctx context.Context, owner id.UserID) ([]*models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kit_id, care_setting, tags, short_text, place_id, place_name,
			location_bucket, visibility, created_at
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, uuid.UUID(owner))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Report, 0)
	for rows.Next() {
		var (
			reportID, userID                         uuid.UUID
			kitID                                    uuid.NullUUID
			careSetting, visibility                  string
			tags                                     []string
			shortText, placeID, placeName, locBucket sql.NullString
			createdAt                                time.Time
		)
		if err := rows.Scan(&reportID, &userID, &kitID, &careSetting, pq.Array(&tags), &shortText,
			&placeID, &placeName, &locBucket, &visibility, &createdAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		report := &models.Report{
			ID:             id.ReportID(reportID),
			OwnerID:        id.UserID(userID),
			CareSetting:    id.CareSetting(careSetting),
			Tags:           toTags(tags),
			ShortText:      shortText.String,
			PlaceID:        placeID.String,
			PlaceName:      placeName.String,
			LocationBucket: locBucket.String,
			Visibility:     models.Visibility(visibility),
			CreatedAt:      createdAt,
		}
		if kitID.Valid {
			k := id.KitID(kitID.UUID)
			report.KitID = &k
		}
		out = append(out, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

// ListSharedFacts returns care setting and tags of every shared report,
// optionally restricted to one place.
func (r *PostgresSystemReader) ListSharedFacts(ctx context.Context, placeID string) ([]models.SharedFacts, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT care_setting, tags
		FROM reports
		WHERE visibility IN ('shared_anonymous', 'shared_username')
		  AND ($1::text = '' OR place_id = $1::text)
	`, placeID)
	if err != nil {
		return nil, fmt.Errorf("list shared reports: %w", err)
	}
	defer rows.Close()

	out := make([]models.SharedFacts, 0)
	for rows.Next() {
		var (
			careSetting string
			tags        []string
		)
		if err := rows.Scan(&careSetting, pq.Array(&tags)); err != nil {
			return nil, fmt.Errorf("scan shared report: %w", err)
		}
		out = append(out, models.SharedFacts{CareSetting: id.CareSetting(careSetting), Tags: toTags(tags)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shared reports: %w", err)
	}
	return out, nil
}

func toTags(raw []string) []id.SituationTag {
	out := make([]id.SituationTag, len(raw))
	for i, t := range raw {
		out[i] = id.SituationTag(t)
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
