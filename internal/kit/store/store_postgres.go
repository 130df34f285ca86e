package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"algowatch/internal/kit/models"
	"algowatch/internal/platform/postgres"
	id "algowatch/pkg/domain"
	"algowatch/pkg/platform/sentinel"
)

const kitColumns = `k.id, k.user_id, k.category_slug, k.audience, k.tone, k.role, k.care_setting,
	k.tags, k.letter_text, k.checklist_json, k.explainer_text, k.created_at,
	EXISTS (SELECT 1 FROM shared_kits s WHERE s.kit_id = k.id)`

// PostgresOwnerStore binds every statement to the acting owner's user_id.
type PostgresOwnerStore struct {
	db *sql.DB
}

func NewPostgresOwnerStore(db *sql.DB) *PostgresOwnerStore {
	return &PostgresOwnerStore{db: db}
}

// PostgresSystemReader performs the cross-owner reads: duplication source
// lookup and the library listing. It exposes no writes.
type PostgresSystemReader struct {
	db *sql.DB
}

func NewPostgresSystemReader(db *sql.DB) *PostgresSystemReader {
	return &PostgresSystemReader{db: db}
}

func (s *PostgresOwnerStore) CreateKit(ctx context.Context, owner id.UserID, kit *models.Kit) error {
	checklist, err := json.Marshal(kit.Content.Checklist)
	if err != nil {
		return fmt.Errorf("marshal checklist: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kits (id, user_id, category_slug, audience, tone, role, care_setting,
			tags, letter_text, checklist_json, explainer_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		uuid.UUID(kit.ID),
		uuid.UUID(owner),
		kit.Content.CategorySlug,
		string(kit.Content.Audience),
		string(kit.Content.Tone),
		string(kit.Content.Role),
		string(kit.Content.CareSetting),
		pq.Array(tagsOrEmpty(kit.Content.Tags)),
		kit.Content.Letter,
		checklist,
		kit.Content.Explainer,
		kit.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert kit: %w", err)
	}
	return nil
}

func (s *PostgresOwnerStore) GetKit(ctx context.Context, owner id.UserID, kitID id.KitID) (*models.Kit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+kitColumns+` FROM kits k WHERE k.id = $1 AND k.user_id = $2`,
		uuid.UUID(kitID), uuid.UUID(owner))
	kit, err := scanKit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get kit: %w", err)
	}
	return kit, nil
}

func (s *PostgresOwnerStore) ListKits(ctx context.Context, owner id.UserID) ([]*models.Kit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+kitColumns+` FROM kits k WHERE k.user_id = $1 ORDER BY k.created_at DESC`,
		uuid.UUID(owner))
	if err != nil {
		return nil, fmt.Errorf("list kits: %w", err)
	}
	defer rows.Close()

	kits := make([]*models.Kit, 0)
	for rows.Next() {
		kit, err := scanKit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kit: %w", err)
		}
		kits = append(kits, kit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kits: %w", err)
	}
	return kits, nil
}

// DeleteKit removes the kit; its publication goes with it through the
// ON DELETE CASCADE foreign key.
func (s *PostgresOwnerStore) DeleteKit(ctx context.Context, owner id.UserID, kitID id.KitID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM kits WHERE id = $1 AND user_id = $2`,
		uuid.UUID(kitID), uuid.UUID(owner))
	if err != nil {
		return fmt.Errorf("delete kit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete kit rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// CreatePublication inserts only when owner owns the kit; the UNIQUE kit_id
// constraint turns a second publish into ErrConflict.
func (s *PostgresOwnerStore) CreatePublication(ctx context.Context, owner id.UserID, pub *models.Publication) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shared_kits (id, kit_id, user_id, display_mode, display_name, care_setting,
			public_tags, location_bucket, created_at)
		SELECT $1::uuid, $2::uuid, $3::uuid, $4::text, $5::text, $6::text, $7::text[], $8::text, $9::timestamptz
		WHERE EXISTS (SELECT 1 FROM kits WHERE id = $2::uuid AND user_id = $3::uuid)
	`,
		uuid.UUID(pub.ID),
		uuid.UUID(pub.KitID),
		uuid.UUID(owner),
		string(pub.DisplayMode),
		nullString(pub.DisplayName),
		string(pub.CareSetting),
		pq.Array(tagsOrEmpty(pub.Tags)),
		nullString(pub.LocationBucket),
		pub.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert publication: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert publication rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresOwnerStore) DeletePublication(ctx context.Context, owner id.UserID, kitID id.KitID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shared_kits WHERE kit_id = $1 AND user_id = $2`,
		uuid.UUID(kitID), uuid.UUID(owner))
	if err != nil {
		return false, fmt.Errorf("delete publication: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete publication rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *PostgresSystemReader) FindKit(ctx context.Context, kitID id.KitID) (*models.Kit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+kitColumns+` FROM kits k WHERE k.id = $1`, uuid.UUID(kitID))
	kit, err := scanKit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find kit: %w", err)
	}
	return kit, nil
}

func (r *PostgresSystemReader) ListLibrary(ctx context.Context, filter models.LibraryFilter) ([]models.LibraryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.kit_id, s.display_mode, s.display_name, s.care_setting, s.public_tags, s.created_at,
			k.audience, k.letter_text, k.explainer_text
		FROM shared_kits s
		JOIN kits k ON k.id = s.kit_id
		WHERE ($1::text = '' OR s.care_setting = $1::text)
		  AND ($2::text = '' OR k.audience = $2::text)
		ORDER BY s.created_at DESC
	`, string(filter.CareSetting), string(filter.Audience))
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LibraryEntry, 0)
	for rows.Next() {
		var (
			pubID, kitID                uuid.UUID
			mode, careSetting, audience string
			displayName                 sql.NullString
			tags                        []string
			sharedAt                    time.Time
			letter, explainer           string
		)
		if err := rows.Scan(&pubID, &kitID, &mode, &displayName, &careSetting, pq.Array(&tags), &sharedAt,
			&audience, &letter, &explainer); err != nil {
			return nil, fmt.Errorf("scan library entry: %w", err)
		}
		entries = append(entries, models.LibraryEntry{
			PublicationID: id.PublicationID(pubID),
			KitID:         id.KitID(kitID),
			DisplayMode:   models.DisplayMode(mode),
			DisplayName:   displayName.String,
			CareSetting:   id.CareSetting(careSetting),
			Tags:          tags,
			Audience:      id.Audience(audience),
			Letter:        letter,
			Explainer:     explainer,
			SharedAt:      sharedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate library: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKit(row scanner) (*models.Kit, error) {
	var (
		kitID, ownerID                          uuid.UUID
		category, audience, tone, role, setting string
		tags                                    []string
		letter, explainer                       string
		checklistRaw                            []byte
		createdAt                               time.Time
		published                               bool
	)
	if err := row.Scan(&kitID, &ownerID, &category, &audience, &tone, &role, &setting,
		pq.Array(&tags), &letter, &checklistRaw, &explainer, &createdAt, &published); err != nil {
		return nil, err
	}

	var checklist id.Checklist
	if len(checklistRaw) > 0 {
		if err := json.Unmarshal(checklistRaw, &checklist); err != nil {
			return nil, fmt.Errorf("decode checklist: %w", err)
		}
	}

	return &models.Kit{
		ID:      id.KitID(kitID),
		OwnerID: id.UserID(ownerID),
		Content: models.Content{
			CategorySlug: category,
			Audience:     id.Audience(audience),
			Tone:         id.Tone(tone),
			Role:         id.Role(role),
			CareSetting:  id.CareSetting(setting),
			Tags:         tags,
			Letter:       letter,
			Checklist:    checklist,
			Explainer:    explainer,
		},
		CreatedAt: createdAt,
		Published: published,
	}, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
