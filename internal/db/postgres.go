package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spacesedan/firebird/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS campaigns (
    id          TEXT PRIMARY KEY,
    track       TEXT,
    is_active   BOOLEAN,
    tweet_limit INTEGER,
    duration    INTEGER,
    start       TIMESTAMPTZ
)`

// PostgresCampaignStore keeps campaigns in a single table. Columns are
// nullable so a partially written record surfaces as a data error instead of
// a zero value.
type PostgresCampaignStore struct {
	DB *pgxpool.Pool
}

func NewPostgresCampaignStore(pool *pgxpool.Pool) *PostgresCampaignStore {
	return &PostgresCampaignStore{DB: pool}
}

func (s *PostgresCampaignStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("[Postgres] failed to create campaigns table: %w", err)
	}
	return nil
}

func (s *PostgresCampaignStore) ListCampaigns(ctx context.Context) ([]models.CampaignDocument, error) {
	query := `
        SELECT id, track, is_active, tweet_limit, duration, start
        FROM campaigns
        ORDER BY id
    `

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("[Postgres] failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.CampaignDocument
	for rows.Next() {
		var doc models.CampaignDocument
		if err := rows.Scan(&doc.ID, &doc.Track, &doc.IsActive, &doc.TweetLimit, &doc.Duration, &doc.Start); err != nil {
			return nil, fmt.Errorf("[Postgres] failed to scan campaign row: %w", err)
		}
		campaigns = append(campaigns, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("[Postgres] failed to read campaigns: %w", err)
	}

	slog.Info("[Postgres] Successfully retrieved campaigns", slog.Int("count", len(campaigns)))
	return campaigns, nil
}

func (s *PostgresCampaignStore) UpdateCampaign(ctx context.Context, id string, update models.CampaignUpdate) error {
	if update.IsActive == nil {
		return nil
	}

	tag, err := s.DB.Exec(ctx, `UPDATE campaigns SET is_active = $2 WHERE id = $1`, id, *update.IsActive)
	if err != nil {
		return fmt.Errorf("[Postgres] failed to update campaign %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("[Postgres] %w: %s", ErrCampaignNotFound, id)
	}
	return nil
}

func (s *PostgresCampaignStore) PutCampaigns(ctx context.Context, campaigns []models.Campaign) error {
	if len(campaigns) == 0 {
		return nil
	}

	query, values := buildCampaignUpsert(campaigns)
	if _, err := s.DB.Exec(ctx, query, values...); err != nil {
		return fmt.Errorf("[Postgres] failed to insert campaigns: %w", err)
	}
	return nil
}

func (s *PostgresCampaignStore) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

// buildCampaignUpsert renders a multi row insert with numbered placeholders.
func buildCampaignUpsert(campaigns []models.Campaign) (string, []interface{}) {
	const columns = 6
	query := `INSERT INTO campaigns (id, track, is_active, tweet_limit, duration, start) VALUES `

	values := make([]interface{}, 0, len(campaigns)*columns)
	placeholderParts := make([]string, 0, len(campaigns))
	for i, c := range campaigns {
		offset := i * columns
		placeholderParts = append(placeholderParts, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			offset+1, offset+2, offset+3, offset+4, offset+5, offset+6))
		values = append(values, c.ID, c.Track, c.IsActive, c.TweetLimit, c.Duration, c.Start.UTC())
	}

	query += strings.Join(placeholderParts, ", ")
	query += `
        ON CONFLICT (id) DO UPDATE SET
            track = EXCLUDED.track,
            is_active = EXCLUDED.is_active,
            tweet_limit = EXCLUDED.tweet_limit,
            duration = EXCLUDED.duration,
            start = EXCLUDED.start
    `
	return query, values
}
