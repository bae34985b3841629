package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spacesedan/firebird/internal/models"
)

const sqliteTimeFormat = time.RFC3339Nano

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS campaigns (
    id          TEXT PRIMARY KEY,
    track       TEXT,
    is_active   INTEGER,
    tweet_limit INTEGER,
    duration    INTEGER,
    start       TEXT
)`

// SQLiteCampaignStore is a file backed store for local runs and tests.
type SQLiteCampaignStore struct {
	sqlDB *sql.DB
}

func OpenSQLite(path string) (*SQLiteCampaignStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("[SQLite] storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("[SQLite] open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("[SQLite] ping db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("[SQLite] create campaigns table: %w", err)
	}

	slog.Info("[SQLite] Opened campaign store", slog.String("path", path))
	return &SQLiteCampaignStore{sqlDB: sqlDB}, nil
}

func (s *SQLiteCampaignStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteCampaignStore) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *SQLiteCampaignStore) ListCampaigns(ctx context.Context) ([]models.CampaignDocument, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
        SELECT id, track, is_active, tweet_limit, duration, start
        FROM campaigns
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("[SQLite] query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.CampaignDocument
	for rows.Next() {
		var (
			doc      models.CampaignDocument
			track    sql.NullString
			active   sql.NullBool
			limit    sql.NullInt64
			duration sql.NullInt64
			start    sql.NullString
		)
		if err := rows.Scan(&doc.ID, &track, &active, &limit, &duration, &start); err != nil {
			return nil, fmt.Errorf("[SQLite] scan campaign row: %w", err)
		}

		if track.Valid {
			doc.Track = &track.String
		}
		if active.Valid {
			doc.IsActive = &active.Bool
		}
		if limit.Valid {
			n := int(limit.Int64)
			doc.TweetLimit = &n
		}
		if duration.Valid {
			n := int(duration.Int64)
			doc.Duration = &n
		}
		if start.Valid {
			parsed, err := time.Parse(sqliteTimeFormat, start.String)
			if err != nil {
				doc.DecodeErr = fmt.Errorf("parse start %q: %w", start.String, err)
			} else {
				doc.Start = &parsed
			}
		}
		campaigns = append(campaigns, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("[SQLite] read campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *SQLiteCampaignStore) UpdateCampaign(ctx context.Context, id string, update models.CampaignUpdate) error {
	if update.IsActive == nil {
		return nil
	}

	res, err := s.sqlDB.ExecContext(ctx, `UPDATE campaigns SET is_active = ? WHERE id = ?`, *update.IsActive, id)
	if err != nil {
		return fmt.Errorf("[SQLite] update campaign %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("[SQLite] update campaign %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("[SQLite] %w: %s", ErrCampaignNotFound, id)
	}
	return nil
}

func (s *SQLiteCampaignStore) PutCampaigns(ctx context.Context, campaigns []models.Campaign) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("[SQLite] begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range campaigns {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO campaigns (id, track, is_active, tweet_limit, duration, start)
            VALUES (?, ?, ?, ?, ?, ?)
            ON CONFLICT (id) DO UPDATE SET
                track = excluded.track,
                is_active = excluded.is_active,
                tweet_limit = excluded.tweet_limit,
                duration = excluded.duration,
                start = excluded.start
        `, c.ID, c.Track, c.IsActive, c.TweetLimit, c.Duration, c.Start.UTC().Format(sqliteTimeFormat))
		if err != nil {
			return fmt.Errorf("[SQLite] put campaign %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}
