package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"newsdigest/internal/model"
)

type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Init creates the backing table when it does not exist yet. The unique url
// constraint makes appends idempotent across overlapping runs.
func (p *PostgresStore) Init(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS news_items (
			id           BIGSERIAL PRIMARY KEY,
			published_at TEXT        NOT NULL,
			title        TEXT        NOT NULL,
			summary      TEXT        NOT NULL,
			url          TEXT        NOT NULL UNIQUE,
			rating       INT         NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create news_items table: %w", err)
	}
	return nil
}

func (p *PostgresStore) URLs(ctx context.Context) ([]string, error) {
	var urls []string
	if err := p.db.SelectContext(ctx, &urls, `SELECT url FROM news_items ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select urls: %w", err)
	}
	return urls, nil
}

// Append inserts one row per item in input order. Conflicting urls are
// silently skipped rather than duplicated; a mid-sequence failure leaves the
// already-inserted prefix in place.
func (p *PostgresStore) Append(ctx context.Context, items []model.NewsItem) (int, error) {
	appended := 0
	for _, item := range items {
		_, err := p.db.ExecContext(ctx, `
			INSERT INTO news_items (published_at, title, summary, url, rating)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (url) DO NOTHING`,
			item.PublicationDate.String(),
			item.Title,
			item.Summary,
			item.URL,
			item.Rating,
		)
		if err != nil {
			return appended, fmt.Errorf("insert row for %s: %w", item.URL, err)
		}

		appended++
	}

	return appended, nil
}
