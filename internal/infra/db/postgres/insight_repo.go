package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bryanwahyu/insightlens/internal/application"
	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
)

// InsightRepository is the PostgreSQL implementation of the insights
// Repository port. Same contract as the sqlite one; picked via
// database.driver.
type InsightRepository struct {
	db    *sql.DB
	clock application.Clock
}

func NewInsightRepository(db *sql.DB) *InsightRepository {
	return &InsightRepository{db: db, clock: application.SystemClock{}}
}

func (r *InsightRepository) InitSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS insights (
	id BIGSERIAL PRIMARY KEY,
	source_text TEXT NOT NULL,
	source_url TEXT,
	summary TEXT NOT NULL DEFAULT '',
	sentiment TEXT NOT NULL DEFAULT 'neutral',
	sentiment_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	themes TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_insights_created ON insights(created_at DESC);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: init schema: %v", domain.ErrStoreFailed, err)
	}
	return nil
}

func (r *InsightRepository) Create(ctx context.Context, in *domain.Insight) error {
	const q = `
INSERT INTO insights (source_text, source_url, summary, sentiment, sentiment_score, themes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id;
`
	themes := in.Themes
	if strings.TrimSpace(themes) == "" {
		themes = "[]"
	}
	created := r.clock.Now().UTC()

	var id int64
	err := r.db.QueryRowContext(ctx, q,
		in.SourceText, nullableString(in.SourceURL), in.Summary,
		string(in.Sentiment), in.SentimentScore, themes, created,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("%w: insert insight: %v", domain.ErrStoreFailed, err)
	}

	in.ID = domain.InsightID(id)
	in.Themes = themes
	in.CreatedAt = created
	return nil
}

func (r *InsightRepository) Get(ctx context.Context, id domain.InsightID) (*domain.Insight, error) {
	const q = `
SELECT id, source_text, source_url, summary, sentiment, sentiment_score, themes, created_at
FROM insights
WHERE id=$1;
`
	in, err := scanInsight(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get insight: %v", domain.ErrStoreFailed, err)
	}
	return in, nil
}

func (r *InsightRepository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Insight, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	if limit > domain.MaxListLimit {
		limit = domain.MaxListLimit
	}
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}

	query := `
SELECT id, source_text, source_url, summary, sentiment, sentiment_score, themes, created_at
FROM insights`
	var args []any

	if q.Search != "" {
		term := "%" + escapeLikePattern(q.Search) + "%"
		query += `
WHERE (source_text ILIKE $1 OR summary ILIKE $1 OR themes ILIKE $1)`
		args = append(args, term)
	}

	query += fmt.Sprintf(`
ORDER BY created_at DESC, id DESC
LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, limit, skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list insights: %v", domain.ErrStoreFailed, err)
	}
	defer rows.Close()

	var out []*domain.Insight
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", domain.ErrStoreFailed, err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", domain.ErrStoreFailed, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInsight(row rowScanner) (*domain.Insight, error) {
	var (
		in        domain.Insight
		url       sql.NullString
		sentiment string
		created   time.Time
	)
	if err := row.Scan(
		&in.ID, &in.SourceText, &url, &in.Summary,
		&sentiment, &in.SentimentScore, &in.Themes, &created,
	); err != nil {
		return nil, err
	}
	if url.Valid {
		in.SourceURL = &url.String
	}
	in.Sentiment = domain.Sentiment(sentiment)
	in.CreatedAt = created.UTC()
	return &in, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
