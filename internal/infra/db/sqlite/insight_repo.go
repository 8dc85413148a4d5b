package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bryanwahyu/insightlens/internal/application"
	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
)

type InsightRepository struct {
	db    *sql.DB
	clock application.Clock
}

func NewInsightRepository(db *sql.DB) *InsightRepository {
	return &InsightRepository{db: db, clock: application.SystemClock{}}
}

// InitSchema creates the insights table and its sort index.
func (r *InsightRepository) InitSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS insights (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_text TEXT NOT NULL,
	source_url TEXT,
	summary TEXT NOT NULL DEFAULT '',
	sentiment TEXT NOT NULL DEFAULT 'neutral',
	sentiment_score REAL NOT NULL DEFAULT 0,
	themes TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_insights_created ON insights(created_at DESC);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: init schema: %v", domain.ErrStoreFailed, err)
	}
	return nil
}

// Create assigns id and created_at and persists the record. The insight is
// updated in place with both values.
func (r *InsightRepository) Create(ctx context.Context, in *domain.Insight) error {
	const q = `
INSERT INTO insights (source_text, source_url, summary, sentiment, sentiment_score, themes, created_at)
VALUES (?,?,?,?,?,?,?);
`
	themes := in.Themes
	if strings.TrimSpace(themes) == "" {
		// column requires a valid JSON array; empty means no themes
		themes = "[]"
	}
	created := r.clock.Now().UTC()

	res, err := r.db.ExecContext(ctx, q,
		in.SourceText, nullableString(in.SourceURL), in.Summary,
		string(in.Sentiment), in.SentimentScore, themes, created,
	)
	if err != nil {
		return fmt.Errorf("%w: insert insight: %v", domain.ErrStoreFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: last insert id: %v", domain.ErrStoreFailed, err)
	}

	in.ID = domain.InsightID(id)
	in.Themes = themes
	in.CreatedAt = created
	return nil
}

// Get returns the record with matching id or ErrNotFound.
func (r *InsightRepository) Get(ctx context.Context, id domain.InsightID) (*domain.Insight, error) {
	const q = `
SELECT id, source_text, source_url, summary, sentiment, sentiment_score, themes, created_at
FROM insights
WHERE id=? LIMIT 1;
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

// List returns records ordered by created_at descending, id descending as
// tiebreak. Search is a case-insensitive substring OR-match over
// source_text, summary and the serialized themes column.
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
		term := "%" + escapeLikePattern(strings.ToLower(q.Search)) + "%"
		query += `
WHERE (LOWER(source_text) LIKE ? ESCAPE '\'
   OR LOWER(summary) LIKE ? ESCAPE '\'
   OR LOWER(themes) LIKE ? ESCAPE '\')`
		args = append(args, term, term, term)
	}

	query += `
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;`
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
