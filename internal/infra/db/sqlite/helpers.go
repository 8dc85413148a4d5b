package sqlite

import (
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
)

// rowScanner covers *sql.Row and *sql.Rows.
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

// escapeLikePattern escapes LIKE metacharacters so search terms match
// literally.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
