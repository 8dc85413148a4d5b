package insights

import (
	"strings"
	"time"
)

// InsightID is the store-assigned identifier of an Insight.
type InsightID int64

// Sentiment label, closed set.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NormalizeSentiment maps model output onto the closed label set.
// Anything unrecognized becomes neutral.
func NormalizeSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// MaxStoredTextChars caps source_text at rest. The scraper applies its own,
// larger cap to text sent for analysis; this one applies to whatever text
// reaches storage, fetched or user-supplied.
const MaxStoredTextChars = 5000

// Insight is the storage record of one analysis. Themes is kept in its
// serialized JSON form here; the API transfer type carries the decoded
// slice. Records are immutable after Create.
type Insight struct {
	ID             InsightID
	SourceText     string
	SourceURL      *string // nil when raw text was supplied directly
	Summary        string
	Sentiment      Sentiment
	SentimentScore float64
	Themes         string // JSON array string, "[]" when empty
	CreatedAt      time.Time
}

// TruncateChars cuts s to at most max characters (runes, not bytes).
func TruncateChars(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
