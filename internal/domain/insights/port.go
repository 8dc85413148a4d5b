package insights

import "context"

// ListQuery bounds for List.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ListQuery carries pagination and filtering for Repository.List.
type ListQuery struct {
	Skip   int
	Limit  int
	Search string // case-insensitive substring over source_text, summary, themes
}

// Repository port (interface for persistence)
type Repository interface {
	// Create assigns ID and CreatedAt and persists the record.
	Create(ctx context.Context, in *Insight) error
	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, id InsightID) (*Insight, error)
	// List returns records ordered by created_at descending.
	List(ctx context.Context, q ListQuery) ([]*Insight, error)
}

// Analysis is the structured result of one LLM call.
type Analysis struct {
	Summary        string
	Sentiment      Sentiment
	SentimentScore float64
	Themes         []string
}

// Analyzer port (interface for the LLM provider). Callers guarantee text is
// non-empty after trimming; implementations do not re-validate.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
}

// Fetcher port (interface for URL content retrieval)
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Archive port (interface for full-text archival). Best-effort collaborator;
// failures never fail the analysis request.
type Archive interface {
	Put(ctx context.Context, key string, text string) (string, error)
}
