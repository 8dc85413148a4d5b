package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/insightlens/internal/application"
	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
)

// Service implements the request-to-insight pipeline: validate input,
// resolve source text, analyze, persist, respond. Safe for concurrent use;
// requests share nothing but the repository.
type Service struct {
	Repo     domain.Repository
	Analyzer domain.Analyzer
	Fetcher  domain.Fetcher
	Archive  domain.Archive // optional; nil disables full-text archival
	Clock    application.Clock
}

// AnalyzeCommand carries the analyze request body.
type AnalyzeCommand struct {
	Text string
	URL  string
}

// Response is the API transfer shape of an Insight. It is a distinct type
// from the storage record: themes travel as a native array here.
type Response struct {
	ID             int64     `json:"id"`
	SourceText     string    `json:"source_text"`
	SourceURL      *string   `json:"source_url"`
	Summary        string    `json:"summary"`
	Sentiment      string    `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	Themes         []string  `json:"themes"`
	CreatedAt      time.Time `json:"created_at"`
}

func toResponse(in *domain.Insight) (Response, error) {
	themes, err := domain.DecodeThemes(in.Themes)
	if err != nil {
		return Response{}, fmt.Errorf("%w: decode themes: %v", domain.ErrStoreFailed, err)
	}
	return Response{
		ID:             int64(in.ID),
		SourceText:     in.SourceText,
		SourceURL:      in.SourceURL,
		Summary:        in.Summary,
		Sentiment:      string(in.Sentiment),
		SentimentScore: in.SentimentScore,
		Themes:         themes,
		CreatedAt:      in.CreatedAt,
	}, nil
}

// Analyze runs the pipeline. It is terminal at the first failure; nothing
// is persisted unless both fetch (when applicable) and analysis succeeded.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (Response, error) {
	if cmd.Text == "" && cmd.URL == "" {
		return Response{}, fmt.Errorf("%w: either text or url must be provided", domain.ErrInvalidInput)
	}

	sourceText := cmd.Text
	var sourceURL *string
	if cmd.URL != "" {
		u := cmd.URL
		sourceURL = &u
	}

	// Text wins when both are present; the fetcher is only consulted for
	// url-only requests.
	if cmd.URL != "" && cmd.Text == "" {
		fetched, err := s.Fetcher.Fetch(ctx, cmd.URL)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrFetchFailed) {
				return Response{}, err
			}
			return Response{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
		}
		sourceText = fetched
	}

	if strings.TrimSpace(sourceText) == "" {
		return Response{}, fmt.Errorf("%w: no text content to analyze", domain.ErrInvalidInput)
	}

	started := s.Clock.Now()
	analysis, err := s.Analyzer.Analyze(ctx, sourceText)
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisFailed) {
			return Response{}, err
		}
		return Response{}, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}

	themes, err := domain.EncodeThemes(analysis.Themes)
	if err != nil {
		return Response{}, fmt.Errorf("%w: encode themes: %v", domain.ErrAnalysisFailed, err)
	}

	in := &domain.Insight{
		SourceText:     domain.TruncateChars(sourceText, domain.MaxStoredTextChars),
		SourceURL:      sourceURL,
		Summary:        analysis.Summary,
		Sentiment:      analysis.Sentiment,
		SentimentScore: analysis.SentimentScore,
		Themes:         themes,
	}
	if err := s.Repo.Create(ctx, in); err != nil {
		if errors.Is(err, domain.ErrStoreFailed) {
			return Response{}, err
		}
		return Response{}, fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}

	log.Debug().
		Int64("insight_id", int64(in.ID)).
		Dur("analysis_elapsed", s.Clock.Now().Sub(started)).
		Str("sentiment", string(in.Sentiment)).
		Msg("insight created")

	// Archive keeps the full resolved text beyond the stored 5000-char cap.
	// The record is already durable; archive errors are logged, not surfaced.
	if s.Archive != nil {
		key := fmt.Sprintf("insights/%d.txt", in.ID)
		if _, aerr := s.Archive.Put(ctx, key, sourceText); aerr != nil {
			log.Warn().Err(aerr).Str("key", key).Msg("full-text archive failed")
		}
	}

	return toResponse(in)
}

// Get returns one insight by id.
func (s *Service) Get(ctx context.Context, id domain.InsightID) (Response, error) {
	in, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Response{}, err
	}
	return toResponse(in)
}

// List returns insights most recent first. Limit is clamped to
// [1, MaxListLimit] with DefaultListLimit when unset; skip below zero
// is treated as zero.
func (s *Service) List(ctx context.Context, skip, limit int, search string) ([]Response, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	if limit > domain.MaxListLimit {
		limit = domain.MaxListLimit
	}

	records, err := s.Repo.List(ctx, domain.ListQuery{Skip: skip, Limit: limit, Search: search})
	if err != nil {
		return nil, err
	}

	out := make([]Response, 0, len(records))
	for _, in := range records {
		resp, err := toResponse(in)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}
