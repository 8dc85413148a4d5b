package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bryanwahyu/insightlens/internal/application"
	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
)

type stubRepo struct {
	created []*domain.Insight
	nextID  domain.InsightID
	err     error
}

func (r *stubRepo) Create(_ context.Context, in *domain.Insight) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	in.ID = r.nextID
	in.CreatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if in.Themes == "" {
		in.Themes = "[]"
	}
	r.created = append(r.created, in)
	return nil
}

func (r *stubRepo) Get(_ context.Context, id domain.InsightID) (*domain.Insight, error) {
	for _, in := range r.created {
		if in.ID == id {
			return in, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
}

func (r *stubRepo) List(_ context.Context, _ domain.ListQuery) ([]*domain.Insight, error) {
	return r.created, nil
}

type stubAnalyzer struct {
	result   domain.Analysis
	err      error
	lastText string
	calls    int
}

func (a *stubAnalyzer) Analyze(_ context.Context, text string) (domain.Analysis, error) {
	a.calls++
	a.lastText = text
	if a.err != nil {
		return domain.Analysis{}, a.err
	}
	return a.result, nil
}

type stubFetcher struct {
	text  string
	err   error
	calls int
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type stubArchive struct {
	keys []string
	err  error
}

func (s *stubArchive) Put(_ context.Context, key, _ string) (string, error) {
	s.keys = append(s.keys, key)
	return "http://archive/" + key, s.err
}

func newTestService(repo *stubRepo, analyzer *stubAnalyzer, fetcher *stubFetcher) *Service {
	return &Service{
		Repo:     repo,
		Analyzer: analyzer,
		Fetcher:  fetcher,
		Clock:    application.SystemClock{},
	}
}

func TestAnalyze_NeitherTextNorURL(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubAnalyzer{}, &stubFetcher{})
	_, err := svc.Analyze(context.Background(), AnalyzeCommand{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestAnalyze_TextWinsOverURL(t *testing.T) {
	repo := &stubRepo{}
	analyzer := &stubAnalyzer{result: domain.Analysis{
		Summary: "s", Sentiment: domain.SentimentPositive, SentimentScore: 0.8,
		Themes: []string{"quality"},
	}}
	fetcher := &stubFetcher{text: "fetched page"}
	svc := newTestService(repo, analyzer, fetcher)

	resp, err := svc.Analyze(context.Background(), AnalyzeCommand{
		Text: "direct text", URL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher invoked %d times, want 0", fetcher.calls)
	}
	if analyzer.lastText != "direct text" {
		t.Errorf("analyzed %q, want direct text", analyzer.lastText)
	}
	if resp.SourceText != "direct text" {
		t.Errorf("source_text = %q", resp.SourceText)
	}
	// the url is still recorded
	if resp.SourceURL == nil || *resp.SourceURL != "https://example.com" {
		t.Errorf("source_url = %v", resp.SourceURL)
	}
}

func TestAnalyze_URLOnlyFetches(t *testing.T) {
	repo := &stubRepo{}
	analyzer := &stubAnalyzer{result: domain.Analysis{Sentiment: domain.SentimentNeutral, Themes: []string{}}}
	fetcher := &stubFetcher{text: "fetched page text"}
	svc := newTestService(repo, analyzer, fetcher)

	resp, err := svc.Analyze(context.Background(), AnalyzeCommand{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher invoked %d times, want 1", fetcher.calls)
	}
	if resp.SourceText != "fetched page text" {
		t.Errorf("source_text = %q", resp.SourceText)
	}
}

func TestAnalyze_FetchErrorPropagates(t *testing.T) {
	fetchErr := fmt.Errorf("%w: status 500", domain.ErrFetchFailed)
	svc := newTestService(&stubRepo{}, &stubAnalyzer{}, &stubFetcher{err: fetchErr})

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{URL: "https://example.com"})
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Errorf("got %v, want ErrFetchFailed", err)
	}
}

func TestAnalyze_WhitespaceTextRejected(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubAnalyzer{}, &stubFetcher{})
	_, err := svc.Analyze(context.Background(), AnalyzeCommand{Text: "   \n\t  "})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestAnalyze_EmptyFetchedTextRejected(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubAnalyzer{}, &stubFetcher{text: "  "})
	_, err := svc.Analyze(context.Background(), AnalyzeCommand{URL: "https://example.com"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestAnalyze_AnalyzerFailureNothingPersisted(t *testing.T) {
	repo := &stubRepo{}
	analyzer := &stubAnalyzer{err: fmt.Errorf("%w: provider down", domain.ErrAnalysisFailed)}
	svc := newTestService(repo, analyzer, &stubFetcher{})

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{Text: "some text"})
	if !errors.Is(err, domain.ErrAnalysisFailed) {
		t.Errorf("got %v, want ErrAnalysisFailed", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("%d records persisted on failure", len(repo.created))
	}
}

func TestAnalyze_TruncatesStoredText(t *testing.T) {
	repo := &stubRepo{}
	analyzer := &stubAnalyzer{result: domain.Analysis{Sentiment: domain.SentimentNeutral, Themes: []string{}}}
	svc := newTestService(repo, analyzer, &stubFetcher{})

	long := strings.Repeat("x", domain.MaxStoredTextChars+1000)
	resp, err := svc.Analyze(context.Background(), AnalyzeCommand{Text: long})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if n := len([]rune(resp.SourceText)); n != domain.MaxStoredTextChars {
		t.Errorf("stored length = %d, want %d", n, domain.MaxStoredTextChars)
	}
	// the analyzer still sees the full text
	if len(analyzer.lastText) != len(long) {
		t.Errorf("analyzer saw %d chars, want %d", len(analyzer.lastText), len(long))
	}
}

func TestAnalyze_ArchiveFailureIgnored(t *testing.T) {
	repo := &stubRepo{}
	analyzer := &stubAnalyzer{result: domain.Analysis{Sentiment: domain.SentimentNeutral, Themes: []string{}}}
	archive := &stubArchive{err: errors.New("bucket unreachable")}
	svc := newTestService(repo, analyzer, &stubFetcher{})
	svc.Archive = archive

	resp, err := svc.Analyze(context.Background(), AnalyzeCommand{Text: "some text"})
	if err != nil {
		t.Fatalf("Analyze failed despite archive being best-effort: %v", err)
	}
	if len(archive.keys) != 1 {
		t.Fatalf("archive called %d times, want 1", len(archive.keys))
	}
	want := fmt.Sprintf("insights/%d.txt", resp.ID)
	if archive.keys[0] != want {
		t.Errorf("archive key = %q, want %q", archive.keys[0], want)
	}
}

func TestAnalyze_ThemesInResponse(t *testing.T) {
	repo := &stubRepo{}
	analyzer := &stubAnalyzer{result: domain.Analysis{
		Sentiment: domain.SentimentPositive, Themes: []string{"quality", "shipping"},
	}}
	svc := newTestService(repo, analyzer, &stubFetcher{})

	resp, err := svc.Analyze(context.Background(), AnalyzeCommand{Text: "nice product"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(resp.Themes) != 2 || resp.Themes[0] != "quality" {
		t.Errorf("themes = %v", resp.Themes)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubAnalyzer{}, &stubFetcher{})
	_, err := svc.Get(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestList_EmptyIsSlice(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubAnalyzer{}, &stubFetcher{})
	got, err := svc.List(context.Background(), 0, 10, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got == nil {
		t.Error("List returned nil, want empty slice")
	}
}
