package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/bryanwahyu/insightlens/internal/application"
	appinsights "github.com/bryanwahyu/insightlens/internal/application/insights"
	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
	"github.com/bryanwahyu/insightlens/internal/infra/db/sqlite"
	"github.com/bryanwahyu/insightlens/internal/infra/scraper"
)

type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(_ context.Context, _ string) (domain.Analysis, error) {
	return domain.Analysis{
		Summary:        "A concise summary.",
		Sentiment:      domain.SentimentPositive,
		SentimentScore: 0.8,
		Themes:         []string{"quality", "shipping"},
	}, nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	db, err := sqlite.Connect(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewInsightRepository(db)
	if err := repo.InitSchema(context.Background()); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	svc := &appinsights.Service{
		Repo:     repo,
		Analyzer: fakeAnalyzer{},
		Fetcher:  scraper.New(),
		Clock:    application.SystemClock{},
	}
	return NewRouter(svc, []string{"http://localhost:3000"}, nil)
}

func postAnalyze(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeThenGet(t *testing.T) {
	h := newTestHandler(t)

	rec := postAnalyze(t, h, `{"text": "The product is great"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created appinsights.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}
	if created.ID == 0 {
		t.Error("id not assigned")
	}
	if created.Sentiment != "positive" || created.SentimentScore != 0.8 {
		t.Errorf("sentiment %q score %v", created.Sentiment, created.SentimentScore)
	}
	if !reflect.DeepEqual(created.Themes, []string{"quality", "shipping"}) {
		t.Errorf("themes = %v", created.Themes)
	}
	if created.SourceURL != nil {
		t.Errorf("source_url = %v, want null", created.SourceURL)
	}

	// the record read back matches what analyze returned
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/1", nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", rec2.Code, rec2.Body.String())
	}
	var fetched appinsights.Response
	if err := json.Unmarshal(rec2.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if !reflect.DeepEqual(created, fetched) {
		t.Errorf("get mismatch:\n analyze: %+v\n get:     %+v", created, fetched)
	}
}

func TestAnalyze_InvalidURL(t *testing.T) {
	h := newTestHandler(t)

	rec := postAnalyze(t, h, `{"url": "not-a-url"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["detail"] == "" {
		t.Error("missing detail in error body")
	}
}

func TestAnalyze_EmptyBody(t *testing.T) {
	h := newTestHandler(t)

	rec := postAnalyze(t, h, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "either text or url must be provided") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAnalyze_MalformedJSON(t *testing.T) {
	h := newTestHandler(t)

	rec := postAnalyze(t, h, `{"text": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGet_NotFound(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/999", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGet_NonNumericID(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestList(t *testing.T) {
	h := newTestHandler(t)

	// empty list serializes as [], not null
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty list body = %s, want []", got)
	}

	for i := 0; i < 3; i++ {
		if rec := postAnalyze(t, h, `{"text": "record text"}`); rec.Code != http.StatusOK {
			t.Fatalf("seed analyze status = %d", rec.Code)
		}
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/insights?skip=1&limit=2", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var list []appinsights.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	// newest first, skip drops the most recent record
	if list[0].ID != 2 || list[1].ID != 1 {
		t.Errorf("ids = %d, %d", list[0].ID, list[1].ID)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
