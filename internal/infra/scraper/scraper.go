package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
)

const (
	// maxFetchedChars caps the payload sent downstream for analysis; the
	// store applies its own, smaller cap independently.
	maxFetchedChars  = 10000
	truncationMarker = "..."

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	fetchTimeout = 30 * time.Second
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Scraper fetches a URL and reduces the page to plain text. Extraction is
// deliberately regex-based rather than a DOM parse; the component contract
// is defined against this behavior.
type Scraper struct {
	client *http.Client
}

// New returns a Scraper with a bounded-timeout client. Redirects are
// followed (net/http default).
func New() *Scraper {
	return &Scraper{client: &http.Client{Timeout: fetchTimeout}}
}

// Fetch retrieves rawURL and returns cleaned page text. Malformed URLs fail
// with ErrInvalidInput; network errors and non-success statuses fail with
// ErrFetchFailed. One attempt, no retries.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: invalid url: %s", domain.ErrInvalidInput, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d from %s", domain.ErrFetchFailed, resp.StatusCode, u.Host)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailed, err)
	}

	return extractText(string(body)), nil
}

// extractText strips script and style elements with their content, replaces
// every remaining tag with a single space, collapses whitespace runs, trims,
// and caps the result at maxFetchedChars characters plus a marker.
func extractText(html string) string {
	html = scriptRe.ReplaceAllString(html, "")
	html = styleRe.ReplaceAllString(html, "")

	text := tagRe.ReplaceAllString(html, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if r := []rune(text); len(r) > maxFetchedChars {
		text = string(r[:maxFetchedChars]) + truncationMarker
	}
	return text
}

var youtubeRes = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch`),
	regexp.MustCompile(`youtu\.be/`),
	regexp.MustCompile(`youtube\.com/embed/`),
}

// IsYouTubeURL reports whether rawURL points at a YouTube video. Transcript
// fetching is not implemented; callers can use this to reject or special-case
// video links.
func IsYouTubeURL(rawURL string) bool {
	for _, re := range youtubeRes {
		if re.MatchString(rawURL) {
			return true
		}
	}
	return false
}
