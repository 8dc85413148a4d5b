package local

import (
	"context"
	"regexp"
	"sort"
	"strings"

	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
)

// Analyzer is a rule-based stand-in for the LLM client, used when no API key
// is configured so the service still runs end-to-end. Lexicon sentiment,
// leading-sentence summary, frequency-based themes. Not meant to compete
// with the model on quality.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Analyze(_ context.Context, text string) (domain.Analysis, error) {
	score := scoreSentiment(text)
	return domain.Analysis{
		Summary:        summarize(text, 3),
		Sentiment:      labelFor(score),
		SentimentScore: score,
		Themes:         extractThemes(text, 5),
	}, nil
}

var positiveWords = map[string]bool{
	"amazing": true, "excellent": true, "good": true, "great": true,
	"happy": true, "impressive": true, "love": true, "perfect": true,
	"positive": true, "recommend": true, "reliable": true, "success": true,
	"wonderful": true, "best": true, "fast": true, "quality": true,
}

var negativeWords = map[string]bool{
	"awful": true, "bad": true, "broken": true, "disappointing": true,
	"fail": true, "failure": true, "hate": true, "negative": true,
	"poor": true, "problem": true, "slow": true, "terrible": true,
	"worst": true, "useless": true, "angry": true, "waste": true,
}

var stopWords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "from": true,
	"have": true, "into": true, "just": true, "more": true, "only": true,
	"other": true, "over": true, "some": true, "such": true, "than": true,
	"that": true, "their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "very": true, "were": true,
	"what": true, "when": true, "which": true, "will": true, "with": true,
	"would": true, "your": true,
}

var wordRe = regexp.MustCompile(`[a-zA-Z]+`)

// scoreSentiment returns (pos-neg)/(pos+neg) over lexicon hits, 0 when the
// text hits neither list.
func scoreSentiment(text string) float64 {
	var pos, neg int
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if positiveWords[w] {
			pos++
		}
		if negativeWords[w] {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

func labelFor(score float64) domain.Sentiment {
	switch {
	case score > 0.1:
		return domain.SentimentPositive
	case score < -0.1:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

var sentenceEndRe = regexp.MustCompile(`[.!?]+\s+`)

// summarize takes the first n sentences verbatim.
func summarize(text string, n int) string {
	parts := sentenceEndRe.Split(strings.TrimSpace(text), n+1)
	if len(parts) > n {
		parts = parts[:n]
	}
	out := strings.TrimSpace(strings.Join(parts, ". "))
	if out != "" && !strings.HasSuffix(out, ".") && !strings.HasSuffix(out, "!") && !strings.HasSuffix(out, "?") {
		out += "."
	}
	return out
}

// extractThemes ranks non-stopword words of four letters or more by
// frequency and returns up to max of them.
func extractThemes(text string, max int) []string {
	counts := map[string]int{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) < 4 || stopWords[w] {
			continue
		}
		counts[w]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}
