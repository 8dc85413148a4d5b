package prompt

import "fmt"

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are an expert text analyst. Analyze the given text and return a JSON object with:
1. "summary": A concise 3-sentence summary of the main points
2. "sentiment": Overall sentiment as "positive", "negative", or "neutral"
3. "sentiment_score": A float from -1.0 (very negative) to 1.0 (very positive)
4. "themes": An array of 3-5 key themes/topics extracted from the text

Return ONLY valid JSON, no additional text or markdown.`
}

// GetUserPrompt wraps the text to analyze in a compact user message.
func GetUserPrompt(text string) string {
	return fmt.Sprintf("Analyze this text:\n\n%s", text)
}
