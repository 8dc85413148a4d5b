package middleware

import "strconv"

// Query parameter parsing and clamping for the list endpoint.

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ParseLimit parses a limit query value, clamping to [1, 100] with a
// default of 50.
func ParseLimit(raw string) int {
	if raw == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// ParseSkip parses a skip query value; anything unparseable or negative
// becomes 0.
func ParseSkip(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
