package middleware

import "testing"

func TestParseLimit(t *testing.T) {
	cases := map[string]int{
		"":     50,
		"abc":  50,
		"0":    50,
		"-3":   50,
		"1":    1,
		"25":   25,
		"100":  100,
		"101":  100,
		"9999": 100,
	}
	for raw, want := range cases {
		if got := ParseLimit(raw); got != want {
			t.Errorf("ParseLimit(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestParseSkip(t *testing.T) {
	cases := map[string]int{
		"":    0,
		"abc": 0,
		"-1":  0,
		"0":   0,
		"7":   7,
	}
	for raw, want := range cases {
		if got := ParseSkip(raw); got != want {
			t.Errorf("ParseSkip(%q) = %d, want %d", raw, got, want)
		}
	}
}
