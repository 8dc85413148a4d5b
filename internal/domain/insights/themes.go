package insights

import "encoding/json"

// EncodeThemes serializes a theme list for storage. Nil and empty slices
// both encode to "[]" so the column is never null and round trips are
// unambiguous.
func EncodeThemes(themes []string) (string, error) {
	if len(themes) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(themes)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeThemes reverses EncodeThemes. An empty column decodes to an empty
// slice, never nil, so API responses always carry a JSON array.
func DecodeThemes(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var themes []string
	if err := json.Unmarshal([]byte(raw), &themes); err != nil {
		return nil, err
	}
	if themes == nil {
		themes = []string{}
	}
	return themes, nil
}
