// Package normalizer turns the model's loosely-structured output into a
// validated, fixed-shape set of post variants.
package normalizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/spacesedan/captionflow/internal/models"
)

// rawVariant is the wire shape one generated post is expected to arrive in.
// Emojis is kept raw because models emit either an array of strings or a
// single string of emoji characters.
type rawVariant struct {
	Caption  string          `json:"caption"`
	Hashtags []string        `json:"hashtags"`
	Emojis   json.RawMessage `json:"emojis"`
}

// Normalize parses the raw model response into exactly count PostVariant
// records, sentiment fields absent. Pure: identical input yields identical
// ordered output.
//
// Fewer parseable entries than count fails with ErrIncompleteResponse; extra
// entries are truncated, always keeping the earliest. Hashtags and emojis
// default to empty slices, never nil.
func Normalize(raw string, count int) ([]models.PostVariant, error) {
	if count < 1 {
		return nil, &models.ValidationError{Field: "count", Reason: "must be at least 1"}
	}

	cleaned := CleanModelResponse(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: no JSON array found in response", models.ErrIncompleteResponse)
	}

	var entries []rawVariant
	if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
		return nil, fmt.Errorf("%w: response did not parse as a variant array: %v",
			models.ErrIncompleteResponse, err)
	}

	if len(entries) < count {
		return nil, fmt.Errorf("%w: got %d, want %d",
			models.ErrIncompleteResponse, len(entries), count)
	}
	entries = entries[:count]

	variants := make([]models.PostVariant, 0, count)
	for i, entry := range entries {
		caption := strings.TrimSpace(entry.Caption)
		if caption == "" {
			return nil, &models.MalformedVariantError{Index: i, Reason: "missing or blank caption"}
		}
		variants = append(variants, models.PostVariant{
			Caption:  caption,
			Hashtags: normalizeHashtags(entry.Hashtags),
			Emojis:   normalizeEmojis(entry.Emojis),
		})
	}

	return variants, nil
}

// CleanModelResponse strips the extraneous formatting models reliably wrap
// around structured output: markdown code fences and surrounding prose.
// Returns the outermost JSON array, or "" when none is present.
func CleanModelResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	// Cut leading/trailing prose, and unwrap {"posts": [...]}-style objects,
	// by slicing to the outermost array brackets.
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return ""
	}

	return cleaned[start : end+1]
}

// normalizeHashtags splits tags on embedded whitespace, strips any existing
// '#' prefixes, re-prefixes a single '#', and drops duplicates while
// preserving first-seen order. Empty tokens are dropped.
func normalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		for _, token := range strings.Fields(tag) {
			token = strings.TrimLeft(token, "#")
			if token == "" {
				continue
			}
			token = "#" + token
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			out = append(out, token)
		}
	}

	return out
}

// normalizeEmojis accepts either a JSON array of strings or a bare string of
// emoji characters, always yielding a non-nil slice. A bare string is split
// into extended grapheme clusters so multi-rune emoji stay intact.
func normalizeEmojis(raw json.RawMessage) []string {
	out := make([]string, 0)
	if len(raw) == 0 {
		return out
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, e := range list {
			if e = strings.TrimSpace(e); e != "" {
				out = append(out, e)
			}
		}
		return out
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return out
	}
	for _, chunk := range strings.Fields(s) {
		graphemes := uniseg.NewGraphemes(chunk)
		for graphemes.Next() {
			out = append(out, graphemes.Str())
		}
	}
	return out
}
