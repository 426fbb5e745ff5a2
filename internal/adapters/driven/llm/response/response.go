// Package response decodes the people/interest records returned by the
// analysis service.
//
// The service is asked for JSON but may wrap it in prose or code fences, and
// the shape of individual records is not guaranteed. ParseFacts accepts a JSON
// array of records or a single record, and when the text as a whole is not
// JSON it retries on the outermost bracketed span, trying whichever bracket
// kind opens first.
package response

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// ParseFacts decodes raw into facts.
//
// Record shapes tolerated: a missing or null "interests" is empty, a bare
// string is one interest and non-string items are dropped. A record with no
// string "name" is kept with an empty name. Array items that are not objects
// are dropped. Anything else is domain.ErrMalformedResponse.
func ParseFacts(raw string) ([]domain.Fact, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}

	if facts, err := decode(raw); err == nil {
		return facts, nil
	}

	pairs := [][2]string{{"[", "]"}, {"{", "}"}}
	if obj := strings.Index(raw, "{"); obj != -1 {
		if arr := strings.Index(raw, "["); arr == -1 || obj < arr {
			pairs[0], pairs[1] = pairs[1], pairs[0]
		}
	}

	for _, pair := range pairs {
		span, ok := outermost(raw, pair[0], pair[1])
		if !ok {
			continue
		}
		if facts, err := decode(span); err == nil {
			return facts, nil
		}
	}

	return nil, fmt.Errorf("%w: could not parse JSON: %s", domain.ErrMalformedResponse, preview(raw))
}

// FactsFromValue converts an already decoded JSON value into facts.
func FactsFromValue(v any) ([]domain.Fact, error) {
	switch val := v.(type) {
	case []any:
		facts := make([]domain.Fact, 0, len(val))
		for _, item := range val {
			if obj, ok := item.(map[string]any); ok {
				facts = append(facts, factFromObject(obj))
			}
		}
		return facts, nil
	case map[string]any:
		return []domain.Fact{factFromObject(val)}, nil
	default:
		return nil, fmt.Errorf("%w: expected an array or object, got %T", domain.ErrMalformedResponse, v)
	}
}

func decode(s string) ([]domain.Fact, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return FactsFromValue(v)
}

func factFromObject(obj map[string]any) domain.Fact {
	name, _ := obj["name"].(string)

	var interests []string
	switch val := obj["interests"].(type) {
	case string:
		interests = []string{val}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				interests = append(interests, s)
			}
		}
	}

	return domain.Fact{PersonName: name, Interests: interests}
}

// outermost returns the span from the first open to the last close, inclusive.
func outermost(s, open, closing string) (string, bool) {
	start := strings.Index(s, open)
	end := strings.LastIndex(s, closing)
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func preview(s string) string {
	const limit = 200
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}
