// Package codec encodes interest sets for the persisted ledger formats.
//
// Interests are stored as a JSON array of strings, sorted byte-wise, with
// HTML escaping disabled so non-ASCII and markup characters are written
// verbatim. The same encoding is used by the CSV and SQLite stores.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/kith/internal/core/domain"
)

// EncodeInterests returns the canonical text form of an interest set.
// An empty or nil set encodes as "[]".
func EncodeInterests(set domain.InterestSet) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(set.Sorted()); err != nil {
		return "", fmt.Errorf("encoding interests: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeInterests parses the text form of an interest set.
//
// An empty field and JSON null decode to the empty set. A bare JSON string
// decodes to a single interest. Non-string array items are dropped.
// Anything else is reported as domain.ErrInvalidInput.
func DecodeInterests(field string) (domain.InterestSet, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return domain.NewInterestSet(), nil
	}

	var v any
	if err := json.Unmarshal([]byte(field), &v); err != nil {
		return domain.NewInterestSet(), fmt.Errorf("%w: interests %q: %v", domain.ErrInvalidInput, field, err)
	}

	switch val := v.(type) {
	case nil:
		return domain.NewInterestSet(), nil
	case string:
		return domain.NewInterestSet(val), nil
	case []any:
		set := domain.NewInterestSet()
		for _, item := range val {
			if s, ok := item.(string); ok {
				set.Add(s)
			}
		}
		return set, nil
	default:
		return domain.NewInterestSet(), fmt.Errorf("%w: interests %q is not a list", domain.ErrInvalidInput, field)
	}
}
