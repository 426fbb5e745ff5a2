package domain

import (
	"container/list"
	"fmt"
	"sort"
	"strings"
)

// LedgerKey identifies a ledger entry by the file it was extracted from and
// the person it describes. Keys compare by exact value: case and whitespace
// are significant, so callers normalise names before building a key.
type LedgerKey struct {
	// SourceID identifies the originating file (its base name).
	SourceID string

	// PersonName is the display name as extracted, after trimming.
	PersonName string
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// FoldLineBreaks rewrites CRLF and lone CR line breaks as LF. CSV readers
// drop the CR inside quoted fields, so key text must not carry one.
func FoldLineBreaks(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return lineBreaks.Replace(s)
}

// String returns the key in "(source, name)" form for status output.
func (k LedgerKey) String() string {
	return fmt.Sprintf("(%s, %s)", k.SourceID, k.PersonName)
}

// InterestSet is an unordered set of interests.
type InterestSet map[string]struct{}

// NewInterestSet creates a set holding the given interests.
func NewInterestSet(interests ...string) InterestSet {
	s := make(InterestSet, len(interests))
	s.Add(interests...)
	return s
}

// Add inserts interests into the set. Duplicates collapse.
func (s InterestSet) Add(interests ...string) {
	for _, interest := range interests {
		s[interest] = struct{}{}
	}
}

// Has reports whether the interest is in the set.
func (s InterestSet) Has(interest string) bool {
	_, ok := s[interest]
	return ok
}

// Len returns the number of interests.
func (s InterestSet) Len() int {
	return len(s)
}

// Sorted returns the interests in ascending byte order.
// The result is never nil so that an empty set encodes as [].
func (s InterestSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for interest := range s {
		out = append(out, interest)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s InterestSet) Clone() InterestSet {
	c := make(InterestSet, len(s))
	for interest := range s {
		c[interest] = struct{}{}
	}
	return c
}

// Union returns a new set holding the interests of both sets.
func (s InterestSet) Union(other InterestSet) InterestSet {
	u := s.Clone()
	for interest := range other {
		u[interest] = struct{}{}
	}
	return u
}

// LedgerEntry is one person/interest record in the ledger.
type LedgerEntry struct {
	Key       LedgerKey
	Interests InterestSet
}

// clone returns a copy that does not share the interest set.
func (e *LedgerEntry) clone() LedgerEntry {
	return LedgerEntry{Key: e.Key, Interests: e.Interests.Clone()}
}

// UpsertOutcome reports what an upsert did to the ledger.
type UpsertOutcome int

const (
	// OutcomeAdded means the key was new and an entry was appended.
	OutcomeAdded UpsertOutcome = iota

	// OutcomeUpdated means the key existed; its interests were merged and
	// the entry moved to the most recent position.
	OutcomeUpdated
)

// String returns the status word used in CLI output.
func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Ledger is an ordered, key-unique collection of person/interest entries.
// Position encodes recency: the last entry is the one most recently created
// or updated. Interests only ever accumulate and entries are never removed.
//
// A Ledger is not safe for concurrent use. Callers apply upserts from a
// single goroutine in the order that defines recency.
type Ledger struct {
	order *list.List // of *LedgerEntry, oldest first
	index map[LedgerKey]*list.Element
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		order: list.New(),
		index: make(map[LedgerKey]*list.Element),
	}
}

// Upsert records interests for key and makes it the most recent entry.
// An existing entry keeps the union of its current and incoming interests;
// a new entry holds exactly the incoming interests, which may be empty.
func (l *Ledger) Upsert(key LedgerKey, interests []string) UpsertOutcome {
	if el, ok := l.index[key]; ok {
		entry := el.Value.(*LedgerEntry)
		entry.Interests.Add(interests...)
		l.order.MoveToBack(el)
		return OutcomeUpdated
	}

	l.index[key] = l.order.PushBack(&LedgerEntry{
		Key:       key,
		Interests: NewInterestSet(interests...),
	})
	return OutcomeAdded
}

// Put stores interests for key, replacing any existing set, and moves the
// entry to the most recent position. Stores use it while loading so that a
// repeated key resolves to its last occurrence.
func (l *Ledger) Put(key LedgerKey, interests InterestSet) {
	if interests == nil {
		interests = NewInterestSet()
	}
	if el, ok := l.index[key]; ok {
		el.Value.(*LedgerEntry).Interests = interests.Clone()
		l.order.MoveToBack(el)
		return
	}
	l.index[key] = l.order.PushBack(&LedgerEntry{Key: key, Interests: interests.Clone()})
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return l.order.Len()
}

// Get returns a copy of the entry for key.
func (l *Ledger) Get(key LedgerKey) (LedgerEntry, bool) {
	el, ok := l.index[key]
	if !ok {
		return LedgerEntry{}, false
	}
	return el.Value.(*LedgerEntry).clone(), true
}

// Position returns the zero-based position of key, oldest first.
func (l *Ledger) Position(key LedgerKey) (int, bool) {
	target, ok := l.index[key]
	if !ok {
		return 0, false
	}
	pos := 0
	for el := l.order.Front(); el != nil; el = el.Next() {
		if el == target {
			return pos, true
		}
		pos++
	}
	return 0, false
}

// Last returns a copy of the most recent entry.
func (l *Ledger) Last() (LedgerEntry, bool) {
	el := l.order.Back()
	if el == nil {
		return LedgerEntry{}, false
	}
	return el.Value.(*LedgerEntry).clone(), true
}

// Entries returns copies of all entries, oldest first.
func (l *Ledger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, 0, l.order.Len())
	for el := l.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*LedgerEntry).clone())
	}
	return out
}

// Keys returns all keys, oldest first.
func (l *Ledger) Keys() []LedgerKey {
	out := make([]LedgerKey, 0, l.order.Len())
	for el := l.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*LedgerEntry).Key)
	}
	return out
}

// Validate checks that keys are unique and that the lookup index agrees
// with the ordered sequence.
func (l *Ledger) Validate() error {
	if len(l.index) != l.order.Len() {
		return fmt.Errorf("%w: index holds %d keys for %d entries",
			ErrInvalidInput, len(l.index), l.order.Len())
	}

	seen := make(map[LedgerKey]struct{}, l.order.Len())
	for el := l.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*LedgerEntry)
		if _, dup := seen[entry.Key]; dup {
			return fmt.Errorf("%w: duplicate key %s", ErrInvalidInput, entry.Key)
		}
		seen[entry.Key] = struct{}{}

		if l.index[entry.Key] != el {
			return fmt.Errorf("%w: index mismatch for key %s", ErrInvalidInput, entry.Key)
		}
		if entry.Interests == nil {
			return fmt.Errorf("%w: nil interests for key %s", ErrInvalidInput, entry.Key)
		}
	}
	return nil
}
