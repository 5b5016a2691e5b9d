package source

// StringID is a deduplicated reference to interned text (identifiers,
// literal source text, mangled names).
type StringID uint32

// NoStringID is the empty string, always at index 0.
const NoStringID StringID = 0

// Interner deduplicates strings encountered while lowering. The pipeline is
// single-threaded (no suspension points, no background goroutines touch the
// pipeline's owned state), so unlike a long-lived LSP-facing interner this
// one carries no locking.
type Interner struct {
	byID  []string
	index map[string]StringID
}

// NewInterner returns an interner pre-seeded with the empty string at id 0.
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern returns the stable id for s, assigning a fresh one on first sight.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}
	id := StringID(len(in.byID))
	in.byID = append(in.byID, s)
	in.index[s] = id
	return id
}

// Lookup returns the text for id, or "" if id is out of range.
func (in *Interner) Lookup(id StringID) string {
	if int(id) >= len(in.byID) {
		return ""
	}
	return in.byID[id]
}

// MustLookup returns the text for id and panics if id is invalid.
func (in *Interner) MustLookup(id StringID) string {
	if int(id) >= len(in.byID) {
		panic("source: invalid StringID")
	}
	return in.byID[id]
}
