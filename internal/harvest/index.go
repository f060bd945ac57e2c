package harvest

// Index is the set of identity keys already present in the dataset, plus the
// keys accepted for scheduling during the current run. It is built once from
// a snapshot read at startup and mutated only by the coordinating goroutine,
// so it needs no locking despite the concurrent fetches downstream.
type Index struct {
	keys map[string]struct{}
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{keys: make(map[string]struct{})}
}

// BuildIndex derives one identity per persisted record using the same rule
// applied to fresh candidates, so historical and new keys compare directly.
// Denial rows and rows without a usable key contribute nothing.
func BuildIndex(records []Record, identity Identity) *Index {
	idx := NewIndex()
	for _, r := range records {
		if r.Denied() {
			continue
		}
		for _, key := range identity.RecordKeys(r) {
			idx.MarkKnown(key)
		}
	}
	return idx
}

// IsKnown reports whether the identity has been seen before.
func (i *Index) IsKnown(key string) bool {
	if key == "" {
		return false
	}
	_, ok := i.keys[key]
	return ok
}

// MarkKnown records an identity. Called the moment a candidate is accepted
// for scheduling, before its fetch begins, so the same identity is never
// scheduled twice within a run.
func (i *Index) MarkKnown(key string) {
	if key == "" {
		return
	}
	i.keys[key] = struct{}{}
}

// Len returns the number of distinct keys held.
func (i *Index) Len() int {
	return len(i.keys)
}
