package solver

// entry is one cached verdict. key is the exact packed position, so a
// fingerprint collision is detected and treated as a miss.
type entry struct {
	key     string
	verdict Verdict
}

// table is the transposition table of one search.
type table struct {
	entries map[uint64]entry
	hits    int
}

func newTable() *table {
	return &table{entries: make(map[uint64]entry)}
}

func (t *table) get(fp uint64, key string) (Verdict, bool) {
	e, ok := t.entries[fp]
	if !ok || e.key != key {
		return Unknown, false
	}
	t.hits++
	return e.verdict, true
}

// put stores a completed verdict. A colliding position replaces the old entry.
func (t *table) put(fp uint64, key string, v Verdict) {
	if v == Unknown {
		return
	}
	t.entries[fp] = entry{key: key, verdict: v}
}

func (t *table) len() int { return len(t.entries) }
