package importer

import "github.com/MrJamesThe3rd/haulage/internal/ledger"

type Verdict int

const (
	Admitted Verdict = iota
	// DuplicateStored collides with a record already in the store.
	DuplicateStored
	// DuplicateBatch collides with a row admitted earlier in the same import.
	DuplicateBatch
)

func (v Verdict) Duplicate() bool {
	return v != Admitted
}

// DedupGate admits each dedup key at most once relative to a snapshot of
// stored keys taken when the import started.
type DedupGate struct {
	stored map[ledger.Key]struct{}
	seen   map[ledger.Key]struct{}
}

func NewDedupGate(stored map[ledger.Key]struct{}) *DedupGate {
	return &DedupGate{
		stored: stored,
		seen:   make(map[ledger.Key]struct{}),
	}
}

func (g *DedupGate) Admit(k ledger.Key) Verdict {
	if _, ok := g.stored[k]; ok {
		return DuplicateStored
	}

	if _, ok := g.seen[k]; ok {
		return DuplicateBatch
	}

	g.seen[k] = struct{}{}

	return Admitted
}
