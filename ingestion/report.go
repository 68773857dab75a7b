package ingestion

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Report summarizes one ingestion run. Every row that was parsed is
// accounted for exactly once as delivered, over budget or failed.
type Report struct {
	Files     int
	Rows      int
	Skipped   int
	Degraded  int
	Built     int
	Delivered int

	OverBudget        []ChunkRef
	EmbeddingFailures []ChunkFailure
	SinkFailures      []ChunkFailure
	FileFailures      []ChunkFailure

	mu sync.Mutex
}

func (r *Report) addOverBudget(ref ChunkRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.OverBudget = append(r.OverBudget, ref)
}

func (r *Report) addEmbeddingFailure(f ChunkFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.EmbeddingFailures = append(r.EmbeddingFailures, f)
}

func (r *Report) addBuilt(delivered bool, failure *ChunkFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Built++
	if delivered {
		r.Delivered++
		return
	}
	r.SinkFailures = append(r.SinkFailures, *failure)
}

// Dropped returns the number of parsed rows that were not delivered.
func (r *Report) Dropped() int {
	return len(r.OverBudget) + len(r.EmbeddingFailures) + len(r.SinkFailures)
}

// Failed reports whether any file or chunk failed. Over-budget rows and
// skipped rows are expected outcomes and do not count.
func (r *Report) Failed() bool {
	return len(r.EmbeddingFailures)+len(r.SinkFailures)+len(r.FileFailures) > 0
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"files=%d rows=%d skipped=%d degraded=%d built=%d delivered=%d over_budget=%d embedding_failures=%d sink_failures=%d file_failures=%d",
		r.Files, r.Rows, r.Skipped, r.Degraded, r.Built, r.Delivered,
		len(r.OverBudget), len(r.EmbeddingFailures), len(r.SinkFailures), len(r.FileFailures),
	)
}

// sort orders the per-row lists by source then row; workers finish in any order.
func (r *Report) sort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	slices.SortFunc(r.OverBudget, func(a, b ChunkRef) int {
		return cmp.Or(cmp.Compare(a.Source, b.Source), cmp.Compare(a.Row, b.Row))
	})
	byRef := func(a, b ChunkFailure) int {
		return cmp.Or(cmp.Compare(a.Source, b.Source), cmp.Compare(a.Row, b.Row))
	}
	slices.SortFunc(r.EmbeddingFailures, byRef)
	slices.SortFunc(r.SinkFailures, byRef)
	slices.SortFunc(r.FileFailures, byRef)
}
