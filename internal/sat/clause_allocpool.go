//go:build clausepool

package sat

// Pooled clause allocation: literal slices are borrowed from the
// size-classed pools in clauses_alloc.go instead of being allocated fresh
// for every learned nogood. Useful under restart-heavy workloads where
// short-lived learnt clauses would otherwise churn through GC. Selected at
// build time via the clausepool tag; clause_alloc.go is the plain
// make()-backed default.
func newClause(literals []Literal, learnt bool) *Clause {
	c := &Clause{learnt: learnt}
	c.sliceRef = allocSlice(len(literals))
	c.literals = (*c.sliceRef)[:0]
	c.literals = append(c.literals, literals...)
	return c
}

func freeClause(c *Clause) {
	if c.sliceRef == nil {
		return
	}
	freeSlice(c.sliceRef)
	c.sliceRef = nil
}
