package sat

import "sort"

// reduceLearned halves the learnt database: clauses are ordered by activity
// with an LBD tie-break (higher LBD counts as less useful), the less useful
// half is dropped except for locked clauses (those currently serving as
// some variable's reason) and protected ones, and the other half keeps
// every clause that is locked, protected or above the activity threshold.
func (s *Solver) reduceLearned() {
	if len(s.learnts) == 0 {
		return
	}
	lim := s.clauseInc / float64(len(s.learnts))

	sort.Slice(s.learnts, func(i, j int) bool {
		a, b := s.learnts[i], s.learnts[j]
		if a.activity != b.activity {
			return a.activity < b.activity
		}
		return a.lbd > b.lbd
	})

	i, j := 0, 0
	for ; i < len(s.learnts)/2; i++ {
		c := s.learnts[i]
		if c.locked(s) || c.isProtected {
			s.learnts[j] = c
			j++
		} else {
			c.Remove(s)
		}
	}
	for ; i < len(s.learnts); i++ {
		c := s.learnts[i]
		if !c.locked(s) && !c.isProtected && c.activity < lim {
			c.Remove(s)
		} else {
			s.learnts[j] = c
			j++
		}
	}
	s.learnts = s.learnts[:j]
}
