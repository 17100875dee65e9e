// Package proof implements the DRCP proof log writer (C13), the scaffold
// processor (C14), and the proof checker (C15).
package proof

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rhartert/lcgo/internal/sat"
)

// Writer implements sat.ProofSink, streaming a DRCP scaffold: one nogood
// step per learned clause, in installation order, with no hints. Hints are
// only meaningful in a full proof, which the processor (C14) produces from
// this scaffold.
//
// Writer owns out exclusively for the lifetime of a solve, per the proof
// writer's shared-resource policy.
type Writer struct {
	out    *bufio.Writer
	nextID int
	err    error
}

// NewWriter returns a Writer that appends DRCP steps to out. Callers must
// call ConcludeUnsat, ConcludeBound or Flush after the solve completes to
// flush buffered output.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: bufio.NewWriter(out), nextID: 1}
}

// OnLearnedNogood writes one scaffold nogood step for a freshly learned
// clause. backjumpLevel is accepted to satisfy sat.ProofSink but is not
// itself part of the DRCP text.
func (w *Writer) OnLearnedNogood(literals []sat.Literal, backjumpLevel int) {
	if w.err != nil {
		return
	}
	if err := WriteNogood(w.out, NogoodStep{ID: w.nextID, Lits: literals}); err != nil {
		w.err = err
		return
	}
	w.nextID++
}

var _ sat.ProofSink = (*Writer)(nil)

// NextID returns the step ID the next OnLearnedNogood call will use, for
// the conclusion step to reference the final recorded nogood.
func (w *Writer) NextID() int { return w.nextID }

// ConcludeUnsat writes the terminal `c UNSAT` step.
func (w *Writer) ConcludeUnsat() error {
	if w.err != nil {
		return w.err
	}
	if err := WriteConclusion(w.out, Conclusion{Unsat: true}); err != nil {
		w.err = err
		return err
	}
	return w.flush()
}

// ConcludeBound writes the terminal `c <literal>` step recording the
// optimal objective bound as a DRCP literal code.
func (w *Writer) ConcludeBound(bound sat.Literal) error {
	if w.err != nil {
		return w.err
	}
	if err := WriteConclusion(w.out, Conclusion{Bound: bound, HasBound: true}); err != nil {
		w.err = err
		return err
	}
	return w.flush()
}

func (w *Writer) flush() error {
	if err := w.out.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Flush pushes any buffered nogood steps to the underlying writer without
// emitting a conclusion step, for a caller that ends a proof-enabled solve
// without reaching UNSAT or an optimal bound (timeout, plain satisfiable).
func (w *Writer) Flush() error { return w.flush() }

// Err reports the first write error encountered, if any.
func (w *Writer) Err() error { return w.err }

// WriteLiteralNames emits the companion .lits file: one line per solver
// literal with a known predicate, `<code> [<name> <op> <value>]`, built
// from names, the model's declared variable names keyed by their lowered
// DomainId. Literals whose predicate is trivial or whose variable has no
// declared name are skipped, since the checker only needs named atomics to
// report human-readable steps; it re-derives everything else from the
// model itself.
func WriteLiteralNames(out io.Writer, s *sat.Solver, names map[sat.DomainId]string) error {
	w := bufio.NewWriter(out)
	for v := 0; v < s.NumPropositionalVariables(); v++ {
		for _, lit := range []sat.Literal{
			sat.PositiveLiteral(sat.PropositionalVariable(v)),
			sat.NegativeLiteral(sat.PropositionalVariable(v)),
		} {
			p, ok := s.PredicateForLiteral(lit)
			if !ok || p.IsTrivial() {
				continue
			}
			name, ok := names[p.Var]
			if !ok {
				continue
			}
			if _, err := fmt.Fprintf(w, "%d [%s %s %d]\n", int(lit), name, p.Kind, p.Value); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
