package proof

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rhartert/lcgo/internal/sat"
)

// NogoodStep is a DRCP `n` step: a clause over solver literal codes, with
// optional hint step IDs pointing at the inference/nogood steps that
// justify it (present only in a full proof, empty in a scaffold).
type NogoodStep struct {
	ID    int
	Lits  []sat.Literal
	Hints []int
}

// InferenceStep is a DRCP `i` step: a propagator edge, premises implying an
// optional conclusion literal (omitted for a pure inconsistency), tagged
// with the owning constraint and its inference label.
type InferenceStep struct {
	ID            int
	Premises      []sat.Literal
	Conclusion    sat.Literal
	HasConclusion bool
	ConstraintTag int
	Label         string
}

// Conclusion is the terminal DRCP `c` step.
type Conclusion struct {
	Unsat    bool
	Bound    sat.Literal
	HasBound bool
}

// Scaffold is a parsed DRCP proof with no inference steps: just the nogood
// sequence the solver learned, plus its conclusion, the input to the
// processor (C14).
type Scaffold struct {
	Nogoods    []NogoodStep
	Conclusion Conclusion
}

// FullProof additionally carries inference steps interleaved with nogoods,
// in file order, the output of the processor and the input to the checker
// (C15).
type FullProof struct {
	Inferences []InferenceStep
	Nogoods    []NogoodStep
	Conclusion Conclusion
}

// ParseScaffold reads a DRCP scaffold: `n` and `c` lines only. `d` lines are
// accepted and ignored, per the format's deletion-step allowance; any `i`
// line is rejected since a scaffold carries no inferences yet.
func ParseScaffold(r io.Reader) (Scaffold, error) {
	var out Scaffold
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "n":
			ng, err := parseNogoodFields(fields[1:])
			if err != nil {
				return Scaffold{}, err
			}
			out.Nogoods = append(out.Nogoods, ng)
		case "d":
			// deletion steps carry no semantic content for either pass.
		case "c":
			c, err := parseConclusionFields(fields[1:])
			if err != nil {
				return Scaffold{}, err
			}
			out.Conclusion = c
		case "i":
			return Scaffold{}, fmt.Errorf("proof: scaffold must not contain inference steps")
		default:
			return Scaffold{}, fmt.Errorf("proof: unrecognised step kind %q", fields[0])
		}
	}
	return out, sc.Err()
}

// ParseFullProof reads a complete DRCP proof (`i`, `n`, `d`, `c` steps) in
// file order, for the checker (C15).
func ParseFullProof(r io.Reader) (FullProof, error) {
	var out FullProof
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "n":
			ng, err := parseNogoodFields(fields[1:])
			if err != nil {
				return FullProof{}, err
			}
			out.Nogoods = append(out.Nogoods, ng)
		case "i":
			inf, err := parseInferenceFields(fields[1:])
			if err != nil {
				return FullProof{}, err
			}
			out.Inferences = append(out.Inferences, inf)
		case "d":
		case "c":
			c, err := parseConclusionFields(fields[1:])
			if err != nil {
				return FullProof{}, err
			}
			out.Conclusion = c
		default:
			return FullProof{}, fmt.Errorf("proof: unrecognised step kind %q", fields[0])
		}
	}
	return out, sc.Err()
}

func parseNogoodFields(f []string) (NogoodStep, error) {
	if len(f) == 0 {
		return NogoodStep{}, fmt.Errorf("proof: nogood step missing id")
	}
	id, err := strconv.Atoi(f[0])
	if err != nil {
		return NogoodStep{}, fmt.Errorf("proof: bad nogood id %q: %w", f[0], err)
	}
	rest := f[1:]
	zero := indexOf(rest, "0")
	if zero < 0 {
		return NogoodStep{}, fmt.Errorf("proof: nogood %d missing 0 terminator", id)
	}
	lits, err := parseLiterals(rest[:zero])
	if err != nil {
		return NogoodStep{}, err
	}
	var hints []int
	for _, h := range rest[zero+1:] {
		v, err := strconv.Atoi(h)
		if err != nil {
			return NogoodStep{}, fmt.Errorf("proof: bad hint id %q: %w", h, err)
		}
		hints = append(hints, v)
	}
	return NogoodStep{ID: id, Lits: lits, Hints: hints}, nil
}

func parseInferenceFields(f []string) (InferenceStep, error) {
	if len(f) == 0 {
		return InferenceStep{}, fmt.Errorf("proof: inference step missing id")
	}
	id, err := strconv.Atoi(f[0])
	if err != nil {
		return InferenceStep{}, fmt.Errorf("proof: bad inference id %q: %w", f[0], err)
	}
	rest := f[1:]
	zero := indexOf(rest, "0")
	if zero < 0 {
		return InferenceStep{}, fmt.Errorf("proof: inference %d missing 0 terminator", id)
	}
	premises, err := parseLiterals(rest[:zero])
	if err != nil {
		return InferenceStep{}, err
	}
	inf := InferenceStep{ID: id, Premises: premises}
	tail := rest[zero+1:]
	i := 0
	if i < len(tail) && !strings.HasPrefix(tail[i], "c:") {
		v, err := strconv.Atoi(tail[i])
		if err != nil {
			return InferenceStep{}, fmt.Errorf("proof: bad conclusion literal %q: %w", tail[i], err)
		}
		inf.Conclusion = sat.Literal(v)
		inf.HasConclusion = true
		i++
	}
	for ; i < len(tail); i++ {
		switch {
		case strings.HasPrefix(tail[i], "c:"):
			v, err := strconv.Atoi(strings.TrimPrefix(tail[i], "c:"))
			if err != nil {
				return InferenceStep{}, fmt.Errorf("proof: bad constraint tag %q: %w", tail[i], err)
			}
			inf.ConstraintTag = v
		case strings.HasPrefix(tail[i], "l:"):
			inf.Label = strings.TrimPrefix(tail[i], "l:")
		}
	}
	return inf, nil
}

func parseConclusionFields(f []string) (Conclusion, error) {
	if len(f) == 0 {
		return Conclusion{}, fmt.Errorf("proof: empty conclusion step")
	}
	if f[0] == "UNSAT" {
		return Conclusion{Unsat: true}, nil
	}
	v, err := strconv.Atoi(f[0])
	if err != nil {
		return Conclusion{}, fmt.Errorf("proof: bad conclusion literal %q: %w", f[0], err)
	}
	return Conclusion{Bound: sat.Literal(v), HasBound: true}, nil
}

func parseLiterals(f []string) ([]sat.Literal, error) {
	out := make([]sat.Literal, 0, len(f))
	for _, s := range f {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("proof: bad literal %q: %w", s, err)
		}
		out = append(out, sat.Literal(v))
	}
	return out, nil
}

func indexOf(f []string, s string) int {
	for i, v := range f {
		if v == s {
			return i
		}
	}
	return -1
}

// WriteNogood formats one DRCP nogood step, with hints if any, matching
// the scaffold Writer's wire format plus the processor's hint suffix.
func WriteNogood(w io.Writer, ng NogoodStep) error {
	var b strings.Builder
	fmt.Fprintf(&b, "n %d", ng.ID)
	for _, l := range ng.Lits {
		fmt.Fprintf(&b, " %d", int(l))
	}
	b.WriteString(" 0")
	for _, h := range ng.Hints {
		fmt.Fprintf(&b, " %d", h)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteInference formats one DRCP inference step.
func WriteInference(w io.Writer, inf InferenceStep) error {
	var b strings.Builder
	fmt.Fprintf(&b, "i %d", inf.ID)
	for _, l := range inf.Premises {
		fmt.Fprintf(&b, " %d", int(l))
	}
	b.WriteString(" 0")
	if inf.HasConclusion {
		fmt.Fprintf(&b, " %d", int(inf.Conclusion))
	}
	fmt.Fprintf(&b, " c:%d l:%s\n", inf.ConstraintTag, inf.Label)
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteConclusion formats the terminal DRCP step.
func WriteConclusion(w io.Writer, c Conclusion) error {
	var line string
	if c.Unsat {
		line = "c UNSAT\n"
	} else {
		line = fmt.Sprintf("c %d\n", int(c.Bound))
	}
	_, err := io.WriteString(w, line)
	return err
}
