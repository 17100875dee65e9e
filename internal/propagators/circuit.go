package propagators

import "github.com/rhartert/lcgo/internal/sat"

// Circuit propagates the subtour-prevention half of a Hamiltonian circuit
// over a successor encoding: vars[i] is the node visited after node i,
// 0-indexed. The permutation half (no two nodes share a successor) is a
// separate AllDifferent that callers post over the same variables (see
// model.PostCircuit) — Circuit only forbids closing a partial chain of fixed
// successors before it covers every node.
type Circuit struct {
	vars []sat.DomainId
	tag  int
}

func NewCircuit(vars []sat.DomainId, tag int) *Circuit {
	return &Circuit{vars: vars, tag: tag}
}

func (p *Circuit) Name() string { return "circuit" }
func (p *Circuit) Priority() int { return 0 }
func (p *Circuit) Tag() int       { return p.tag }
func (p *Circuit) Label() Label   { return LabelCircuit }

func (p *Circuit) InitialiseAtRoot(ctx *sat.InitialisationContext) *sat.Inconsistency {
	for i, x := range p.vars {
		ctx.WatchAssign(x, i)
	}
	return nil
}

// chain follows fixed successors starting at start, returning the visited
// node sequence and whether it closed back on start.
func (p *Circuit) chain(ctx sat.ReadOnlyContext, start int) (nodes []int, closed bool) {
	n := len(p.vars)
	nodes = []int{start}
	cur := start
	for ctx.IsFixed(p.vars[cur]) {
		nxt := int(ctx.LowerBound(p.vars[cur]))
		if nxt == start {
			return nodes, true
		}
		if len(nodes) >= n {
			break // defensive: AllDifferent should have already caught this
		}
		nodes = append(nodes, nxt)
		cur = nxt
	}
	return nodes, false
}

func chainReason(vars []sat.DomainId, nodes []int) []sat.Predicate {
	out := make([]sat.Predicate, 0, len(nodes)-1)
	for k := 0; k+1 < len(nodes); k++ {
		out = append(out, sat.EqualPredicate(vars[nodes[k]], int64(nodes[k+1])))
	}
	return out
}

func (p *Circuit) Propagate(ctx *sat.PropagationContext) *sat.Inconsistency {
	n := len(p.vars)
	visited := make([]bool, n)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		nodes, closed := p.chain(ctx, start)
		for _, v := range nodes {
			visited[v] = true
		}
		if closed {
			if len(nodes) < n {
				return sat.ExplanationConflict(chainReason(p.vars, append(nodes, start)))
			}
			continue
		}
		tail := nodes[len(nodes)-1]
		if len(nodes) < n && ctx.Contains(p.vars[tail], int64(start)) {
			reason := sat.Eager(chainReason(p.vars, nodes))
			if inc := ctx.Remove(p.vars[tail], int64(start), reason); inc != nil {
				return inc
			}
		}
	}
	return nil
}

func (p *Circuit) DetectInconsistency(ctx sat.ReadOnlyContext) ([]sat.Predicate, bool) {
	n := len(p.vars)
	visited := make([]bool, n)
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		nodes, closed := p.chain(ctx, start)
		for _, v := range nodes {
			visited[v] = true
		}
		if closed && len(nodes) < n {
			return chainReason(p.vars, append(nodes, start)), true
		}
	}
	return nil, false
}
