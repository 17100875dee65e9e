package proof

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rhartert/lcgo/internal/model"
	"github.com/rhartert/lcgo/internal/sat"
)

// ParseLiteralNames reads the .lits companion file WriteLiteralNames
// produces, resolving each named atomic back to a sat.Predicate against vm
// so the checker never has to re-derive literal numbering from a fresh
// solve, which lazy literal creation makes non-reproducible.
func ParseLiteralNames(r io.Reader, vm *model.VariableMap) (map[sat.Literal]sat.Predicate, error) {
	out := map[sat.Literal]sat.Predicate{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lit, pred, err := parseLitLine(line, vm)
		if err != nil {
			return nil, err
		}
		out[lit] = pred
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseLitLine(line string, vm *model.VariableMap) (sat.Literal, sat.Predicate, error) {
	open := strings.IndexByte(line, '[')
	close := strings.LastIndexByte(line, ']')
	if open < 0 || close < open {
		return 0, sat.Predicate{}, fmt.Errorf("proof: malformed .lits line %q", line)
	}
	codeField := strings.TrimSpace(line[:open])
	code, err := strconv.Atoi(codeField)
	if err != nil {
		return 0, sat.Predicate{}, fmt.Errorf("proof: bad literal code in %q: %w", line, err)
	}

	atomic := strings.Fields(line[open+1 : close])
	if len(atomic) != 3 {
		return 0, sat.Predicate{}, fmt.Errorf("proof: malformed atomic %q", line)
	}
	name, op, valField := atomic[0], atomic[1], atomic[2]
	value, err := strconv.ParseInt(valField, 10, 64)
	if err != nil {
		return 0, sat.Predicate{}, fmt.Errorf("proof: bad atomic value in %q: %w", line, err)
	}
	x, ok := vm.Lookup(name)
	if !ok {
		return 0, sat.Predicate{}, fmt.Errorf("proof: unknown variable %q in %q", name, line)
	}

	var pred sat.Predicate
	switch op {
	case ">=":
		pred = sat.GreaterOrEqualPredicate(x, value)
	case "<=":
		pred = sat.LessOrEqualPredicate(x, value)
	case "==":
		pred = sat.EqualPredicate(x, value)
	case "!=":
		pred = sat.NotEqualPredicate(x, value)
	default:
		return 0, sat.Predicate{}, fmt.Errorf("proof: unknown operator %q in %q", op, line)
	}
	return sat.Literal(code), pred, nil
}
