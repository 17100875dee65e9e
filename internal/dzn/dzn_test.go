package dzn

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_scalarsAndArrays(t *testing.T) {
	src := `
% queens instance
n = 4;
ok = true;
rows = [0, 1, 2, 3];
costs = array2d(1..2, 1..3, [1, 2, 3, 4, 5, 6]);
`
	got, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse(): want no error, got %s", err)
	}

	wantN := int64(4)
	if n, _ := got.Int("n"); n != wantN {
		t.Errorf("n: want %d, got %d", wantN, n)
	}
	if !got["ok"].Bool {
		t.Errorf("ok: want true")
	}

	wantRows := []int64{0, 1, 2, 3}
	gotRows, err := got.IntArray("rows")
	if err != nil {
		t.Fatalf("IntArray(rows): %s", err)
	}
	if diff := cmp.Diff(wantRows, gotRows); diff != "" {
		t.Errorf("rows: mismatch (+want -got):\n%s", diff)
	}

	mat, err := got.IntMatrix("costs")
	if err != nil {
		t.Fatalf("IntMatrix(costs): %s", err)
	}
	if mat.Cols != 3 {
		t.Errorf("costs.Cols: want 3, got %d", mat.Cols)
	}
	wantRow0 := []int64{1, 2, 3}
	if diff := cmp.Diff(wantRow0, mat.Row(0)); diff != "" {
		t.Errorf("costs row 0: mismatch (+want -got):\n%s", diff)
	}
	wantRow1 := []int64{4, 5, 6}
	if diff := cmp.Diff(wantRow1, mat.Row(1)); diff != "" {
		t.Errorf("costs row 1: mismatch (+want -got):\n%s", diff)
	}
}

func TestParse_array1d(t *testing.T) {
	src := `durations = array1d(1..3, [5, 2, 7]);`
	got, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse(): want no error, got %s", err)
	}
	want := []int64{5, 2, 7}
	gotArr, err := got.IntArray("durations")
	if err != nil {
		t.Fatalf("IntArray(durations): %s", err)
	}
	if diff := cmp.Diff(want, gotArr); diff != "" {
		t.Errorf("durations: mismatch (+want -got):\n%s", diff)
	}
}

func TestParse_missingField(t *testing.T) {
	got, err := Parse(strings.NewReader("n = 4;"))
	if err != nil {
		t.Fatalf("Parse(): want no error, got %s", err)
	}
	if _, err := got.Int("missing"); err == nil {
		t.Errorf("Int(missing): want error, got none")
	}
}

func TestParse_unterminatedStatement(t *testing.T) {
	if _, err := Parse(strings.NewReader("n = 4")); err == nil {
		t.Errorf("Parse(): want error for unterminated statement, got none")
	}
}

func TestParse_multilineArray(t *testing.T) {
	src := "demands = [\n  1,\n  2,\n  3\n];\n"
	got, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse(): want no error, got %s", err)
	}
	want := []int64{1, 2, 3}
	gotArr, err := got.IntArray("demands")
	if err != nil {
		t.Fatalf("IntArray(demands): %s", err)
	}
	if diff := cmp.Diff(want, gotArr); diff != "" {
		t.Errorf("demands: mismatch (+want -got):\n%s", diff)
	}
}
