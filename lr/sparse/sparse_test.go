package sparse

import (
	"testing"
)

func TestSparseSetAndGet(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	M.Set(0, 9, 1)
	M.Set(2, 1, 7)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	if v := M.Value(2, 1); v != 7 {
		t.Errorf("expected M(2,1) = 7, is %d", v)
	}
	if v := M.Value(9, 9); v != DefaultNullValue {
		t.Errorf("expected M(9,9) to be null, is %d", v)
	}
	M.Set(2, 3, 42)
	if v := M.Value(2, 3); v != 42 {
		t.Errorf("expected overwritten M(2,3) = 42, is %d", v)
	}
	if M.ValueCount() != 3 {
		t.Errorf("expected 3 values, have %d", M.ValueCount())
	}
}

func TestSparseRowMajorOrder(t *testing.T) {
	M := NewIntMatrix(5, 5, -1)
	M.Set(4, 0, 40)
	M.Set(0, 4, 4)
	M.Set(2, 2, 22)
	M.Set(0, 0, 0)
	var seen []int32
	M.Each(func(i, j int, v int32) {
		seen = append(seen, v)
	})
	expected := []int32{0, 4, 22, 40}
	if len(seen) != len(expected) {
		t.Fatalf("expected %d entries, have %d", len(expected), len(seen))
	}
	for k := range expected {
		if seen[k] != expected[k] {
			t.Errorf("entry #%d: expected %d, have %d", k, expected[k], seen[k])
		}
	}
}

func TestDenseMatchesSparse(t *testing.T) {
	S := NewIntMatrix(4, 6, DefaultNullValue)
	D := NewDenseMatrix(4, 6, DefaultNullValue)
	for _, m := range []Matrix{S, D} {
		m.Set(3, 5, 9)
		m.Set(1, 2, 5)
		m.Set(0, 0, 1)
		m.Set(1, 2, 6)
	}
	if S.ValueCount() != D.ValueCount() {
		t.Errorf("value counts differ: sparse %d, dense %d", S.ValueCount(), D.ValueCount())
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 6; j++ {
			if S.Value(i, j) != D.Value(i, j) {
				t.Errorf("(%d,%d): sparse %d, dense %d", i, j, S.Value(i, j), D.Value(i, j))
			}
		}
	}
	D.Set(0, 0, DefaultNullValue)
	if D.ValueCount() != 2 {
		t.Errorf("expected dense count to drop to 2, is %d", D.ValueCount())
	}
}

func TestSetOutOfRangePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected Set out of range to panic")
		}
	}()
	NewIntMatrix(2, 2, 0).Set(2, 0, 1)
}
