/*
Package sparse implements simple types for integer matrices.
They are mainly used for parser tables (GOTO-table and ACTION-table).
Every entry in a matrix is a single int32.

IntMatrix uses the COO algorithm (a.k.a. triplet-encoding), with triplets
kept in row-major order.

	https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229
	https://www.coin-or.org/Ipopt/documentation/node38.html

DenseMatrix stores every entry. Both types implement interface Matrix and are
interchangeable; choosing one over the other is a tradeoff between memory
and access time only.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package sparse

import (
	"fmt"
	"sort"
)

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// Matrix is the common interface of sparse and dense integer matrices.
type Matrix interface {
	M() int
	N() int
	NullValue() int32
	Value(i, j int) int32
	Set(i, j int, value int32)
	ValueCount() int
	Each(f func(i, j int, value int32))
}

// IntMatrix is a type for a spare matrix of integer values. Construct with
//
//	M := NewIntMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//	M.Set(2, 3, 4711)              // set a value
//	v := M.Value(2, 3)             // returns 4711
//	cnt := M.ValueCount()          // returns 1 (one position set)
//	v = M.Value(9, 9)              // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value. Space for
// null-values is not re-claimed.
type IntMatrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

var _ Matrix = (*IntMatrix)(nil)

// Triplet values to store
type triplet struct {
	row, col int
	value    int32
}

// NewIntMatrix creates a new matrix for int, size m x n. The 3rd argument is a null-value,
// indicating empty entries (use DefaultNullValue if you haven't any specific
// requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		values:  []triplet{},
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of values in the matrix.
func (m *IntMatrix) ValueCount() int {
	return len(m.values)
}

// search returns the position of the first triplet not stored left of (i,j).
func (m *IntMatrix) search(i, j int) int {
	return sort.Search(len(m.values), func(k int) bool {
		return !m.values[k].storedLeftOf(i, j)
	})
}

// Value returns the value at position (i,j), or NullValue
func (m *IntMatrix) Value(i, j int) int32 {
	k := m.search(i, j)
	if k < len(m.values) && m.values[k].storedAt(i, j) {
		return m.values[k].value
	}
	return m.nullval
}

// Set a value in the matrix at position (i,j). Panics if (i,j) is out of range.
func (m *IntMatrix) Set(i, j int, value int32) {
	if i < 0 || i >= m.rowcnt || j < 0 || j >= m.colcnt {
		panic(fmt.Sprintf("sparse: index (%d,%d) out of range %dx%d", i, j, m.rowcnt, m.colcnt))
	}
	at := m.search(i, j)
	if at < len(m.values) && m.values[at].storedAt(i, j) { // value already present
		m.values[at].value = value
		return
	}
	tnew := triplet{row: i, col: j, value: value}
	// the following 3 lines have to work for at being the right edge of values or not
	m.values = append(m.values, tnew)    // make room
	copy(m.values[at+1:], m.values[at:]) // copy remainder values one index to right
	m.values[at] = tnew                  // if not append-case: insert new triplet
}

// Each calls f for every position set, in row-major order. Positions
// overwritten with the null-value are skipped.
func (m *IntMatrix) Each(f func(i, j int, value int32)) {
	for _, t := range m.values {
		if t.value != m.nullval {
			f(t.row, t.col, t.value)
		}
	}
}

func (t *triplet) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet) storedAt(i, j int) bool {
	return (t.row == i && t.col == j)
}

// --- Dense matrices --------------------------------------------------------

// DenseMatrix is a matrix of integer values which stores every entry.
type DenseMatrix struct {
	values  []int32
	rowcnt  int
	colcnt  int
	nullval int32
	count   int
}

var _ Matrix = (*DenseMatrix)(nil)

// NewDenseMatrix creates a new dense matrix of size m x n, with every entry
// initialized to nullValue.
func NewDenseMatrix(m, n int, nullValue int32) *DenseMatrix {
	values := make([]int32, m*n)
	for k := range values {
		values[k] = nullValue
	}
	return &DenseMatrix{
		values:  values,
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *DenseMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *DenseMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value
func (m *DenseMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of non-null values in the matrix.
func (m *DenseMatrix) ValueCount() int {
	return m.count
}

// Value returns the value at position (i,j). Positions out of range are null.
func (m *DenseMatrix) Value(i, j int) int32 {
	if i < 0 || i >= m.rowcnt || j < 0 || j >= m.colcnt {
		return m.nullval
	}
	return m.values[i*m.colcnt+j]
}

// Set a value in the matrix at position (i,j). Panics if (i,j) is out of range.
func (m *DenseMatrix) Set(i, j int, value int32) {
	if i < 0 || i >= m.rowcnt || j < 0 || j >= m.colcnt {
		panic(fmt.Sprintf("sparse: index (%d,%d) out of range %dx%d", i, j, m.rowcnt, m.colcnt))
	}
	k := i*m.colcnt + j
	if m.values[k] == m.nullval && value != m.nullval {
		m.count++
	} else if m.values[k] != m.nullval && value == m.nullval {
		m.count--
	}
	m.values[k] = value
}

// Each calls f for every non-null position, in row-major order.
func (m *DenseMatrix) Each(f func(i, j int, value int32)) {
	for k, v := range m.values {
		if v != m.nullval {
			f(k/m.colcnt, k%m.colcnt, v)
		}
	}
}
