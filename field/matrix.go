package field

import "errors"

// ErrSingularMatrix is returned by Inverse on a non-invertible matrix.
var ErrSingularMatrix = errors.New("singular matrix")

// Matrix is an immutable rectangular array of elements of a field. It
// has just enough methods to support the Frobenius linear maps of
// extension fields.
type Matrix[E any] struct {
	f             Field[E]
	rows, columns int
	// Elements are stored in row-major order.
	elements []E
}

func checkRowColumnCount(rows, columns int) {
	if rows <= 0 {
		panic("invalid row count")
	}
	if columns <= 0 {
		panic("invalid column count")
	}
}

// NewZeroMatrix returns a rows x columns matrix over f with every
// element being zero.
func NewZeroMatrix[E any](f Field[E], rows, columns int) Matrix[E] {
	checkRowColumnCount(rows, columns)
	elements := make([]E, rows*columns)
	for i := range elements {
		elements[i] = f.Zero()
	}
	return Matrix[E]{f, rows, columns, elements}
}

// NewMatrixFromSlice returns a rows x columns matrix with elements
// taken from the given array in row-major order.
func NewMatrixFromSlice[E any](f Field[E], rows, columns int, elements []E) Matrix[E] {
	checkRowColumnCount(rows, columns)
	if len(elements) != rows*columns {
		panic("element count is not rows*columns")
	}
	elementsCopy := make([]E, len(elements))
	copy(elementsCopy, elements)
	return Matrix[E]{f, rows, columns, elementsCopy}
}

// NewMatrixFromFunction returns a rows x columns matrix with elements
// filled in from the given function, which is passed the row index
// and the column index, and shouldn't rely on any particular call
// ordering.
func NewMatrixFromFunction[E any](f Field[E], rows, columns int, fn func(int, int) E) Matrix[E] {
	checkRowColumnCount(rows, columns)
	elements := make([]E, rows*columns)
	for i := 0; i < rows; i++ {
		for j := 0; j < columns; j++ {
			elements[i*columns+j] = fn(i, j)
		}
	}
	return NewMatrixFromSlice(f, rows, columns, elements)
}

// NewIdentityMatrix returns an n x n identity matrix over f.
func NewIdentityMatrix[E any](f Field[E], n int) Matrix[E] {
	return NewMatrixFromFunction(f, n, n, func(i, j int) E {
		if i == j {
			return f.One()
		}
		return f.Zero()
	})
}

func (m Matrix[E]) checkRowIndex(i int) {
	if i < 0 || i >= m.rows {
		panic("row index out of bounds")
	}
}

func (m Matrix[E]) checkColumnIndex(i int) {
	if i < 0 || i >= m.columns {
		panic("column index out of bounds")
	}
}

// At returns the element at row index i and column index j.
func (m Matrix[E]) At(i, j int) E {
	m.checkRowIndex(i)
	m.checkColumnIndex(j)
	return m.elements[i*m.columns+j]
}

// Times returns the matrix product of m with n, which must have
// compatible dimensions.
func (m Matrix[E]) Times(n Matrix[E]) Matrix[E] {
	if m.columns != n.rows {
		panic("mismatched dimensions")
	}

	return NewMatrixFromFunction(m.f, m.rows, n.columns, func(i, j int) E {
		t := m.f.Zero()
		for k := 0; k < m.columns; k++ {
			t = m.f.Add(t, m.f.Mul(m.At(i, k), n.At(k, j)))
		}
		return t
	})
}

// Apply returns the image of the column vector v under m.
func (m Matrix[E]) Apply(v []E) []E {
	if len(v) != m.columns {
		panic("mismatched dimensions")
	}

	out := make([]E, m.rows)
	for i := 0; i < m.rows; i++ {
		t := m.f.Zero()
		for j := 0; j < m.columns; j++ {
			t = m.f.Add(t, m.f.Mul(m.At(i, j), v[j]))
		}
		out[i] = t
	}
	return out
}

// row returns a slice into m.elements, so caller must not mutate
// except for local temporary matrices.
func (m Matrix[E]) row(i int) []E {
	m.checkRowIndex(i)
	return m.elements[i*m.columns : (i+1)*m.columns]
}

func (m Matrix[E]) clone() Matrix[E] {
	return NewMatrixFromSlice(m.f, m.rows, m.columns, m.elements)
}

// The mutating functions below must not be called except on local
// temporary matrices.

func (m Matrix[E]) swapRows(i, j int) {
	m.checkRowIndex(i)
	m.checkRowIndex(j)

	if i == j {
		return
	}

	rowI := m.row(i)
	rowJ := m.row(j)
	for k := 0; k < m.columns; k++ {
		rowI[k], rowJ[k] = rowJ[k], rowI[k]
	}
}

func (m Matrix[E]) scaleRow(i int, c E) {
	row := m.row(i)
	for j, e := range row {
		row[j] = m.f.Mul(e, c)
	}
}

func (m Matrix[E]) subtractScaledRow(dest, src int, c E) {
	rowSrc := m.row(src)
	rowDest := m.row(dest)
	for j, e := range rowSrc {
		rowDest[j] = m.f.Add(rowDest[j], m.f.Neg(m.f.Mul(e, c)))
	}
}

func (m Matrix[E]) rowReduceForInverse() (Matrix[E], error) {
	mInv := NewIdentityMatrix(m.f, m.columns)
	// Convert to row echelon form.
	for i := 0; i < m.rows; i++ {
		// Swap the ith row with the first row with a non-zero
		// ith column.
		pivot := m.f.Zero()
		for j := i; j < m.rows; j++ {
			if !IsZero(m.f, m.At(j, i)) {
				m.swapRows(i, j)
				mInv.swapRows(i, j)
				pivot = m.At(i, i)
				break
			}
		}
		if IsZero(m.f, pivot) {
			return Matrix[E]{}, ErrSingularMatrix
		}

		// Scale the ith row to have 1 as the pivot.
		pivotInv, err := m.f.Inv(pivot)
		if err != nil {
			return Matrix[E]{}, err
		}
		m.scaleRow(i, pivotInv)
		mInv.scaleRow(i, pivotInv)

		// Zero out all elements below m_ii.
		for j := i + 1; j < m.rows; j++ {
			t := m.At(j, i)
			if !IsZero(m.f, t) {
				m.subtractScaledRow(j, i, t)
				mInv.subtractScaledRow(j, i, t)
			}
		}
	}

	// Then convert to reduced row echelon form.
	for i := 0; i < m.rows; i++ {
		// Zero out all elements above m_ii.
		for j := 0; j < i; j++ {
			t := m.At(j, i)
			if !IsZero(m.f, t) {
				m.subtractScaledRow(j, i, t)
				mInv.subtractScaledRow(j, i, t)
			}
		}
	}

	return mInv, nil
}

// Inverse returns the matrix inverse of m, which must be square, or
// ErrSingularMatrix if it is singular.
func (m Matrix[E]) Inverse() (Matrix[E], error) {
	if m.rows != m.columns {
		panic("cannot invert non-square matrix")
	}
	mInv, err := m.clone().rowReduceForInverse()
	if err != nil {
		return Matrix[E]{}, err
	}

	return mInv, nil
}
