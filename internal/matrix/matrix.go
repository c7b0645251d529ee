// Package matrix provides a dense real-valued matrix with exact determinant,
// cofactor and inverse computation.
package matrix

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Eps is the absolute tolerance used by Equal.
const Eps = 1e-7

var (
	// ErrInvalidDimension is returned for empty matrices or mismatched shapes.
	ErrInvalidDimension = errors.New("matrix: invalid dimension")
	// ErrNotSquare is returned by operations defined only for square matrices.
	ErrNotSquare = errors.New("matrix: matrix is not square")
	// ErrSingular is returned by Inverse when the determinant is zero.
	ErrSingular = errors.New("matrix: determinant is 0")
)

// Matrix is a dense rows x cols matrix.
// Storage is row-major: element (i, j) lives at data[i*cols+j].
// A Matrix exclusively owns its storage.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// New returns a zero-filled rows x cols matrix.
func New(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimension, "new %dx%d", rows, cols)
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// Must panics if err is non-nil and returns m otherwise.
func Must(m *Matrix, err error) *Matrix {
	if err != nil {
		panic(err)
	}
	return m
}

// FromSlice returns a rows x cols matrix holding a copy of data (row-major).
func FromSlice(rows, cols int, data []float64) (*Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, errors.Wrapf(ErrInvalidDimension, "%d values for %dx%d", len(data), rows, cols)
	}
	copy(m.data, data)
	return m, nil
}

// Column returns a len(v) x 1 column vector holding a copy of v.
func Column(v []float64) (*Matrix, error) {
	return FromSlice(len(v), 1, v)
}

// Identity returns the n x n identity matrix.
func Identity(n int) (*Matrix, error) {
	m, err := New(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m, nil
}

// FromDense copies a gonum matrix.
func FromDense(d mat.Matrix) (*Matrix, error) {
	r, c := d.Dims()
	m, err := New(r, c)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.data[i*c+j] = d.At(i, j)
		}
	}
	return m, nil
}

// Dense returns a gonum copy of m.
func (m *Matrix) Dense() *mat.Dense {
	return mat.NewDense(m.rows, m.cols, append([]float64(nil), m.data...))
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns element (i, j).
func (m *Matrix) At(i, j int) float64 {
	m.check(i, j)
	return m.data[i*m.cols+j]
}

// Set sets element (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.check(i, j)
	m.data[i*m.cols+j] = v
}

// Raw returns the row-major backing slice. It is shared with m.
func (m *Matrix) Raw() []float64 { return m.data }

func (m *Matrix) check(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(errors.Errorf("matrix: index (%d, %d) out of range %dx%d", i, j, m.rows, m.cols))
	}
}

func (m *Matrix) empty() bool { return m == nil || m.rows == 0 || m.cols == 0 }

// SetRows resizes m to n rows. Overlapping rows are kept, new rows are zero.
func (m *Matrix) SetRows(n int) error {
	if n <= 0 || m.empty() {
		return errors.Wrapf(ErrInvalidDimension, "set rows to %d", n)
	}
	if n == m.rows {
		return nil
	}
	data := make([]float64, n*m.cols)
	copy(data, m.data[:min(n, m.rows)*m.cols])
	m.rows, m.data = n, data
	return nil
}

// SetCols resizes m to n columns. Overlapping columns are kept, new columns are zero.
func (m *Matrix) SetCols(n int) error {
	if n <= 0 || m.empty() {
		return errors.Wrapf(ErrInvalidDimension, "set cols to %d", n)
	}
	if n == m.cols {
		return nil
	}
	data := make([]float64, m.rows*n)
	keep := min(n, m.cols)
	for i := 0; i < m.rows; i++ {
		copy(data[i*n:i*n+keep], m.data[i*m.cols:i*m.cols+keep])
	}
	m.cols, m.data = n, data
	return nil
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	if m.empty() {
		return &Matrix{}
	}
	return &Matrix{rows: m.rows, cols: m.cols, data: append([]float64(nil), m.data...)}
}

// Move transfers the storage of m to the returned matrix and leaves m 0x0.
func (m *Matrix) Move() *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, data: m.data}
	m.rows, m.cols, m.data = 0, 0, nil
	return out
}

// Equal reports whether every element of m and o differs by less than Eps.
func (m *Matrix) Equal(o *Matrix) (bool, error) {
	if err := sameShape("equal", m, o); err != nil {
		return false, err
	}
	for i, v := range m.data {
		if math.Abs(v-o.data[i]) >= Eps {
			return false, nil
		}
	}
	return true, nil
}

func sameShape(op string, a, b *Matrix) error {
	if a.empty() || b.empty() || a.rows != b.rows || a.cols != b.cols {
		return errors.Wrapf(ErrInvalidDimension, "%s %s and %s", op, a.shape(), b.shape())
	}
	return nil
}

func (m *Matrix) shape() string {
	if m == nil {
		return "nil"
	}
	return fmt.Sprintf("%dx%d", m.rows, m.cols)
}

// Add returns a + b.
func Add(a, b *Matrix) (*Matrix, error) {
	if err := sameShape("add", a, b); err != nil {
		return nil, err
	}
	out := a.Clone()
	floats.Add(out.data, b.data)
	return out, nil
}

// Sub returns a - b.
func Sub(a, b *Matrix) (*Matrix, error) {
	if err := sameShape("sub", a, b); err != nil {
		return nil, err
	}
	out := a.Clone()
	floats.Sub(out.data, b.data)
	return out, nil
}

// Hadamard returns the element-wise product of a and b.
func Hadamard(a, b *Matrix) (*Matrix, error) {
	if err := sameShape("hadamard", a, b); err != nil {
		return nil, err
	}
	out := a.Clone()
	floats.Mul(out.data, b.data)
	return out, nil
}

// Scale returns k * a.
func Scale(k float64, a *Matrix) (*Matrix, error) {
	if a.empty() {
		return nil, errors.Wrap(ErrInvalidDimension, "scale empty matrix")
	}
	out := a.Clone()
	floats.Scale(k, out.data)
	return out, nil
}

// Mul returns the matrix product a * b.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a.empty() || b.empty() || a.cols != b.rows {
		return nil, errors.Wrapf(ErrInvalidDimension, "mul %s by %s", a.shape(), b.shape())
	}
	out := &Matrix{rows: a.rows, cols: b.cols, data: make([]float64, a.rows*b.cols)}
	for i := 0; i < a.rows; i++ {
		row := out.data[i*b.cols : (i+1)*b.cols]
		for k := 0; k < a.cols; k++ {
			aik := a.data[i*a.cols+k]
			bk := b.data[k*b.cols : (k+1)*b.cols]
			for j := range row {
				row[j] += aik * bk[j]
			}
		}
	}
	return out, nil
}

// AddInPlace sets m = m + o.
func (m *Matrix) AddInPlace(o *Matrix) error {
	if err := sameShape("add", m, o); err != nil {
		return err
	}
	floats.Add(m.data, o.data)
	return nil
}

// SubInPlace sets m = m - o.
func (m *Matrix) SubInPlace(o *Matrix) error {
	if err := sameShape("sub", m, o); err != nil {
		return err
	}
	floats.Sub(m.data, o.data)
	return nil
}

// ScaleInPlace sets m = k * m.
func (m *Matrix) ScaleInPlace(k float64) error {
	if m.empty() {
		return errors.Wrap(ErrInvalidDimension, "scale empty matrix")
	}
	floats.Scale(k, m.data)
	return nil
}

// MulInPlace sets m = m * o. The shape of m becomes m.Rows() x o.Cols().
func (m *Matrix) MulInPlace(o *Matrix) error {
	p, err := Mul(m, o)
	if err != nil {
		return err
	}
	*m = *p
	return nil
}

// Transpose returns the transpose of m.
func (m *Matrix) Transpose() *Matrix {
	if m.empty() {
		return &Matrix{}
	}
	out := &Matrix{rows: m.cols, cols: m.rows, data: make([]float64, len(m.data))}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return out
}

// Apply returns a matrix with f applied to every element of m.
func (m *Matrix) Apply(f func(float64) float64) *Matrix {
	out := m.Clone()
	for i, v := range out.data {
		out.data[i] = f(v)
	}
	return out
}

func (m *Matrix) square(op string) error {
	if m.empty() {
		return errors.Wrapf(ErrInvalidDimension, "%s of empty matrix", op)
	}
	if m.rows != m.cols {
		return errors.Wrapf(ErrNotSquare, "%s of %s", op, m.shape())
	}
	return nil
}

// Det returns the determinant of m using Gaussian elimination with partial
// pivoting. A zero pivot yields exactly 0.
func (m *Matrix) Det() (float64, error) {
	if err := m.square("determinant"); err != nil {
		return 0, err
	}
	n := m.rows
	a := append([]float64(nil), m.data...)
	det := 1.0
	for k := 0; k < n; k++ {
		p := k
		for i := k + 1; i < n; i++ {
			if math.Abs(a[i*n+k]) > math.Abs(a[p*n+k]) {
				p = i
			}
		}
		if a[p*n+k] == 0 {
			return 0, nil
		}
		if p != k {
			for j := 0; j < n; j++ {
				a[p*n+j], a[k*n+j] = a[k*n+j], a[p*n+j]
			}
			det = -det
		}
		pivot := a[k*n+k]
		for i := k + 1; i < n; i++ {
			f := a[i*n+k] / pivot
			if f != 0 {
				floats.AddScaled(a[i*n+k:(i+1)*n], -f, a[k*n+k:(k+1)*n])
			}
		}
	}
	for k := 0; k < n; k++ {
		det *= a[k*n+k]
	}
	return det, nil
}

// Complements returns the cofactor matrix of m. A 1x1 matrix yields a copy of itself.
func (m *Matrix) Complements() (*Matrix, error) {
	if err := m.square("complements"); err != nil {
		return nil, err
	}
	n := m.rows
	if n == 1 {
		return m.Clone(), nil
	}
	out := &Matrix{rows: n, cols: n, data: make([]float64, n*n)}
	minor := &Matrix{rows: n - 1, cols: n - 1, data: make([]float64, (n-1)*(n-1))}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.minorInto(minor, i, j)
			d, err := minor.Det()
			if err != nil {
				return nil, err
			}
			if (i+j)%2 != 0 {
				d = -d
			}
			out.data[i*n+j] = d
		}
	}
	return out, nil
}

// minorInto fills dst with m minus row r and column c.
func (m *Matrix) minorInto(dst *Matrix, r, c int) {
	k := 0
	for i := 0; i < m.rows; i++ {
		if i == r {
			continue
		}
		for j := 0; j < m.cols; j++ {
			if j == c {
				continue
			}
			dst.data[k] = m.data[i*m.cols+j]
			k++
		}
	}
}

// Inverse returns the inverse of m: the transposed cofactor matrix divided by
// the determinant.
func (m *Matrix) Inverse() (*Matrix, error) {
	d, err := m.Det()
	if err != nil {
		return nil, err
	}
	if d == 0 {
		return nil, ErrSingular
	}
	if m.rows == 1 {
		return &Matrix{rows: 1, cols: 1, data: []float64{1 / d}}, nil
	}
	c, err := m.Complements()
	if err != nil {
		return nil, err
	}
	out := c.Transpose()
	for i := range out.data {
		out.data[i] /= d
	}
	return out, nil
}
