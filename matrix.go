package attn

import (
	"github.com/gomlx/exceptions"
)

// Matrix is a row-major view over a float32 slice. It is a plain shape
// adapter: constructing, reshaping, or viewing a Matrix never copies or
// moves data, so a length-n vector and a 1×n matrix over the same slice
// are the same storage seen through different shapes. The two logical
// shapes must not be mutated concurrently.
type Matrix struct {
	Data []float32
	Rows int
	Cols int
}

// NewMatrix allocates a zeroed rows×cols matrix.
func NewMatrix(rows, cols int) Matrix {
	if rows <= 0 || cols <= 0 {
		exceptions.Panicf("attn.NewMatrix(%d, %d): dimensions must be positive", rows, cols)
	}
	return Matrix{
		Data: make([]float32, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// MatrixOf wraps an existing slice as a rows×cols matrix without copying.
// The slice length must match the shape exactly; a mismatch is a
// programming error and panics.
func MatrixOf(data []float32, rows, cols int) Matrix {
	if rows <= 0 || cols <= 0 {
		exceptions.Panicf("attn.MatrixOf(%d, %d): dimensions must be positive", rows, cols)
	}
	if len(data) != rows*cols {
		exceptions.Panicf("attn.MatrixOf(%d, %d): slice has %d elements, shape needs %d",
			rows, cols, len(data), rows*cols)
	}
	return Matrix{Data: data, Rows: rows, Cols: cols}
}

// At returns the element at row i, column j. Unchecked hot-path accessor;
// kernels guarantee their own bounds.
func (m Matrix) At(i, j int) float32 {
	return m.Data[i*m.Cols+j]
}

// Set stores v at row i, column j. Unchecked hot-path accessor.
func (m Matrix) Set(i, j int, v float32) {
	m.Data[i*m.Cols+j] = v
}

// Row returns the i-th row as a slice sharing the matrix storage.
func (m Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Reshape reinterprets the matrix with a new shape over the same backing
// slice. The element count must be preserved; changing it is a programming
// error and panics.
func (m Matrix) Reshape(rows, cols int) Matrix {
	if rows*cols != m.Rows*m.Cols {
		exceptions.Panicf("attn.Matrix.Reshape(%d, %d): cannot reshape %dx%d, element count differs",
			rows, cols, m.Rows, m.Cols)
	}
	return Matrix{Data: m.Data, Rows: rows, Cols: cols}
}

// Vector returns the matrix storage as a flat vector. Only single-row or
// single-column matrices have a meaningful vector view.
func (m Matrix) Vector() []float32 {
	if m.Rows != 1 && m.Cols != 1 {
		exceptions.Panicf("attn.Matrix.Vector: %dx%d matrix has no vector view", m.Rows, m.Cols)
	}
	return m.Data
}
