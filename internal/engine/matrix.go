package engine

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// Mapper maps a position to a new position.
type Mapper interface {
	Map(p Position) Position
}

// MapperFunc adapts an ordinary function to a Mapper.
type MapperFunc func(Position) Position

// Map calls f(p).
func (f MapperFunc) Map(p Position) Position { return f(p) }

// Transform is a 2D affine transformation stored as a 3×3 homogeneous matrix.
// Points are row vectors (x, y, 1) multiplied on the left:
//
//	| a  b  0 |
//	| c  d  0 |
//	| e  f  1 |
//
// so translation lives in the last row.
type Transform struct {
	m *mat.Dense
}

func newTransform(data []float64) *Transform {
	return &Transform{m: mat.NewDense(3, 3, data)}
}

// Identity returns the identity transform.
func Identity() *Transform {
	return newTransform([]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// Translation returns a transform that shifts points by (dx, dy).
func Translation(dx, dy float64) *Transform {
	return newTransform([]float64{
		1, 0, 0,
		0, 1, 0,
		dx, dy, 1,
	})
}

// Scaling returns a transform that scales about the origin.
func Scaling(sx, sy float64) *Transform {
	return newTransform([]float64{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	})
}

// Rotation returns a counter-clockwise rotation about the origin (angle in radians).
func Rotation(radians float64) *Transform {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return newTransform([]float64{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	})
}

// Combine multiplies the receiver by other (receiver on the left) and returns
// the receiver. The result applies the receiver's old transform first, then other.
func (t *Transform) Combine(other *Transform) *Transform {
	var product mat.Dense
	product.Mul(t.m, other.m)
	t.m = &product
	return t
}

// Combine folds the transforms left to right starting from the identity.
// The result applies transforms[0] first and transforms[n-1] last.
func Combine(transforms ...*Transform) *Transform {
	result := Identity()
	for _, t := range transforms {
		result.Combine(t)
	}
	return result
}

// About conjugates t so that it acts around pivot instead of the origin.
func About(pivot Position, t *Transform) *Transform {
	return Combine(
		Translation(-pivot.X(), -pivot.Y()),
		t,
		Translation(pivot.X(), pivot.Y()),
	)
}

// Map applies the transform to p and returns the new position.
func (t *Transform) Map(p Position) Position {
	row := mat.NewDense(1, 3, []float64{p.X(), p.Y(), 1})
	var out mat.Dense
	out.Mul(row, t.m)
	return NewPosition(out.At(0, 0), out.At(0, 1))
}

// IsIdentity checks if this is the identity transform (within epsilon).
func (t *Transform) IsIdentity() bool {
	const eps = 1e-10
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if !scalar.EqualWithinAbs(t.m.At(i, j), want, eps) {
				return false
			}
		}
	}
	return true
}

// ToSlice returns the matrix in row-major order, for the wire.
func (t *Transform) ToSlice() []float64 {
	return mat.DenseCopyOf(t.m).RawMatrix().Data
}
