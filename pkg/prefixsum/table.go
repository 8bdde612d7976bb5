// Package prefixsum builds summed-area tables over an image so that the sum
// and sum of squares of any rectangle can be read in constant time.
package prefixsum

import (
	"gonum.org/v1/gonum/mat"

	"rectseg/internal/models"
)

// Table holds, for every channel, the cumulative sum and cumulative sum of
// squares of all pixels at or above-left of each coordinate. Matrices are
// indexed (x, y).
type Table struct {
	width  int
	height int
	sum    [models.Channels]*mat.Dense
	sumSq  [models.Channels]*mat.Dense
}

// Build computes both tables in a single pass per channel. Values are
// accumulated in float64 whatever the input precision.
//
// The image must have at least one pixel; callers validate dimensions first.
func Build(img models.Image) *Table {
	t := &Table{width: img.Width, height: img.Height}

	for c := 0; c < models.Channels; c++ {
		sum := mat.NewDense(img.Width, img.Height, nil)
		sumSq := mat.NewDense(img.Width, img.Height, nil)

		for x := 0; x < img.Width; x++ {
			for y := 0; y < img.Height; y++ {
				v := img.At(x, y, c)
				sum.Set(x, y, accumulate(sum, x, y, v))
				sumSq.Set(x, y, accumulate(sumSq, x, y, v*v))
			}
		}

		t.sum[c] = sum
		t.sumSq[c] = sumSq
	}

	return t
}

// accumulate applies the summed-area recurrence at (x, y), treating cells
// left of column 0 or above row 0 as zero
func accumulate(m *mat.Dense, x, y int, v float64) float64 {
	var left, up, leftUp float64
	if x > 0 {
		left = m.At(x-1, y)
	}
	if y > 0 {
		up = m.At(x, y-1)
	}
	if x > 0 && y > 0 {
		leftUp = m.At(x-1, y-1)
	}
	return left + up - leftUp + v
}

// Query returns the aggregate of m over the inclusive box r using the four
// corner lookups. r must be well formed and inside the table.
func Query(m mat.Matrix, r models.Rect) float64 {
	point := m.At(r.X1, r.Y1)

	var left, up, leftUp float64
	if r.X0 > 0 {
		left = m.At(r.X0-1, r.Y1)
	}
	if r.Y0 > 0 {
		up = m.At(r.X1, r.Y0-1)
	}
	if r.X0 > 0 && r.Y0 > 0 {
		leftUp = m.At(r.X0-1, r.Y0-1)
	}

	return leftUp + point - up - left
}

// Sum returns the sum of channel c over r
func (t *Table) Sum(c int, r models.Rect) float64 {
	return Query(t.sum[c], r)
}

// SumSq returns the sum of squared channel c values over r
func (t *Table) SumSq(c int, r models.Rect) float64 {
	return Query(t.sumSq[c], r)
}

// SumSqMatrix exposes the cumulative sum-of-squares table of channel c.
// Its bottom-right cell is the whole-image sum of squares.
func (t *Table) SumSqMatrix(c int) mat.Matrix { return t.sumSq[c] }

// Dims returns the image dimensions the table was built from
func (t *Table) Dims() (width, height int) {
	return t.width, t.height
}
