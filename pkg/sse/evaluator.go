// Package sse scores a candidate rectangle by the squared error of the
// two-color approximation it induces, in constant time per candidate.
package sse

import (
	"rectseg/internal/models"
	"rectseg/pkg/prefixsum"
)

// Totals holds the whole-image aggregates every evaluation needs
type Totals struct {
	// Count is the number of pixels in the image
	Count int

	// Avg is the mean of each channel over the whole image
	Avg models.Color

	// SumSq is the sum of squared values of each channel over the whole image
	SumSq models.Color
}

// NewTotals accumulates the channel means directly from the pixels and reads
// the sums of squares from the bottom-right corner of the table
func NewTotals(img models.Image, table *prefixsum.Table) Totals {
	tot := Totals{Count: img.Area()}
	n := float64(tot.Count)
	w, h := table.Dims()

	for c := 0; c < models.Channels; c++ {
		for x := 0; x < img.Width; x++ {
			for y := 0; y < img.Height; y++ {
				tot.Avg[c] += img.At(x, y, c) / n
			}
		}
		tot.SumSq[c] = table.SumSqMatrix(c).At(w-1, h-1)
	}

	return tot
}

// Evaluation is the score of one candidate rectangle
type Evaluation struct {
	Inner models.Color
	Outer models.Color
	SSE   float64
}

// Evaluate returns the inner and outer means of r and the summed squared
// error of replacing every pixel by the mean of its region.
//
// The per-region error uses the expansion S - n*m^2 rather than a second pass
// over the pixels. It loses precision when the mean is large relative to the
// spread, and tie-breaking between candidates depends on it.
func Evaluate(r models.Rect, table *prefixsum.Table, tot Totals) Evaluation {
	var e Evaluation

	inPoints := r.Area()
	outPoints := tot.Count - inPoints

	var innerSq, outerSq models.Color
	for c := 0; c < models.Channels; c++ {
		e.Inner[c] = table.Sum(c, r) / float64(inPoints)
		innerSq[c] = table.SumSq(c, r)
		outerSq[c] = tot.SumSq[c] - innerSq[c]
	}

	// Nothing lies outside a rectangle covering the whole image; Outer stays zero.
	if outPoints > 0 {
		for c := 0; c < models.Channels; c++ {
			in := e.Inner[c] * float64(inPoints)
			full := tot.Avg[c] * float64(tot.Count)
			e.Outer[c] = (full - in) / float64(outPoints)
		}
	}

	e.SSE = regionError(e.Inner, innerSq, inPoints) + regionError(e.Outer, outerSq, outPoints)
	return e
}

// regionError is sum over channels of S - n*m^2 for a region of n pixels
func regionError(mean, sumSq models.Color, n int) float64 {
	if n == 0 {
		return 0
	}
	fn := float64(n)
	e0 := sumSq[0] - fn*mean[0]*mean[0]
	e1 := sumSq[1] - fn*mean[1]*mean[1]
	e2 := sumSq[2] - fn*mean[2]*mean[2]
	return e0 + e1 + e2
}
