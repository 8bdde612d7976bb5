package sse

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"rectseg/internal/models"
	"rectseg/pkg/prefixsum"
)

func createRandomImage(width, height int, seed int64) models.Image {
	rng := rand.New(rand.NewSource(seed))
	pix := make([]float32, models.Channels*width*height)
	for i := range pix {
		pix[i] = rng.Float32() * 255
	}
	return models.NewImage(width, height, pix)
}

// directSSE computes the two-region squared error of r by visiting pixels
func directSSE(img models.Image, r models.Rect, inner, outer models.Color) float64 {
	var sum float64
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			mean := outer
			if r.Contains(x, y) {
				mean = inner
			}
			for c := 0; c < models.Channels; c++ {
				d := img.At(x, y, c) - mean[c]
				sum += d * d
			}
		}
	}
	return sum
}

// directMeans averages the inside and outside of r by visiting pixels
func directMeans(img models.Image, r models.Rect) (inner, outer models.Color) {
	var nIn, nOut float64
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			in := r.Contains(x, y)
			if in {
				nIn++
			} else {
				nOut++
			}
			for c := 0; c < models.Channels; c++ {
				if in {
					inner[c] += img.At(x, y, c)
				} else {
					outer[c] += img.At(x, y, c)
				}
			}
		}
	}
	for c := 0; c < models.Channels; c++ {
		inner[c] /= nIn
		if nOut > 0 {
			outer[c] /= nOut
		}
	}
	return inner, outer
}

// TestEvaluateMatchesDirectSSE compares the constant-time score of every
// rectangle with a two-pass computation over the pixels
func TestEvaluateMatchesDirectSSE(t *testing.T) {
	shapes := []struct{ width, height int }{
		{1, 1}, {2, 3}, {5, 4}, {6, 6},
	}

	for i, s := range shapes {
		img := createRandomImage(s.width, s.height, int64(10+i))
		table := prefixsum.Build(img)
		tot := NewTotals(img, table)

		for h := 1; h <= s.height; h++ {
			for w := 1; w <= s.width; w++ {
				for y0 := 0; y0 <= s.height-h; y0++ {
					for x0 := 0; x0 <= s.width-w; x0++ {
						r := models.Rect{X0: x0, Y0: y0, X1: x0 + w - 1, Y1: y0 + h - 1}
						e := Evaluate(r, table, tot)

						inner, outer := directMeans(img, r)
						for c := 0; c < models.Channels; c++ {
							if !scalar.EqualWithinAbsOrRel(e.Inner[c], inner[c], 1e-9, 1e-9) {
								t.Fatalf("%v: inner[%d] = %v, expected %v", r, c, e.Inner[c], inner[c])
							}
							if !scalar.EqualWithinAbsOrRel(e.Outer[c], outer[c], 1e-9, 1e-9) {
								t.Fatalf("%v: outer[%d] = %v, expected %v", r, c, e.Outer[c], outer[c])
							}
						}

						want := directSSE(img, r, inner, outer)
						if !scalar.EqualWithinAbsOrRel(e.SSE, want, 1e-6, 1e-9) {
							t.Fatalf("%dx%d %v: SSE = %v, expected %v", s.width, s.height, r, e.SSE, want)
						}
					}
				}
			}
		}
	}
}

// TestEvaluateFullCover verifies that a rectangle covering the whole image
// leaves the outer color at zero and scores only the inner error
func TestEvaluateFullCover(t *testing.T) {
	img := createRandomImage(3, 2, 99)
	table := prefixsum.Build(img)
	tot := NewTotals(img, table)

	full := models.Rect{X0: 0, Y0: 0, X1: 2, Y1: 1}
	e := Evaluate(full, table, tot)

	if e.Outer != (models.Color{}) {
		t.Errorf("Expected zero outer color, got %v", e.Outer)
	}

	inner, _ := directMeans(img, full)
	want := directSSE(img, full, inner, models.Color{})
	if !scalar.EqualWithinAbsOrRel(e.SSE, want, 1e-6, 1e-9) {
		t.Errorf("Expected SSE %v, got %v", want, e.SSE)
	}
}

// TestEvaluateTwoFlatRegions checks an exact split scores exactly zero
func TestEvaluateTwoFlatRegions(t *testing.T) {
	// 2x2, top row 0, bottom row 10 in every channel
	pix := make([]float32, 12)
	for i := 6; i < 12; i++ {
		pix[i] = 10
	}
	img := models.NewImage(2, 2, pix)
	table := prefixsum.Build(img)
	tot := NewTotals(img, table)

	e := Evaluate(models.Rect{X0: 0, Y0: 0, X1: 1, Y1: 0}, table, tot)
	if e.SSE != 0 {
		t.Errorf("Expected SSE 0, got %v", e.SSE)
	}
	if e.Inner != (models.Color{0, 0, 0}) {
		t.Errorf("Expected inner 0, got %v", e.Inner)
	}
	if e.Outer != (models.Color{10, 10, 10}) {
		t.Errorf("Expected outer 10, got %v", e.Outer)
	}
}

// TestNewTotals checks the global aggregates
func TestNewTotals(t *testing.T) {
	img := createRandomImage(4, 3, 5)
	table := prefixsum.Build(img)
	tot := NewTotals(img, table)

	if tot.Count != 12 {
		t.Errorf("Expected count 12, got %d", tot.Count)
	}

	full := models.Rect{X0: 0, Y0: 0, X1: 3, Y1: 2}
	mean, _ := directMeans(img, full)
	for c := 0; c < models.Channels; c++ {
		if !scalar.EqualWithinAbsOrRel(tot.Avg[c], mean[c], 1e-9, 1e-9) {
			t.Errorf("Channel %d: expected mean %v, got %v", c, mean[c], tot.Avg[c])
		}
		if got := table.SumSq(c, full); got != tot.SumSq[c] {
			t.Errorf("Channel %d: expected sum of squares %v, got %v", c, got, tot.SumSq[c])
		}
	}
}
