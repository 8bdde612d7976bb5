// Package segment finds the rectangle that best splits an image into a flat
// inner region and a flat outer background.
//
// Every axis-aligned rectangle is scored. Prefix tables make each score O(1),
// so an n x n image costs O(n^4) overall.
package segment

import (
	"math"

	"rectseg/internal/models"
	"rectseg/pkg/prefixsum"
	"rectseg/pkg/sse"
)

// Result is re-exported so callers outside the module can name it
type Result = models.Result

// Options tunes a search. The zero value runs sequentially without checks on
// pixel values.
type Options struct {
	// Workers is the number of goroutines scoring candidates. Values below 2
	// run the plain sequential scan.
	Workers int

	// RejectNonFinite makes Search fail with ErrNonFinite instead of letting
	// NaN or Inf propagate through the arithmetic
	RejectNonFinite bool

	// Progress, when set, is called after each rectangle height is finished.
	// Calls never overlap.
	Progress func(done, total int)
}

// candidate is the running best of a scan
type candidate struct {
	rect  models.Rect
	eval  sse.Evaluation
	found bool
}

func newCandidate() candidate {
	return candidate{eval: sse.Evaluation{SSE: math.Inf(1)}}
}

// better reports whether e beats the current best. Equal scores never
// replace, which keeps the earliest candidate in scan order. NaN never wins.
func (b *candidate) better(e sse.Evaluation) bool {
	return e.SSE < b.eval.SSE
}

func (b *candidate) set(r models.Rect, e sse.Evaluation) {
	b.rect = r
	b.eval = e
	b.found = true
}

// Segment is the raw-buffer entry point: pixels[c + 3*x + 3*width*y]
func Segment(height, width int, pixels []float32) (Result, error) {
	return Search(models.NewImage(width, height, pixels), Options{})
}

// Search returns the minimum-error rectangle of img. Among equal minima the
// first one in ascending (height, width, y0, x0) order is kept.
func Search(img models.Image, opts Options) (Result, error) {
	if err := validate(img, opts.RejectNonFinite); err != nil {
		return Result{}, err
	}

	table := prefixsum.Build(img)
	tot := sse.NewTotals(img, table)

	var best candidate
	if opts.Workers > 1 {
		best = searchParallel(img, table, tot, opts)
	} else {
		best = searchSequential(img, table, tot, opts.Progress)
	}

	// Only reachable when every score is NaN or +Inf.
	if !best.found {
		first := models.Rect{}
		best.set(first, sse.Evaluate(first, table, tot))
	}

	return toResult(best), nil
}

func searchSequential(img models.Image, table *prefixsum.Table, tot sse.Totals, progress func(int, int)) candidate {
	best := newCandidate()
	for h := 1; h <= img.Height; h++ {
		scanHeight(img, table, tot, h, &best)
		if progress != nil {
			progress(h, img.Height)
		}
	}
	return best
}

// scanHeight scores every rectangle of height h, widths ascending, then
// top-left corners in row-major order
func scanHeight(img models.Image, table *prefixsum.Table, tot sse.Totals, h int, best *candidate) {
	for w := 1; w <= img.Width; w++ {
		for y0 := 0; y0 <= img.Height-h; y0++ {
			for x0 := 0; x0 <= img.Width-w; x0++ {
				r := models.Rect{X0: x0, Y0: y0, X1: x0 + w - 1, Y1: y0 + h - 1}
				e := sse.Evaluate(r, table, tot)
				if best.better(e) {
					best.set(r, e)
				}
			}
		}
	}
}

func toResult(best candidate) Result {
	return Result{
		X0:    best.rect.X0,
		Y0:    best.rect.Y0,
		X1:    best.rect.X1 + 1,
		Y1:    best.rect.Y1 + 1,
		Inner: best.eval.Inner.Float32(),
		Outer: best.eval.Outer.Float32(),
		SSE:   best.eval.SSE,
	}
}
