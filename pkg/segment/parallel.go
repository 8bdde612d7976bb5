package segment

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"rectseg/internal/models"
	"rectseg/pkg/prefixsum"
	"rectseg/pkg/sse"
)

// searchParallel scores each rectangle height in its own task and reduces the
// per-height winners in ascending height order with the same strict
// comparison as the sequential scan, so both modes return identical results.
func searchParallel(img models.Image, table *prefixsum.Table, tot sse.Totals, opts Options) candidate {
	local := make([]candidate, img.Height)

	var (
		mu   sync.Mutex
		done int
	)

	var g errgroup.Group
	g.SetLimit(opts.Workers)

	for h := 1; h <= img.Height; h++ {
		h := h
		g.Go(func() error {
			best := newCandidate()
			scanHeight(img, table, tot, h, &best)
			local[h-1] = best

			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, img.Height)
				mu.Unlock()
			}
			return nil
		})
	}

	// Tasks never fail; Wait only joins them.
	_ = g.Wait()

	best := newCandidate()
	for _, c := range local {
		if c.found && best.better(c.eval) {
			best.set(c.rect, c.eval)
		}
	}
	return best
}
