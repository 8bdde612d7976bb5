package segment

import (
	"errors"
	"fmt"
	"math"

	"rectseg/internal/models"
)

var (
	// ErrInvalidDimensions is returned when the width or height is below one
	ErrInvalidDimensions = errors.New("image dimensions must be at least 1x1")

	// ErrShortBuffer is returned when the pixel buffer does not hold exactly
	// 3*width*height values
	ErrShortBuffer = errors.New("pixel buffer length does not match dimensions")

	// ErrNonFinite is returned for NaN or infinite pixel values when
	// Options.RejectNonFinite is set
	ErrNonFinite = errors.New("pixel buffer contains non-finite values")
)

// validate checks the preconditions of Search before any table is built
func validate(img models.Image, rejectNonFinite bool) error {
	if img.Width < 1 || img.Height < 1 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, img.Width, img.Height)
	}
	if len(img.Pix) != img.Len() {
		return fmt.Errorf("%w: have %d values, need %d for %dx%d",
			ErrShortBuffer, len(img.Pix), img.Len(), img.Width, img.Height)
	}
	if rejectNonFinite {
		for i, v := range img.Pix {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				x := (i / models.Channels) % img.Width
				y := i / (models.Channels * img.Width)
				return fmt.Errorf("%w: channel %d at (%d,%d) is %v",
					ErrNonFinite, i%models.Channels, x, y, v)
			}
		}
	}
	return nil
}
