package reconstruction

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/sirupsen/logrus"

	"rectseg/internal/models"
	"rectseg/pkg/imageio"
	"rectseg/pkg/segment"
	"rectseg/pkg/visualization"
)

// ErrTooLarge is returned when the image exceeds Params.MaxPixels
var ErrTooLarge = errors.New("image exceeds the configured pixel limit")

// Params holds the pipeline configuration
type Params struct {
	// InputPath is the image file to segment. Ignored when an image has been
	// supplied with SetImage.
	InputPath string

	// Scale multiplies each decoded 8-bit sample; 1/255 yields [0, 1]
	Scale float64

	// MaxPixels rejects images with more pixels. Zero disables the check.
	MaxPixels int

	// Workers is passed through to segment.Options
	Workers int

	// RejectNonFinite is passed through to segment.Options
	RejectNonFinite bool

	// RenderPath, when set, receives the two-color reconstruction
	RenderPath string

	// OverlayPath, when set, receives the input with the rectangle outlined
	OverlayPath string

	// Logger receives progress and diagnostics. Nil disables logging.
	Logger logrus.FieldLogger
}

// Reconstructor runs the full pipeline around the segmentation core:
// 1. Loading the input image into the float pixel layout
// 2. Searching for the minimum-error rectangle
// 3. Rebuilding the two-color approximation
// 4. Computing validation metrics against the original
// 5. Saving the requested images
type Reconstructor struct {
	params *Params

	// image is the pixel buffer being segmented
	image  models.Image
	loaded bool

	result  models.Result
	approx  models.Image
	metrics ValidationMetrics
	elapsed time.Duration
}

// NewReconstructor creates a new reconstructor instance with the provided
// parameters. Defaults are applied to a private copy; params is not modified.
func NewReconstructor(params *Params) *Reconstructor {
	p := *params
	if p.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		p.Logger = l
	}
	if p.Scale <= 0 {
		p.Scale = 1.0 / 255.0
	}
	return &Reconstructor{params: &p}
}

// SetImage supplies pixels directly instead of loading InputPath
func (r *Reconstructor) SetImage(img models.Image) {
	r.image = img
	r.loaded = true
}

// Process runs the complete pipeline
func (r *Reconstructor) Process() error {
	log := r.params.Logger

	if !r.loaded {
		img, err := imageio.Load(r.params.InputPath, r.params.Scale, log)
		if err != nil {
			return fmt.Errorf("failed to load image: %w", err)
		}
		r.SetImage(img)
	}

	if r.params.MaxPixels > 0 && r.image.Area() > r.params.MaxPixels {
		return fmt.Errorf("%w: %dx%d has %d pixels, limit is %d",
			ErrTooLarge, r.image.Width, r.image.Height, r.image.Area(), r.params.MaxPixels)
	}

	log.WithFields(logrus.Fields{
		"width":   r.image.Width,
		"height":  r.image.Height,
		"workers": r.params.Workers,
		"mean":    ChannelMeans(r.image),
	}).Info("searching for best rectangle")

	start := time.Now()
	res, err := segment.Search(r.image, segment.Options{
		Workers:         r.params.Workers,
		RejectNonFinite: r.params.RejectNonFinite,
		Progress:        r.reportProgress,
	})
	if err != nil {
		return fmt.Errorf("segmentation failed: %w", err)
	}
	r.elapsed = time.Since(start)
	r.result = res

	r.approx = Approximate(res, r.image.Width, r.image.Height)
	r.metrics = ComputeMetrics(r.image, r.approx, 255*r.params.Scale)

	log.WithFields(logrus.Fields{
		"rect":     res.Rect(),
		"sse":      res.SSE,
		"residual": r.metrics.SSE,
		"elapsed":  r.elapsed,
	}).Debug("search finished")

	return r.saveOutputs()
}

// reportProgress logs roughly every tenth of the rectangle heights
func (r *Reconstructor) reportProgress(done, total int) {
	step := total / 10
	if step < 1 {
		step = 1
	}
	if done%step == 0 || done == total {
		r.params.Logger.Debugf("scanned %d/%d rectangle heights (%.1f%%)",
			done, total, float64(done)/float64(total)*100)
	}
}

func (r *Reconstructor) saveOutputs() error {
	peak := 255 * r.params.Scale

	if r.params.RenderPath != "" {
		img := visualization.NewViewer(r.approx, peak).Render()
		if err := visualization.SaveImage(img, r.params.RenderPath); err != nil {
			return fmt.Errorf("failed to save reconstruction: %w", err)
		}
		r.params.Logger.WithField("path", r.params.RenderPath).Info("saved reconstruction")
	}

	if r.params.OverlayPath != "" {
		img, err := visualization.NewViewer(r.image, peak).RenderOverlay(r.result, color.NRGBA{R: 255, A: 255})
		if err != nil {
			return fmt.Errorf("failed to render overlay: %w", err)
		}
		if err := visualization.SaveImage(img, r.params.OverlayPath); err != nil {
			return fmt.Errorf("failed to save overlay: %w", err)
		}
		r.params.Logger.WithField("path", r.params.OverlayPath).Info("saved overlay")
	}

	return nil
}

// GetResult returns the segmentation result of the last Process call
func (r *Reconstructor) GetResult() models.Result { return r.result }

// GetMetrics returns the validation metrics of the last Process call
func (r *Reconstructor) GetMetrics() ValidationMetrics { return r.metrics }

// GetApproximation returns the two-color image rebuilt from the result
func (r *Reconstructor) GetApproximation() models.Image { return r.approx }

// Elapsed returns the time spent in the search itself
func (r *Reconstructor) Elapsed() time.Duration { return r.elapsed }
