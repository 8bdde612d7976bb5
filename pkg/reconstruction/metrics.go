package reconstruction

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"rectseg/internal/models"
)

// ValidationMetrics describes how well the two-color approximation matches
// the original image
type ValidationMetrics struct {
	// SSE is the squared error summed over every pixel and channel,
	// recomputed directly from the pixels
	SSE float64 `yaml:"sse"`

	// MSE is SSE divided by the number of samples (pixels * channels)
	MSE float64 `yaml:"mse"`

	// RMSE is the square root of MSE, in input intensity units
	RMSE float64 `yaml:"rmse"`

	// PSNR is the peak signal-to-noise ratio in dB against the given peak.
	// It is +Inf for an exact reconstruction.
	PSNR float64 `yaml:"psnr"`

	// ExplainedVariance is 1 - SSE/total variation. One means the image is
	// exactly two flat regions, zero means the split explains nothing beyond
	// the global mean. Zero for a constant image.
	ExplainedVariance float64 `yaml:"explainedVariance"`
}

// Approximate builds the image the result describes: Inner inside the
// rectangle and Outer everywhere else
func Approximate(res models.Result, width, height int) models.Image {
	out := models.NewImage(width, height, make([]float32, models.Channels*width*height))
	r := res.Rect()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fill := res.Outer
			if r.Contains(x, y) {
				fill = res.Inner
			}
			copy(out.Pix[out.Index(x, y, 0):], fill[:])
		}
	}
	return out
}

// Residual recomputes the squared error of res against img by visiting every
// pixel. It is the O(area) reference the prefix-table scores are checked
// against.
func Residual(img models.Image, res models.Result) float64 {
	r := res.Rect()
	var sum float64
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			mean := res.Outer
			if r.Contains(x, y) {
				mean = res.Inner
			}
			for c := 0; c < models.Channels; c++ {
				d := img.At(x, y, c) - float64(mean[c])
				sum += d * d
			}
		}
	}
	return sum
}

// ComputeMetrics compares original and approx, which must share dimensions.
// peak is the maximum representable intensity used for PSNR.
func ComputeMetrics(original, approx models.Image, peak float64) ValidationMetrics {
	var m ValidationMetrics

	var totalVariation float64
	channel := make([]float64, original.Area())
	fitted := make([]float64, original.Area())
	diff := make([]float64, original.Area())

	for c := 0; c < models.Channels; c++ {
		i := 0
		for y := 0; y < original.Height; y++ {
			for x := 0; x < original.Width; x++ {
				channel[i] = original.At(x, y, c)
				fitted[i] = approx.At(x, y, c)
				i++
			}
		}
		floats.SubTo(diff, channel, fitted)
		m.SSE += floats.Dot(diff, diff)
		if len(channel) > 1 {
			// stat.Variance is the unbiased estimate; undo the n-1 divisor.
			totalVariation += stat.Variance(channel, nil) * float64(len(channel)-1)
		}
	}

	m.MSE = m.SSE / float64(original.Len())
	m.RMSE = math.Sqrt(m.MSE)
	if m.MSE == 0 {
		m.PSNR = math.Inf(1)
	} else {
		m.PSNR = 10 * math.Log10(peak*peak/m.MSE)
	}
	if totalVariation > 0 {
		m.ExplainedVariance = 1 - m.SSE/totalVariation
	}

	return m
}

// ChannelMeans returns the mean of each channel over the whole image
func ChannelMeans(img models.Image) models.Color {
	var means models.Color
	channel := make([]float64, 0, img.Area())
	for c := 0; c < models.Channels; c++ {
		channel = channel[:0]
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				channel = append(channel, img.At(x, y, c))
			}
		}
		means[c] = stat.Mean(channel, nil)
	}
	return means
}
