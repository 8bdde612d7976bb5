package models

import "fmt"

// Channels is the number of color components stored per pixel
const Channels = 3

// Image is a read-only grid of float pixels laid out channel-first within a
// pixel and row-major within the image: Pix[c + 3*x + 3*Width*y]
type Image struct {
	// Width is the number of pixels along x
	Width int

	// Height is the number of pixels along y
	Height int

	// Pix holds Width*Height*Channels intensities
	Pix []float32
}

// NewImage wraps an existing pixel buffer without copying it
func NewImage(width, height int, pix []float32) Image {
	return Image{Width: width, Height: height, Pix: pix}
}

// Index returns the buffer offset of channel c at (x, y)
func (img Image) Index(x, y, c int) int {
	return c + Channels*x + Channels*img.Width*y
}

// At returns channel c at (x, y) widened to float64
func (img Image) At(x, y, c int) float64 {
	return float64(img.Pix[img.Index(x, y, c)])
}

// Len returns the buffer length the dimensions require
func (img Image) Len() int {
	return Channels * img.Width * img.Height
}

// Area returns the number of pixels
func (img Image) Area() int {
	return img.Width * img.Height
}

// Rect is an axis-aligned box with inclusive bounds on both ends
type Rect struct {
	X0, Y0 int
	X1, Y1 int
}

// Area returns the number of pixels covered by the box
func (r Rect) Area() int {
	return (r.X1 - r.X0 + 1) * (r.Y1 - r.Y0 + 1)
}

// Contains reports whether (x, y) lies inside the box
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Within reports whether the box is well formed and fits a width x height grid
func (r Rect) Within(width, height int) bool {
	return r.X0 >= 0 && r.Y0 >= 0 && r.X0 <= r.X1 && r.Y0 <= r.Y1 && r.X1 < width && r.Y1 < height
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d]-[%d,%d]", r.X0, r.Y0, r.X1, r.Y1)
}

// Color is one average value per channel
type Color [Channels]float64

// Float32 narrows the color to the precision reported in a Result
func (c Color) Float32() [Channels]float32 {
	var out [Channels]float32
	for i, v := range c {
		out[i] = float32(v)
	}
	return out
}

// Result is the best two-region split of an image
type Result struct {
	// X0, Y0 are the inclusive top-left corner of the inner rectangle
	X0 int `yaml:"x0"`
	Y0 int `yaml:"y0"`

	// X1, Y1 are one past the bottom-right corner
	X1 int `yaml:"x1"`
	Y1 int `yaml:"y1"`

	// Inner is the average color inside the rectangle
	Inner [Channels]float32 `yaml:"inner,flow"`

	// Outer is the average color outside the rectangle, zero when the
	// rectangle covers the whole image
	Outer [Channels]float32 `yaml:"outer,flow"`

	// SSE is the total squared error of the two-color approximation
	SSE float64 `yaml:"sse"`
}

// Rect converts the half-open result bounds back to an inclusive box
func (r Result) Rect() Rect {
	return Rect{X0: r.X0, Y0: r.Y0, X1: r.X1 - 1, Y1: r.Y1 - 1}
}
