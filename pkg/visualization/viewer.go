package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"rectseg/internal/models"
)

// Viewer turns float pixel buffers back into displayable 8-bit images
type Viewer struct {
	// img holds the pixels to render
	img models.Image

	// scale is the value that maps to full intensity (255)
	scale float64
}

// NewViewer creates a viewer for img. scale is the intensity that should
// render as white; 1.0 suits buffers normalised to [0, 1].
func NewViewer(img models.Image, scale float64) *Viewer {
	if scale <= 0 {
		scale = 1.0
	}
	return &Viewer{img: img, scale: scale}
}

// Render converts the buffer to an NRGBA image, clamping out-of-range values
func (v *Viewer) Render() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, v.img.Width, v.img.Height))
	for y := 0; y < v.img.Height; y++ {
		for x := 0; x < v.img.Width; x++ {
			out.SetNRGBA(x, y, color.NRGBA{
				R: v.toByte(v.img.At(x, y, 0)),
				G: v.toByte(v.img.At(x, y, 1)),
				B: v.toByte(v.img.At(x, y, 2)),
				A: 255,
			})
		}
	}
	return out
}

// RenderOverlay renders the buffer and outlines the result rectangle
func (v *Viewer) RenderOverlay(res models.Result, outline color.Color) (*image.NRGBA, error) {
	r := res.Rect()
	if !r.Within(v.img.Width, v.img.Height) {
		return nil, fmt.Errorf("rectangle %v outside %dx%d image", r, v.img.Width, v.img.Height)
	}

	out := v.Render()
	for x := r.X0; x <= r.X1; x++ {
		out.Set(x, r.Y0, outline)
		out.Set(x, r.Y1, outline)
	}
	for y := r.Y0; y <= r.Y1; y++ {
		out.Set(r.X0, y, outline)
		out.Set(r.X1, y, outline)
	}
	return out, nil
}

func (v *Viewer) toByte(val float64) uint8 {
	if math.IsNaN(val) {
		return 0
	}
	s := math.Round(val / v.scale * 255)
	return uint8(math.Max(0, math.Min(255, s)))
}

// SaveImage writes img as PNG, or as JPEG when the filename ends in .jpg/.jpeg
func SaveImage(img image.Image, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
