// Package imageio decodes image files into the float pixel layout used by the
// segmentation core.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"rectseg/internal/models"
)

// Load decodes the file at path. Each 8-bit channel sample is multiplied by
// scale, so scale 1/255 yields values in [0, 1] and scale 1 keeps 0..255.
// Alpha is discarded.
func Load(path string, scale float64, log logrus.FieldLogger) (models.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"path":   path,
			"format": format,
			"width":  img.Bounds().Dx(),
			"height": img.Bounds().Dy(),
		}).Debug("decoded image")
	}

	return FromImage(img, scale), nil
}

// FromImage converts any image.Image to the channel-first float layout
func FromImage(img image.Image, scale float64) models.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]float32, models.Channels*w*h)
	out := models.NewImage(w, h, pix)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			i := out.Index(x, y, 0)
			pix[i] = sample(c.R, scale)
			pix[i+1] = sample(c.G, scale)
			pix[i+2] = sample(c.B, scale)
		}
	}
	return out
}

// sample maps a 16-bit channel to 8-bit units before scaling
func sample(v uint16, scale float64) float32 {
	return float32(float64(v) / 257 * scale)
}
