// Package imageproc finishes generated creatives for a target aspect ratio:
// decode, content-aware crop, resize, encode. The compliance core consumes
// its output; it never inspects policy itself.
package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Processor decodes, fits and encodes creative images.
type Processor struct {
	resampler imaging.ResampleFilter
	baseSize  int // longest edge of a fitted image
}

// New returns a processor with Lanczos resampling and a 1024px base edge.
func New() *Processor {
	return &Processor{resampler: imaging.Lanczos, baseSize: 1024}
}

// Decode decodes an image from a byte slice, detecting the format
// (PNG, JPEG or WebP).
func (p *Processor) Decode(imgBytes []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, format, nil
}

// Encode encodes an image to a byte slice in the specified format.
func (p *Processor) Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpg", "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// RatioDimensions translates an aspect-ratio label like "9:16" into pixel
// dimensions whose longest edge is the processor's base size.
func (p *Processor) RatioDimensions(ratio string) (int, int, error) {
	parts := strings.Split(ratio, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid aspect ratio %q, want W:H", ratio)
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid aspect ratio %q, want positive W:H", ratio)
	}

	switch {
	case w > h:
		return p.baseSize, p.baseSize * h / w, nil
	case h > w:
		return p.baseSize * w / h, p.baseSize, nil
	default:
		return p.baseSize, p.baseSize, nil
	}
}

// FitToRatio fits an image to the given aspect-ratio label. A matching
// aspect is plainly resized; anything else goes through content-aware
// cropping so the subject survives the ratio change.
func (p *Processor) FitToRatio(img image.Image, ratio string) (image.Image, error) {
	targetW, targetH, err := p.RatioDimensions(ratio)
	if err != nil {
		return nil, err
	}

	imageW := img.Bounds().Dx()
	imageH := img.Bounds().Dy()
	if imageW == 0 || imageH == 0 {
		return nil, fmt.Errorf("empty image cannot be fitted")
	}
	if imageW == targetW && imageH == targetH {
		return img, nil
	}
	if imageW*targetH == imageH*targetW {
		// Same aspect, plain resize is enough.
		return imaging.Resize(img, targetW, targetH, p.resampler), nil
	}
	return p.cropToFit(img, targetW, targetH)
}

// cropToFit crops the image to the target dimensions using smart cropping.
func (p *Processor) cropToFit(img image.Image, targetW, targetH int) (image.Image, error) {
	r := &resizer{resampler: p.resampler}
	analyzer := smartcrop.NewAnalyzer(r)

	topCrop, err := analyzer.FindBestCrop(img, targetW, targetH)
	if err != nil {
		return nil, fmt.Errorf("finding best crop: %w", err)
	}

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	sub, ok := img.(subImager)
	if !ok {
		sub = imaging.Clone(img)
	}
	cropped := sub.SubImage(topCrop)
	return imaging.Resize(cropped, targetW, targetH, p.resampler), nil
}

type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}
