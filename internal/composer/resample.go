package composer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Resample produces a pixel buffer for one slot from a source image
// file. Missing files are the caller's concern; any failure here is
// structural and aborts the whole composition.
func Resample(path string, width, height int, fit FitMode, rotation Degrees) (image.Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageUnreadable, path, err)
	}
	return resampleImage(src, width, height, fit, rotation), nil
}

func resampleImage(src image.Image, width, height int, fit FitMode, rotation Degrees) image.Image {
	var out image.Image
	switch fit {
	case FitContain:
		out = containResample(src, width, height)
	default:
		out = coverResample(src, width, height)
	}

	// Rotation happens after fitting, about the buffer's own center.
	// The bounding box grows; newly exposed corners stay transparent.
	if angle := math.Mod(float64(rotation), 360); angle != 0 {
		out = imaging.Rotate(out, -angle, color.NRGBA{})
	}
	return out
}

// coverResample fills the target completely. Overflow on the long axis
// is cropped symmetrically, so there is never an empty margin.
func coverResample(src image.Image, width, height int) image.Image {
	b := src.Bounds()
	srcW, srcH := float64(b.Dx()), float64(b.Dy())

	scale := math.Max(float64(width)/srcW, float64(height)/srcH)
	scaledW := int(math.Ceil(srcW * scale))
	scaledH := int(math.Ceil(srcH * scale))
	resized := imaging.Resize(src, scaledW, scaledH, imaging.Lanczos)

	offsetX := (scaledW - width) / 2
	offsetY := (scaledH - height) / 2
	if offsetX < 0 {
		offsetX = 0
	}
	if offsetY < 0 {
		offsetY = 0
	}
	return imaging.Crop(resized, image.Rect(offsetX, offsetY, offsetX+width, offsetY+height))
}

// containResample keeps the full source visible. The scale is applied
// in both directions, small sources are scaled up. Remaining area is
// transparent padding around the centered content.
func containResample(src image.Image, width, height int) image.Image {
	b := src.Bounds()
	srcW, srcH := float64(b.Dx()), float64(b.Dy())

	scale := math.Min(float64(width)/srcW, float64(height)/srcH)
	fitW := int(math.Round(srcW * scale))
	fitH := int(math.Round(srcH * scale))
	if fitW > width {
		fitW = width
	}
	if fitH > height {
		fitH = height
	}
	if fitW < 1 {
		fitW = 1
	}
	if fitH < 1 {
		fitH = 1
	}
	fitted := imaging.Resize(src, fitW, fitH, imaging.Lanczos)

	canvas := imaging.New(width, height, color.NRGBA{})
	return imaging.PasteCenter(canvas, fitted)
}
