package composer

import (
	"image"
	"image/color"
	"testing"
)

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func closeTo(a, b uint8) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= 2
}

func sameColor(got, want color.NRGBA) bool {
	return closeTo(got.R, want.R) && closeTo(got.G, want.G) && closeTo(got.B, want.B) && closeTo(got.A, want.A)
}

// opaqueBounds measures the bounding box of pixels with any alpha.
func opaqueBounds(img image.Image) (w, h int) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if nrgbaAt(img, x, y).A > 0 {
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < minX {
		return 0, 0
	}
	return maxX - minX + 1, maxY - minY + 1
}

func TestResolveSlotRect(t *testing.T) {
	x, y, w, h := resolveSlotRect(SlotDefinition{X: 33.333, Y: 66.666, Width: 50, Height: 25}, 1000, 1000)
	if x != 333 || y != 667 || w != 500 || h != 250 {
		t.Fatalf("resolveSlotRect: got (%d,%d,%d,%d), want (333,667,500,250)", x, y, w, h)
	}

	// Out-of-range percentages pass through unclamped.
	x, y, w, h = resolveSlotRect(SlotDefinition{X: -10, Y: 150, Width: 120, Height: 0.04}, 1000, 500)
	if x != -100 || y != 750 || w != 1200 || h != 0 {
		t.Fatalf("resolveSlotRect unclamped: got (%d,%d,%d,%d), want (-100,750,1200,0)", x, y, w, h)
	}
}

func TestResolveSlotRectRoundsPerAxis(t *testing.T) {
	_, _, w1, _ := resolveSlotRect(SlotDefinition{Width: 33.3, Height: 33.3}, 999, 999)
	_, _, w2, _ := resolveSlotRect(SlotDefinition{X: 33.3, Width: 33.4}, 999, 999)
	if w1 != 333 || w2 != 334 {
		t.Fatalf("resolveSlotRect rounding: got w1=%d w2=%d", w1, w2)
	}
}

func TestCoverFillsTarget(t *testing.T) {
	dir := t.TempDir()
	red := color.NRGBA{R: 255, A: 255}
	path := writeSolidImage(t, dir, "wide.png", 200, 100, red)

	out, err := Resample(path, 300, 300, FitCover, 0)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("cover output: got %dx%d, want 300x300", b.Dx(), b.Dy())
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if px := nrgbaAt(out, x, y); px.A != 255 {
				t.Fatalf("cover output has transparent pixel at (%d,%d): %+v", x, y, px)
			}
		}
	}
	if px := nrgbaAt(out, 150, 150); !sameColor(px, red) {
		t.Fatalf("cover output center: got %+v, want red", px)
	}
}

func TestContainPreservesFullSource(t *testing.T) {
	dir := t.TempDir()
	green := color.NRGBA{G: 255, A: 255}
	path := writeSolidImage(t, dir, "wide.png", 200, 100, green)

	out, err := Resample(path, 300, 300, FitContain, 0)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("contain output: got %dx%d, want 300x300", b.Dx(), b.Dy())
	}

	w, h := opaqueBounds(out)
	if w != 300 || h < 149 || h > 151 {
		t.Fatalf("contain content box: got %dx%d, want 300x150", w, h)
	}

	// Padding rows above and below must be fully transparent.
	if px := nrgbaAt(out, 150, 10); px.A != 0 {
		t.Fatalf("contain padding not transparent: %+v", px)
	}
	if px := nrgbaAt(out, 150, 290); px.A != 0 {
		t.Fatalf("contain padding not transparent: %+v", px)
	}
}

func TestContainUpscalesSmallSource(t *testing.T) {
	dir := t.TempDir()
	path := writeSolidImage(t, dir, "tiny.png", 50, 25, color.NRGBA{B: 255, A: 255})

	out, err := Resample(path, 200, 200, FitContain, 0)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	w, h := opaqueBounds(out)
	if w != 200 || h < 99 || h > 101 {
		t.Fatalf("contain upscale content box: got %dx%d, want 200x100", w, h)
	}
}

func TestRotationGrowsBoundsAndStaysTransparent(t *testing.T) {
	dir := t.TempDir()
	path := writeSolidImage(t, dir, "square.png", 120, 120, color.NRGBA{R: 255, A: 255})

	out, err := Resample(path, 100, 100, FitCover, 45)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	b := out.Bounds()
	if b.Dx() <= 100 || b.Dy() <= 100 {
		t.Fatalf("rotated bounds did not grow: %dx%d", b.Dx(), b.Dy())
	}
	if px := nrgbaAt(out, b.Min.X, b.Min.Y); px.A != 0 {
		t.Fatalf("rotated corner not transparent: %+v", px)
	}
	cx, cy := b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2
	if px := nrgbaAt(out, cx, cy); px.A != 255 {
		t.Fatalf("rotated center not opaque: %+v", px)
	}
}

func TestRotationMultipleOfFullTurnIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeSolidImage(t, dir, "square.png", 120, 120, color.NRGBA{R: 255, A: 255})

	out, err := Resample(path, 100, 100, FitCover, 360)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("full-turn rotation changed size: %dx%d", b.Dx(), b.Dy())
	}
}
