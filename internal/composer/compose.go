package composer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"sort"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
)

// resampleConcurrency bounds the per-slot fan-out. Slots are pure
// functions of their own inputs, only the final flatten is ordered.
const resampleConcurrency = 4

type Compositor interface {
	Compose(ctx context.Context, basePath string, baseWidth, baseHeight int, slots []SlotDefinition, assignments []ImageSlotAssignment) (*CompositionResult, error)
	Preview(ctx context.Context, basePath string, baseWidth, baseHeight int, slots []SlotDefinition, assignments []ImageSlotAssignment, maxWidth int) (*CompositionResult, error)
}

type compositor struct {
	log *logger.Logger
}

func NewCompositor(log *logger.Logger) Compositor {
	serviceLog := log.With("service", "Compositor")
	return &compositor{log: serviceLog}
}

type placement struct {
	img image.Image
	x   int
	y   int
}

// Compose flattens a base template plus assigned slot images into one
// raster of exactly baseWidth x baseHeight. A missing base image or an
// undecodable image aborts the render; a missing slot image only skips
// that slot.
func (cp *compositor) Compose(ctx context.Context, basePath string, baseWidth, baseHeight int, slots []SlotDefinition, assignments []ImageSlotAssignment) (*CompositionResult, error) {
	if baseWidth < 1 || baseHeight < 1 {
		return nil, fmt.Errorf("invalid output size %dx%d", baseWidth, baseHeight)
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBaseImageMissing, basePath, err)
	}
	baseImg, err := imaging.Open(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: base image %s: %v", ErrImageUnreadable, basePath, err)
	}

	surface := flattenSurface(baseImg, baseWidth, baseHeight)

	// Paint order is z-index ascending; the sort is stable so slots at
	// equal depth keep their template order and repeated renders stay
	// byte-identical.
	ordered := make([]SlotDefinition, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex < ordered[j].ZIndex
	})

	assigned := make(map[string]string, len(assignments))
	for _, a := range assignments {
		assigned[a.SlotID] = a.ImagePath
	}

	placements := make([]*placement, len(ordered))
	skippedAt := make([]string, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resampleConcurrency)
	for i, slot := range ordered {
		path, ok := assigned[slot.ID]
		if !ok || path == "" {
			continue
		}
		x, y, w, h := resolveSlotRect(slot, baseWidth, baseHeight)
		if w < 1 || h < 1 {
			continue
		}
		i, slot, path := i, slot, path
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if _, err := os.Stat(path); err != nil {
				cp.log.Warn("Skipping slot, assigned image not accessible", "slot_id", slot.ID, "path", path, "error", err)
				skippedAt[i] = slot.ID
				return nil
			}
			src, err := imaging.Open(path)
			if err != nil {
				return fmt.Errorf("%w: slot %s image %s: %v", ErrImageUnreadable, slot.ID, path, err)
			}
			placements[i] = &placement{
				img: resampleImage(src, w, h, slot.Fit, slot.Rotation),
				x:   x,
				y:   y,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Single flatten pass, alpha-blending each layer over what is
	// underneath. Rotated layers may exceed their slot rectangle; they
	// stay anchored at the rectangle's top-left regardless.
	for _, pl := range placements {
		if pl == nil {
			continue
		}
		b := pl.img.Bounds()
		rect := image.Rect(pl.x, pl.y, pl.x+b.Dx(), pl.y+b.Dy())
		draw.Draw(surface, rect, pl.img, b.Min, draw.Over)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, surface, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("encode composition: %w", err)
	}

	var skipped []string
	for _, id := range skippedAt {
		if id != "" {
			skipped = append(skipped, id)
		}
	}

	return &CompositionResult{
		Buffer:       buf.Bytes(),
		Width:        baseWidth,
		Height:       baseHeight,
		SkippedSlots: skipped,
	}, nil
}

// flattenSurface resizes the base template to the output size with a
// centered cover fit: crop to the output aspect first, then scale.
func flattenSurface(base image.Image, width, height int) *image.RGBA {
	b := base.Bounds()
	srcW, srcH := b.Dx(), b.Dy()

	cropW, cropH := srcW, srcH
	if srcW*height > srcH*width {
		cropW = srcH * width / height
	} else {
		cropH = srcW * height / width
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}
	x0 := b.Min.X + (srcW-cropW)/2
	y0 := b.Min.Y + (srcH-cropH)/2

	cropRect := image.Rect(0, 0, cropW, cropH)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, base, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)
	return dst
}
