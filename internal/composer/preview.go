package composer

import (
	"context"
	"fmt"
	"math"
)

// DefaultPreviewMaxWidth caps preview renders when the caller does not
// ask for a specific width.
const DefaultPreviewMaxWidth = 800

// Preview renders the same composition at a uniformly downscaled size.
// Slots are percentage based, so no layout logic changes between a
// preview and a production render. Previews never upscale: a base
// narrower than maxWidth renders at its own size.
func (cp *compositor) Preview(ctx context.Context, basePath string, baseWidth, baseHeight int, slots []SlotDefinition, assignments []ImageSlotAssignment, maxWidth int) (*CompositionResult, error) {
	if baseWidth < 1 || baseHeight < 1 {
		return nil, fmt.Errorf("invalid base size %dx%d", baseWidth, baseHeight)
	}
	if maxWidth <= 0 {
		maxWidth = DefaultPreviewMaxWidth
	}

	scale := math.Min(1, float64(maxWidth)/float64(baseWidth))
	previewW := int(math.Round(float64(baseWidth) * scale))
	previewH := int(math.Round(float64(baseHeight) * scale))

	return cp.Compose(ctx, basePath, previewW, previewH, slots, assignments)
}
