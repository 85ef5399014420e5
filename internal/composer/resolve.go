package composer

import "math"

// resolveSlotRect maps a percentage slot onto base canvas pixels. Each
// field rounds independently, so adjacent slot edges may drift by one
// pixel. Values are deliberately not clamped: out-of-canvas placement
// is legal and clips naturally when the layer is drawn.
func resolveSlotRect(slot SlotDefinition, baseWidth, baseHeight int) (x, y, w, h int) {
	x = int(math.Round(slot.X / 100 * float64(baseWidth)))
	y = int(math.Round(slot.Y / 100 * float64(baseHeight)))
	w = int(math.Round(slot.Width / 100 * float64(baseWidth)))
	h = int(math.Round(slot.Height / 100 * float64(baseHeight)))
	return x, y, w, h
}
