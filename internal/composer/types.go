package composer

// FitMode selects how a source image fills its slot rectangle.
type FitMode string

const (
	// FitCover scales to fill the whole rectangle, cropping overflow.
	FitCover FitMode = "cover"
	// FitContain scales to fit inside the rectangle, padding the rest
	// with transparency.
	FitContain FitMode = "contain"
)

func (m FitMode) Valid() bool {
	return m == FitCover || m == FitContain
}

// Degrees is a rotation angle. Positive values rotate clockwise.
type Degrees float64

// SlotDefinition is one placement region of a layout template. All
// geometry fields are percentages (0-100) of the base canvas, so the
// same template serves production and preview renders at any size.
type SlotDefinition struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation Degrees `json:"rotation,omitempty"`
	ZIndex   int     `json:"z_index"`
	Fit      FitMode `json:"fit,omitempty"`
}

// ImageSlotAssignment points a slot at a readable source image. Slots
// without an assignment are legal and simply left empty.
type ImageSlotAssignment struct {
	SlotID    string `json:"slot_id"`
	ImagePath string `json:"image_path"`
}

// CompositionResult carries one flattened render. SkippedSlots lists
// ids whose assigned image file was not accessible at render time.
type CompositionResult struct {
	Buffer       []byte   `json:"-"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	SkippedSlots []string `json:"skipped_slots,omitempty"`
}
