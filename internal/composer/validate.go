package composer

import (
	"fmt"
	"os"
)

const (
	// DefaultMaxSizeMB is the upload size budget applied when the
	// caller does not supply one.
	DefaultMaxSizeMB = 20
	// MaxMegapixels is a hard ceiling. It is not configurable so a
	// pathological upload can never reach the compositor.
	MaxMegapixels = 20
)

// QualityLimits are the caller-tunable bounds for ValidateImage. Zero
// values mean "use the default" for MaxSizeMB and "not enforced" for
// the minimum dimensions.
type QualityLimits struct {
	MaxSizeMB float64
	MinWidth  int
	MinHeight int
}

// Verdict is the structured result of a validation pass.
type Verdict struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func invalid(format string, args ...interface{}) Verdict {
	return Verdict{Valid: false, Error: fmt.Sprintf(format, args...)}
}

// ValidateImage checks an upload against size and dimension limits
// before it may enter the composition pipeline. It never returns an
// error value: unexpected I/O failures are captured into the verdict
// so callers can always branch on Valid.
func ValidateImage(path string, limits QualityLimits) Verdict {
	maxSizeMB := limits.MaxSizeMB
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}

	fi, err := os.Stat(path)
	if err != nil {
		return invalid("cannot read image: %v", err)
	}

	sizeMB := float64(fi.Size()) / (1024 * 1024)
	if sizeMB > maxSizeMB {
		return invalid("file size %.1fMB exceeds limit of %gMB", sizeMB, maxSizeMB)
	}

	width, height, err := ProbeDimensions(path)
	if err != nil {
		return invalid("cannot determine image dimensions: %v", err)
	}

	if limits.MinWidth > 0 && width < limits.MinWidth {
		return invalid("image width %dpx is below minimum %dpx", width, limits.MinWidth)
	}
	if limits.MinHeight > 0 && height < limits.MinHeight {
		return invalid("image height %dpx is below minimum %dpx", height, limits.MinHeight)
	}

	megapixels := float64(int64(width)*int64(height)) / 1e6
	if megapixels > MaxMegapixels {
		return invalid("image is %.1f megapixels, above the %d megapixel maximum", megapixels, MaxMegapixels)
	}

	return Verdict{Valid: true}
}
