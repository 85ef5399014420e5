package composer

import (
	"encoding/json"
	"fmt"
)

// ParseSlots decodes a layout's slot list and rejects structurally
// invalid definitions. Percent coordinates are not clamped here; a
// slot may legitimately hang off the base canvas.
func ParseSlots(raw []byte) ([]SlotDefinition, error) {
	if len(raw) == 0 {
		return []SlotDefinition{}, nil
	}
	var slots []SlotDefinition
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}
	if err := ValidateSlots(slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func ValidateSlots(slots []SlotDefinition) error {
	seen := make(map[string]bool, len(slots))
	for i, s := range slots {
		if s.ID == "" {
			return fmt.Errorf("slot %d: id is required", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("slot %q: duplicate id", s.ID)
		}
		seen[s.ID] = true
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("slot %q: width and height must be positive", s.ID)
		}
		if s.Fit != "" && !s.Fit.Valid() {
			return fmt.Errorf("slot %q: unknown fit mode %q", s.ID, s.Fit)
		}
	}
	return nil
}

// ParseAssignments decodes slot assignments. Duplicate slot ids are
// allowed; the last assignment for a slot wins at composition time.
func ParseAssignments(raw []byte) ([]ImageSlotAssignment, error) {
	if len(raw) == 0 {
		return []ImageSlotAssignment{}, nil
	}
	var assignments []ImageSlotAssignment
	if err := json.Unmarshal(raw, &assignments); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	for i, a := range assignments {
		if a.SlotID == "" {
			return nil, fmt.Errorf("assignment %d: slot_id is required", i)
		}
		if a.ImagePath == "" {
			return nil, fmt.Errorf("assignment %d: image_path is required", i)
		}
	}
	return assignments, nil
}
