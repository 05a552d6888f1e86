package pricing

import (
	"fmt"
	"strings"

	"beatbloom/internal/catalog"

	"github.com/google/uuid"
)

// ValidationError describes one rejected part of a customization payload
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors accumulates every violation so the caller can report them
// all at once instead of one per round trip.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "invalid customization: " + strings.Join(msgs, "; ")
}

// Validate checks an untrusted customization payload against the package
// catalog. On success it returns the selection with price/name snapshots
// captured; on failure it returns every rule violation found.
func Validate(pkg *catalog.PackageDefinition, input SelectionInput) (CustomizationSelection, ValidationErrors) {
	var errs ValidationErrors
	selection := NewCustomizationSelection()

	// Rule 1 and 2: every selected option must exist, with quantity within bounds.
	for i, in := range input.SelectedOptions {
		field := fmt.Sprintf("selected_options[%d]", i)

		optionID, err := uuid.Parse(in.OptionID)
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Message: "option id is not a valid UUID"})
			continue
		}

		if _, dup := selection.SelectedOptions[optionID]; dup {
			errs = append(errs, ValidationError{Field: field, Message: "option selected more than once"})
			continue
		}

		option, ok := pkg.OptionByID(optionID)
		if !ok {
			errs = append(errs, ValidationError{Field: field, Message: "unknown customization option"})
			continue
		}

		if in.Quantity < 1 || in.Quantity > option.MaxQuantity {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("quantity must be between 1 and %d", option.MaxQuantity),
			})
			continue
		}

		selection.SelectedOptions[optionID] = SelectedOption{
			Quantity: in.Quantity,
			Price:    option.Price,
			Name:     option.Name,
		}
	}

	// Rule 3: every required option must be present.
	for _, option := range pkg.CustomizationOptions {
		if !option.IsRequired {
			continue
		}
		if _, ok := selection.SelectedOptions[option.ID]; !ok {
			errs = append(errs, ValidationError{
				Field:   "selected_options",
				Message: fmt.Sprintf("required option %q is missing", option.Name),
			})
		}
	}

	// Rule 4: removals must reference known, removable, non-required features.
	seen := make(map[uuid.UUID]bool)
	for i, raw := range input.RemovedFeatureIDs {
		field := fmt.Sprintf("removed_feature_ids[%d]", i)

		featureID, err := uuid.Parse(raw)
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Message: "feature id is not a valid UUID"})
			continue
		}

		if seen[featureID] {
			errs = append(errs, ValidationError{Field: field, Message: "feature removed more than once"})
			continue
		}
		seen[featureID] = true

		feature, ok := pkg.FeatureByID(featureID)
		if !ok {
			errs = append(errs, ValidationError{Field: field, Message: "unknown included feature"})
			continue
		}

		if feature.IsRequired {
			errs = append(errs, ValidationError{Field: field, Message: "required feature cannot be removed"})
			continue
		}
		if !feature.IsRemovable {
			errs = append(errs, ValidationError{Field: field, Message: "feature is not removable"})
			continue
		}

		selection.RemovedFeatureIDs = append(selection.RemovedFeatureIDs, featureID)
	}

	// Rule 5: no id may appear in both the added and removed sets.
	for _, featureID := range selection.RemovedFeatureIDs {
		if _, ok := selection.SelectedOptions[featureID]; ok {
			errs = append(errs, ValidationError{
				Field:   "removed_feature_ids",
				Message: fmt.Sprintf("id %s appears in both selected and removed sets", featureID),
			})
		}
	}

	if len(errs) > 0 {
		return CustomizationSelection{}, errs
	}
	return selection, nil
}
