package pricing

import (
	"github.com/google/uuid"
)

// SelectionSchemaVersion tags the persisted customization payload so the
// schema can evolve without guessing at old blobs.
const SelectionSchemaVersion = 1

// SelectedOption is a validated add-on choice. Price and Name are snapshotted
// from the catalog at validation time; later catalog edits never change an
// existing booking's price.
type SelectedOption struct {
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
	Name     string `json:"name"`
}

// CustomizationSelection is the per-booking value object produced by Validate.
// It is only ever constructed server-side from a validated SelectionInput.
type CustomizationSelection struct {
	SchemaVersion     int                          `json:"schema_version"`
	SelectedOptions   map[uuid.UUID]SelectedOption `json:"selected_options"`
	RemovedFeatureIDs []uuid.UUID                  `json:"removed_feature_ids"`
}

// NewCustomizationSelection returns an empty selection at the current schema version
func NewCustomizationSelection() CustomizationSelection {
	return CustomizationSelection{
		SchemaVersion:   SelectionSchemaVersion,
		SelectedOptions: make(map[uuid.UUID]SelectedOption),
	}
}

// OptionSelectionInput is one add-on choice as sent by the client
type OptionSelectionInput struct {
	OptionID string `json:"option_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// SelectionInput is the untrusted customization payload from the client.
// It is revalidated against the catalog on every write path.
type SelectionInput struct {
	SelectedOptions   []OptionSelectionInput `json:"selected_options" binding:"omitempty,dive"`
	RemovedFeatureIDs []string               `json:"removed_feature_ids" binding:"omitempty,dive,uuid"`
}
