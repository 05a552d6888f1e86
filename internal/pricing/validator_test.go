package pricing

import (
	"testing"

	"beatbloom/internal/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogPackage() (*catalog.PackageDefinition, catalog.CustomizationOption, catalog.IncludedFeature) {
	pkgID := uuid.New()
	option := catalog.CustomizationOption{
		ID:          uuid.New(),
		PackageID:   pkgID,
		Name:        "Live Band",
		Price:       15000,
		MaxQuantity: 3,
	}
	feature := catalog.IncludedFeature{
		ID:          uuid.New(),
		PackageID:   pkgID,
		Name:        "Welcome Drinks",
		Price:       1500,
		IsRemovable: true,
	}
	pkg := &catalog.PackageDefinition{
		ID:                   pkgID,
		Name:                 "Garden Gala",
		BasePrice:            5000,
		CustomizationOptions: []catalog.CustomizationOption{option},
		IncludedFeatures:     []catalog.IncludedFeature{feature},
	}
	return pkg, option, feature
}

func TestValidate_Success_CapturesSnapshots(t *testing.T) {
	pkg, option, feature := catalogPackage()

	selection, errs := Validate(pkg, SelectionInput{
		SelectedOptions:   []OptionSelectionInput{{OptionID: option.ID.String(), Quantity: 2}},
		RemovedFeatureIDs: []string{feature.ID.String()},
	})
	require.Empty(t, errs)

	got, ok := selection.SelectedOptions[option.ID]
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, option.Price, got.Price)
	assert.Equal(t, option.Name, got.Name)
	assert.Equal(t, []uuid.UUID{feature.ID}, selection.RemovedFeatureIDs)
	assert.Equal(t, SelectionSchemaVersion, selection.SchemaVersion)
}

func TestValidate_UnknownOption(t *testing.T) {
	pkg, _, _ := catalogPackage()

	_, errs := Validate(pkg, SelectionInput{
		SelectedOptions: []OptionSelectionInput{{OptionID: uuid.New().String(), Quantity: 1}},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unknown customization option")
}

func TestValidate_QuantityBounds(t *testing.T) {
	pkg, option, _ := catalogPackage()

	_, errs := Validate(pkg, SelectionInput{
		SelectedOptions: []OptionSelectionInput{{OptionID: option.ID.String(), Quantity: 4}},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "between 1 and 3")

	_, errs = Validate(pkg, SelectionInput{
		SelectedOptions: []OptionSelectionInput{{OptionID: option.ID.String(), Quantity: 0}},
	})
	require.Len(t, errs, 1)
}

func TestValidate_MissingRequiredOption(t *testing.T) {
	pkg, _, _ := catalogPackage()
	pkg.CustomizationOptions = append(pkg.CustomizationOptions, catalog.CustomizationOption{
		ID:          uuid.New(),
		PackageID:   pkg.ID,
		Name:        "Sound System",
		Price:       5000,
		IsRequired:  true,
		MaxQuantity: 1,
	})

	_, errs := Validate(pkg, SelectionInput{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, `required option "Sound System" is missing`)
}

func TestValidate_RemovalRules(t *testing.T) {
	pkg, _, _ := catalogPackage()
	requiredID := uuid.New()
	pinnedID := uuid.New()
	pkg.IncludedFeatures = append(pkg.IncludedFeatures,
		catalog.IncludedFeature{ID: requiredID, PackageID: pkg.ID, Name: "Stage", Price: 2500, IsRemovable: true, IsRequired: true},
		catalog.IncludedFeature{ID: pinnedID, PackageID: pkg.ID, Name: "Security", Price: 1000},
	)

	tests := []struct {
		name    string
		removed string
		message string
	}{
		{"unknown feature", uuid.New().String(), "unknown included feature"},
		{"required feature", requiredID.String(), "required feature cannot be removed"},
		{"non-removable feature", pinnedID.String(), "feature is not removable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Validate(pkg, SelectionInput{RemovedFeatureIDs: []string{tt.removed}})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Message, tt.message)
		})
	}
}

func TestValidate_AccumulatesAllViolations(t *testing.T) {
	pkg, option, _ := catalogPackage()

	_, errs := Validate(pkg, SelectionInput{
		SelectedOptions: []OptionSelectionInput{
			{OptionID: uuid.New().String(), Quantity: 1}, // unknown option
			{OptionID: option.ID.String(), Quantity: 9},  // over max quantity
		},
		RemovedFeatureIDs: []string{uuid.New().String()}, // unknown feature
	})

	assert.Len(t, errs, 3)
}

func TestValidate_DuplicateOptionRejected(t *testing.T) {
	pkg, option, _ := catalogPackage()

	_, errs := Validate(pkg, SelectionInput{
		SelectedOptions: []OptionSelectionInput{
			{OptionID: option.ID.String(), Quantity: 1},
			{OptionID: option.ID.String(), Quantity: 2},
		},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "more than once")
}

func TestValidate_IDInBothSetsRejected(t *testing.T) {
	pkg, _, _ := catalogPackage()
	sharedID := uuid.New()
	pkg.CustomizationOptions = append(pkg.CustomizationOptions, catalog.CustomizationOption{
		ID: sharedID, PackageID: pkg.ID, Name: "Arch", Price: 800, MaxQuantity: 1,
	})
	pkg.IncludedFeatures = append(pkg.IncludedFeatures, catalog.IncludedFeature{
		ID: sharedID, PackageID: pkg.ID, Name: "Arch", Price: 800, IsRemovable: true,
	})

	_, errs := Validate(pkg, SelectionInput{
		SelectedOptions:   []OptionSelectionInput{{OptionID: sharedID.String(), Quantity: 1}},
		RemovedFeatureIDs: []string{sharedID.String()},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "both selected and removed")
}

func TestValidate_FailureReturnsEmptySelection(t *testing.T) {
	pkg, _, _ := catalogPackage()

	selection, errs := Validate(pkg, SelectionInput{
		SelectedOptions: []OptionSelectionInput{{OptionID: "not-a-uuid", Quantity: 1}},
	})
	require.NotEmpty(t, errs)
	assert.Empty(t, selection.SelectedOptions)
}
