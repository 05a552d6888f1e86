package pricing

import (
	"fmt"

	"beatbloom/internal/catalog"
)

// All money values are integer minor units (paise) to avoid floating-point
// drift; conversion to display currency happens at the edges.
const (
	// TaxRatePercent is the GST rate applied to the taxable amount.
	TaxRatePercent = 18

	// MinGuests and MaxGuests bound the guest count accepted by the engine.
	MinGuests = 1
	MaxGuests = 1000
)

// Breakdown is the deterministic monetary breakdown for a customized booking.
// Invariant: Total = Subtotal + AddOnsTotal - RemovedDiscount + TravelFee + Tax.
type Breakdown struct {
	Subtotal        int64 `json:"subtotal"`
	AddOnsTotal     int64 `json:"add_ons_total"`
	RemovedDiscount int64 `json:"removed_discount"`
	TravelFee       int64 `json:"travel_fee"`
	TaxableAmount   int64 `json:"taxable_amount"`
	Tax             int64 `json:"tax"`
	Total           int64 `json:"total"`
}

// Price computes the monetary breakdown for a package booking. It is pure:
// same inputs always yield the same Breakdown. The selection must already be
// validated; Price only re-checks the preconditions it cannot tolerate.
func Price(pkg *catalog.PackageDefinition, guests int, selection CustomizationSelection, travelFee int64) (Breakdown, error) {
	if guests < MinGuests || guests > MaxGuests {
		return Breakdown{}, fmt.Errorf("guest count %d outside [%d, %d]", guests, MinGuests, MaxGuests)
	}
	if travelFee < 0 {
		return Breakdown{}, fmt.Errorf("travel fee cannot be negative")
	}

	subtotal := pkg.BasePrice + pkg.PerGuestPrice*int64(guests)

	var addOnsTotal int64
	for _, opt := range selection.SelectedOptions {
		addOnsTotal += opt.Price * int64(opt.Quantity)
	}

	// Only features the catalog marks removable count towards the discount;
	// removal of anything else was already rejected by the validator.
	var removedDiscount int64
	for _, featureID := range selection.RemovedFeatureIDs {
		if feature, ok := pkg.FeatureByID(featureID); ok && feature.CanBeRemoved() {
			removedDiscount += feature.Price
		}
	}

	taxableAmount := subtotal + addOnsTotal - removedDiscount + travelFee
	tax := roundHalfUpPercent(taxableAmount, TaxRatePercent)

	return Breakdown{
		Subtotal:        subtotal,
		AddOnsTotal:     addOnsTotal,
		RemovedDiscount: removedDiscount,
		TravelFee:       travelFee,
		TaxableAmount:   taxableAmount,
		Tax:             tax,
		Total:           taxableAmount + tax,
	}, nil
}

// roundHalfUpPercent computes amount * percent / 100 rounded half-up,
// in integer arithmetic.
func roundHalfUpPercent(amount int64, percent int64) int64 {
	product := amount * percent
	if product >= 0 {
		return (product + 50) / 100
	}
	return -((-product + 50) / 100)
}
