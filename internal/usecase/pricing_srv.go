package usecase

import (
	"fmt"

	"estate-booking/internal/data/entity"
)

// PricingService computes a PricingBreakdown from a validated draft and a rate
// card. Pure and synchronous: no I/O, no clock, no state, so identical inputs
// always produce identical breakdowns.
type PricingService interface {
	Compute(draft *entity.BookingDraft, rate entity.RateCard) (entity.PricingBreakdown, error)
}

type pricingService struct{}

func NewPricingService() PricingService {
	return &pricingService{}
}

func (s *pricingService) Compute(draft *entity.BookingDraft, rate entity.RateCard) (entity.PricingBreakdown, error) {
	if draft.Units < 1 {
		return entity.PricingBreakdown{}, fmt.Errorf("invalid unit count %d", draft.Units)
	}
	if draft.OccupantCount < 1 {
		return entity.PricingBreakdown{}, fmt.Errorf("invalid occupant count %d", draft.OccupantCount)
	}

	var base int64
	switch draft.Kind {
	case entity.BookingKindStay:
		base = rate.NightlyRate * int64(draft.Units)
	case entity.BookingKindVisit:
		base = rate.VisitFee
	case entity.BookingKindSubscription:
		base = rate.MonthlyPlanPrice * int64(draft.Units)
	default:
		return entity.PricingBreakdown{}, fmt.Errorf("unknown booking kind %q", draft.Kind)
	}

	if base <= 0 {
		return entity.PricingBreakdown{}, fmt.Errorf("no rate configured for %s bookings", draft.Kind)
	}

	// Percentages apply to the base only, rounded half-up once. The total is
	// computed here and nowhere else.
	tax := applyBps(base, rate.TaxBps)
	fee := applyBps(base, rate.ServiceFeeBps)

	return entity.PricingBreakdown{
		BaseAmount:  base,
		TaxAmount:   tax,
		FeeAmount:   fee,
		TotalAmount: base + tax + fee,
		Currency:    rate.Currency,
	}, nil
}

// applyBps applies a basis-point percentage to an amount in minor units,
// rounding half-up.
func applyBps(amount int64, bps int) int64 {
	if bps <= 0 {
		return 0
	}
	return (amount*int64(bps) + 5000) / 10000
}
