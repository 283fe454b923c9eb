package entity

type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"
)

type Property struct {
	Base
	Name   string         `db:"name"`
	City   string         `db:"city"`
	Status PropertyStatus `db:"status"`

	// Rate card. Amounts are minor currency units, percentages are basis
	// points so tax math stays in integers.
	Currency         string `db:"currency"`
	NightlyRate      int64  `db:"nightly_rate"`
	VisitFee         int64  `db:"visit_fee"`
	MonthlyPlanPrice int64  `db:"monthly_plan_price"`
	TaxBps           int    `db:"tax_bps"`
	ServiceFeeBps    int    `db:"service_fee_bps"`
}

// RateCard is the pricing view of a property handed to the pricing engine.
type RateCard struct {
	Currency         string
	NightlyRate      int64
	VisitFee         int64
	MonthlyPlanPrice int64
	TaxBps           int
	ServiceFeeBps    int
}

func (p *Property) RateCard() RateCard {
	return RateCard{
		Currency:         p.Currency,
		NightlyRate:      p.NightlyRate,
		VisitFee:         p.VisitFee,
		MonthlyPlanPrice: p.MonthlyPlanPrice,
		TaxBps:           p.TaxBps,
		ServiceFeeBps:    p.ServiceFeeBps,
	}
}
