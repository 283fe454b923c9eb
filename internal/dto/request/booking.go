package request

type CreateBookingRequest struct {
	Kind          string   `json:"kind" validate:"required,oneof=visit stay subscription"`
	PropertyID    string   `json:"property_id" validate:"required,uuid4"`
	StartDate     string   `json:"start_date" validate:"required"`
	EndDate       string   `json:"end_date" validate:"omitempty"`
	Months        int      `json:"months" validate:"omitempty,min=1"`
	OccupantCount int      `json:"occupant_count" validate:"required,min=1"`
	OccupantNames []string `json:"occupant_names" validate:"omitempty,dive,max=100"`
	ContactName   string   `json:"contact_name" validate:"required,max=100"`
	ContactEmail  string   `json:"contact_email" validate:"omitempty,email"`
	ContactPhone  string   `json:"contact_phone" validate:"omitempty,min=7,max=20"`
	PaymentMethod string   `json:"payment_method" validate:"required,oneof=gateway deferred"`
}

type QuoteRequest struct {
	Kind          string `json:"kind" validate:"required,oneof=visit stay subscription"`
	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"omitempty"`
	Months        int    `json:"months" validate:"omitempty,min=1"`
	OccupantCount int    `json:"occupant_count" validate:"required,min=1"`
}
