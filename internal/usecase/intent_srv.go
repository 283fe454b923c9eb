package usecase

import (
	"fmt"
	"strings"
	"time"

	"estate-booking/internal/data/entity"
	"estate-booking/internal/dto/request"
	"estate-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// IntentService turns raw client input into an immutable BookingDraft, or a
// ValidationError listing every violated policy rule. One builder serves the
// visit, stay and subscription flows; the differences live in policy config,
// not in per-call-site checks.
type IntentService interface {
	Build(req *request.CreateBookingRequest) (*entity.BookingDraft, error)
}

type intentService struct {
	config *utils.BookingConfig
	log    *zap.Logger
	now    func() time.Time
}

func NewIntentService(config *utils.BookingConfig, log *zap.Logger) IntentService {
	return &intentService{
		config: config,
		log:    log.With(zap.String("service", "intent")),
		now:    time.Now,
	}
}

func (s *intentService) Build(req *request.CreateBookingRequest) (*entity.BookingDraft, error) {
	kind := entity.BookingKind(req.Kind)
	policy, err := s.policyFor(kind)
	if err != nil {
		return nil, err
	}

	verr := NewValidationError()

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		verr.Add("property_id", "must be a valid UUID")
	}

	startDate := s.validateWindow(req, kind, policy, verr)
	endDate, units := s.resolveUnits(req, kind, policy, startDate, verr)
	s.validateOccupants(req, policy, verr)
	s.validateContact(req, verr)
	method := s.validatePaymentMethod(req, policy, verr)

	if verr.HasErrors() {
		s.log.Warn("Booking intent rejected",
			zap.String("kind", req.Kind),
			zap.Int("violations", len(verr.Fields)),
		)
		return nil, verr
	}

	return &entity.BookingDraft{
		Kind:          kind,
		PropertyID:    propertyID,
		ContactName:   strings.TrimSpace(req.ContactName),
		ContactEmail:  strings.TrimSpace(req.ContactEmail),
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		StartDate:     startDate.Format(dateLayout),
		EndDate:       endDate.Format(dateLayout),
		Units:         units,
		OccupantCount: req.OccupantCount,
		OccupantNames: req.OccupantNames,
		PaymentMethod: method,
	}, nil
}

func (s *intentService) policyFor(kind entity.BookingKind) (utils.PolicyConfig, error) {
	switch kind {
	case entity.BookingKindVisit:
		return s.config.Visit, nil
	case entity.BookingKindStay:
		return s.config.Stay, nil
	case entity.BookingKindSubscription:
		return s.config.Subscription, nil
	default:
		return utils.PolicyConfig{}, fmt.Errorf("unknown booking kind %q", kind)
	}
}

// validateWindow checks the requested start date against the allowed horizon,
// excluded weekdays and blackout dates.
func (s *intentService) validateWindow(req *request.CreateBookingRequest, kind entity.BookingKind, policy utils.PolicyConfig, verr *ValidationError) time.Time {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		verr.Add("start_date", "must be a date in YYYY-MM-DD format")
		return time.Time{}
	}

	today := s.today()
	if startDate.Before(today) {
		verr.Add("start_date", "must not be in the past")
	}
	if horizon := today.AddDate(0, 0, policy.HorizonDays); startDate.After(horizon) {
		verr.Add("start_date", fmt.Sprintf("must be within %d days from today", policy.HorizonDays))
	}

	if weekdayExcluded(startDate, policy.ExcludedWeekdays) {
		verr.Add("start_date", fmt.Sprintf("%s is not available for %s bookings", startDate.Weekday(), kind))
	}
	if dateBlackedOut(startDate, policy.BlackoutDates) {
		verr.Add("start_date", "date is not available")
	}

	return startDate
}

// resolveUnits derives the billable unit count: nights for stays, months for
// subscriptions, a single slot for visits.
func (s *intentService) resolveUnits(req *request.CreateBookingRequest, kind entity.BookingKind, policy utils.PolicyConfig, startDate time.Time, verr *ValidationError) (time.Time, int) {
	switch kind {
	case entity.BookingKindStay:
		endDate, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			verr.Add("end_date", "must be a date in YYYY-MM-DD format")
			return time.Time{}, 0
		}
		if startDate.IsZero() {
			return endDate, 0
		}
		if !endDate.After(startDate) {
			verr.Add("end_date", "must be after start_date")
			return endDate, 0
		}

		nights := int(endDate.Sub(startDate).Hours() / 24)
		if policy.MaxUnits > 0 && nights > policy.MaxUnits {
			verr.Add("end_date", fmt.Sprintf("stay must not exceed %d nights", policy.MaxUnits))
		}
		for night := startDate; night.Before(endDate); night = night.AddDate(0, 0, 1) {
			if dateBlackedOut(night, policy.BlackoutDates) {
				verr.Add("end_date", fmt.Sprintf("stay includes unavailable date %s", night.Format(dateLayout)))
				break
			}
		}
		return endDate, nights

	case entity.BookingKindSubscription:
		if req.Months < 1 {
			verr.Add("months", "must be at least 1")
			return startDate, 0
		}
		if policy.MaxUnits > 0 && req.Months > policy.MaxUnits {
			verr.Add("months", fmt.Sprintf("must not exceed %d months", policy.MaxUnits))
		}
		if startDate.IsZero() {
			return startDate, req.Months
		}
		return startDate.AddDate(0, req.Months, 0), req.Months

	default: // visit occupies a single slot
		return startDate, 1
	}
}

func (s *intentService) validateOccupants(req *request.CreateBookingRequest, policy utils.PolicyConfig, verr *ValidationError) {
	if req.OccupantCount < 1 {
		verr.Add("occupant_count", "must be at least 1")
		return
	}
	if policy.MaxOccupants > 0 && req.OccupantCount > policy.MaxOccupants {
		verr.Add("occupant_count", fmt.Sprintf("must not exceed %d", policy.MaxOccupants))
		return
	}

	// Every occupant beyond the first must be named.
	required := req.OccupantCount - 1
	if len(req.OccupantNames) < required {
		verr.Add("occupant_names", fmt.Sprintf("names required for %d additional occupant(s)", required))
		return
	}
	for i := 0; i < required; i++ {
		if strings.TrimSpace(req.OccupantNames[i]) == "" {
			verr.Add("occupant_names", fmt.Sprintf("occupant %d name must not be empty", i+2))
			return
		}
	}
}

func (s *intentService) validateContact(req *request.CreateBookingRequest, verr *ValidationError) {
	if strings.TrimSpace(req.ContactName) == "" {
		verr.Add("contact_name", "must not be empty")
	}
	if strings.TrimSpace(req.ContactEmail) == "" && strings.TrimSpace(req.ContactPhone) == "" {
		verr.Add("contact", "at least one of contact_email or contact_phone is required")
	}
}

func (s *intentService) validatePaymentMethod(req *request.CreateBookingRequest, policy utils.PolicyConfig, verr *ValidationError) entity.PaymentMethod {
	method := entity.PaymentMethod(req.PaymentMethod)
	switch method {
	case entity.PaymentMethodGateway:
	case entity.PaymentMethodDeferred:
		if !policy.AllowDeferred {
			verr.Add("payment_method", fmt.Sprintf("%s bookings must be paid through the gateway", req.Kind))
		}
	default:
		verr.Add("payment_method", "must be one of: gateway, deferred")
	}
	return method
}

func (s *intentService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func weekdayExcluded(date time.Time, excluded []string) bool {
	for _, name := range excluded {
		if strings.EqualFold(name, date.Weekday().String()) {
			return true
		}
	}
	return false
}

func dateBlackedOut(date time.Time, blackouts []string) bool {
	formatted := date.Format(dateLayout)
	for _, blackout := range blackouts {
		if blackout == formatted {
			return true
		}
	}
	return false
}
