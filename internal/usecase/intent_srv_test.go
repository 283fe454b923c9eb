package usecase

import (
	"testing"
	"time"

	"estate-booking/internal/data/entity"
	"estate-booking/internal/dto/request"
	"estate-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testBookingConfig() *utils.BookingConfig {
	return &utils.BookingConfig{
		PendingTTLMinutes: 30,
		CommitRetries:     3,
		CommitBackoffMS:   1,
		Visit: utils.PolicyConfig{
			HorizonDays:  14,
			MaxOccupants: 3,
			MaxUnits:     1,
		},
		Stay: utils.PolicyConfig{
			HorizonDays:      90,
			MaxOccupants:     6,
			MaxUnits:         30,
			ExcludedWeekdays: []string{"Sunday"},
			BlackoutDates:    []string{"2026-03-20"},
			AllowDeferred:    true,
		},
		Subscription: utils.PolicyConfig{
			HorizonDays:  30,
			MaxOccupants: 1,
			MaxUnits:     12,
		},
	}
}

// testIntentService pins the clock to Monday 2026-03-02.
func testIntentService() *intentService {
	return &intentService{
		config: testBookingConfig(),
		log:    zap.NewNop(),
		now: func() time.Time {
			return time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
		},
	}
}

func validStayRequest() *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		Kind:          "stay",
		PropertyID:    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		StartDate:     "2026-03-10",
		EndDate:       "2026-03-13",
		OccupantCount: 2,
		OccupantNames: []string{"Asha Verma"},
		ContactName:   "Rahul Verma",
		ContactEmail:  "rahul@example.com",
		PaymentMethod: "gateway",
	}
}

func TestIntentService_Build_ValidStay(t *testing.T) {
	service := testIntentService()

	draft, err := service.Build(validStayRequest())

	assert.NoError(t, err)
	assert.NotNil(t, draft)
	assert.Equal(t, entity.BookingKindStay, draft.Kind)
	assert.Equal(t, 3, draft.Units) // nights
	assert.Equal(t, "2026-03-10", draft.StartDate)
	assert.Equal(t, "2026-03-13", draft.EndDate)
	assert.Equal(t, entity.PaymentMethodGateway, draft.PaymentMethod)
}

func TestIntentService_Build_ValidVisit(t *testing.T) {
	service := testIntentService()

	req := &request.CreateBookingRequest{
		Kind:          "visit",
		PropertyID:    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		StartDate:     "2026-03-06",
		OccupantCount: 1,
		ContactName:   "Rahul Verma",
		ContactPhone:  "+919800000001",
		PaymentMethod: "gateway",
	}

	draft, err := service.Build(req)

	assert.NoError(t, err)
	assert.Equal(t, entity.BookingKindVisit, draft.Kind)
	assert.Equal(t, 1, draft.Units)
}

func TestIntentService_Build_ValidSubscription(t *testing.T) {
	service := testIntentService()

	req := &request.CreateBookingRequest{
		Kind:          "subscription",
		PropertyID:    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		StartDate:     "2026-03-15",
		Months:        6,
		OccupantCount: 1,
		ContactName:   "Rahul Verma",
		ContactEmail:  "rahul@example.com",
		PaymentMethod: "gateway",
	}

	draft, err := service.Build(req)

	assert.NoError(t, err)
	assert.Equal(t, 6, draft.Units) // months
	assert.Equal(t, "2026-09-15", draft.EndDate)
}

func TestIntentService_Build_PolicyRejections(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(req *request.CreateBookingRequest)
		expectedField string
	}{
		{
			name: "occupants above visit limit",
			mutate: func(req *request.CreateBookingRequest) {
				req.Kind = "visit"
				req.EndDate = ""
				req.OccupantCount = 4
				req.OccupantNames = []string{"A", "B", "C"}
			},
			expectedField: "occupant_count",
		},
		{
			name: "excluded weekday",
			mutate: func(req *request.CreateBookingRequest) {
				req.StartDate = "2026-03-08" // Sunday
			},
			expectedField: "start_date",
		},
		{
			name: "start beyond horizon",
			mutate: func(req *request.CreateBookingRequest) {
				req.Kind = "visit"
				req.EndDate = ""
				req.OccupantCount = 1
				req.OccupantNames = nil
				req.StartDate = "2026-03-25" // visit horizon is 14 days
			},
			expectedField: "start_date",
		},
		{
			name: "start in the past",
			mutate: func(req *request.CreateBookingRequest) {
				req.StartDate = "2026-02-20"
			},
			expectedField: "start_date",
		},
		{
			name: "stay crosses blackout date",
			mutate: func(req *request.CreateBookingRequest) {
				req.StartDate = "2026-03-19"
				req.EndDate = "2026-03-21"
			},
			expectedField: "end_date",
		},
		{
			name: "end before start",
			mutate: func(req *request.CreateBookingRequest) {
				req.EndDate = "2026-03-09"
			},
			expectedField: "end_date",
		},
		{
			name: "missing occupant names",
			mutate: func(req *request.CreateBookingRequest) {
				req.OccupantCount = 3
				req.OccupantNames = nil
			},
			expectedField: "occupant_names",
		},
		{
			name: "no contact channel",
			mutate: func(req *request.CreateBookingRequest) {
				req.ContactEmail = ""
				req.ContactPhone = ""
			},
			expectedField: "contact",
		},
		{
			name: "deferred not allowed for visit",
			mutate: func(req *request.CreateBookingRequest) {
				req.Kind = "visit"
				req.EndDate = ""
				req.OccupantCount = 1
				req.OccupantNames = nil
				req.PaymentMethod = "deferred"
			},
			expectedField: "payment_method",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := testIntentService()

			req := validStayRequest()
			tc.mutate(req)

			draft, err := service.Build(req)

			assert.Nil(t, draft)
			assert.Error(t, err)

			verr, ok := err.(*ValidationError)
			assert.True(t, ok, "expected *ValidationError, got %T", err)
			assert.Contains(t, verr.Fields, tc.expectedField)
		})
	}
}

func TestIntentService_Build_CollectsAllViolations(t *testing.T) {
	service := testIntentService()

	// Three independent violations at once: occupancy, horizon, contact.
	req := &request.CreateBookingRequest{
		Kind:          "visit",
		PropertyID:    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		StartDate:     "2026-03-25",
		OccupantCount: 4,
		OccupantNames: []string{"A", "B", "C"},
		ContactName:   "Rahul Verma",
		PaymentMethod: "gateway",
	}

	draft, err := service.Build(req)

	assert.Nil(t, draft)
	verr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Contains(t, verr.Fields, "occupant_count")
	assert.Contains(t, verr.Fields, "start_date")
	assert.Contains(t, verr.Fields, "contact")
	assert.GreaterOrEqual(t, len(verr.Fields), 3)
}

func TestIntentService_Build_DeferredAllowedForStay(t *testing.T) {
	service := testIntentService()

	req := validStayRequest()
	req.PaymentMethod = "deferred"

	draft, err := service.Build(req)

	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentMethodDeferred, draft.PaymentMethod)
}
