package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/boatbooking/internal/calendar"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/Domenick1991/boatbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CheckAvailability(ctx context.Context, q booking.AvailabilityQuery) (*domain.Availability, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput, actor *uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, input, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateBooking(ctx context.Context, id int64, input booking.UpdateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) DeleteBooking(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingUseCase) Quote(ctx context.Context, input booking.QuoteInput) (domain.Financials, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Financials), args.Error(1)
}

func (m *MockBookingUseCase) CompleteFinishedBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

var (
	startAt = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	endAt   = time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)
)

func testContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	input := booking.CreateBookingInput{
		BoatID:         3,
		StartAt:        startAt,
		EndAt:          endAt,
		CustomerName:   "Deniz Kaya",
		CustomerPhone:  "+90 532 123 4567",
		CustomerEmail:  "deniz@example.com",
		PassengerCount: 4,
		BasePrice:      1000,
	}
	c, w := testContext(http.MethodPost, "/api/admin/bookings", input)

	created := &domain.Booking{ID: 1, BoatID: 3, Status: domain.BookingStatusProvisional, TotalAmount: 1000, RemainingBalance: 1000}
	mockService.On("CreateBooking", c.Request.Context(), mock.MatchedBy(func(in booking.CreateBookingInput) bool {
		return in.BoatID == 3 && in.StartAt.Equal(startAt) && in.CustomerEmail == "deniz@example.com"
	}), (*uuid.UUID)(nil)).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(1), response.ID)
	assert.Equal(t, domain.BookingStatusProvisional, response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_WithActor(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	actor := uuid.New()
	c, w := testContext(http.MethodPost, "/api/admin/bookings", booking.CreateBookingInput{BoatID: 3})
	c.Set("actor", actor)

	mockService.On("CreateBooking", mock.Anything, mock.Anything, &actor).Return(&domain.Booking{ID: 2}, nil).Once()

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_Errors(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "validation",
			err:  domain.NewValidationError(domain.FieldError{Field: "deposit_received", Message: "must not exceed the total amount"}),
			code: http.StatusUnprocessableEntity,
			body: `{"error":"validation failed","fields":[{"field":"deposit_received","message":"must not exceed the total amount"}]}`,
		},
		{
			name: "conflict",
			err: &domain.ConflictError{Conflicts: []domain.Conflict{
				{ID: 7, CustomerName: "Ayşe", StartAt: startAt, EndAt: endAt, Status: domain.BookingStatusConfirmed},
			}},
			code: http.StatusConflict,
			body: `{"error":"boat is not available for the selected dates; conflicting bookings: Ayşe","conflicts":[{"id":7,"start_at":"2026-07-01T00:00:00Z","end_at":"2026-07-03T00:00:00Z","status":"confirmed","customer_name":"Ayşe"}]}`,
		},
		{
			name: "storage conflict",
			err:  &domain.ConflictError{},
			code: http.StatusConflict,
			body: `{"error":"boat is not available for the selected dates","conflicts":[]}`,
		},
		{
			name: "remote failure",
			err:  errors.New("dial tcp 10.0.0.5:5432: connection refused"),
			code: http.StatusInternalServerError,
			body: `{"error":"operation failed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)
			c, w := testContext(http.MethodPost, "/api/admin/bookings", booking.CreateBookingInput{BoatID: 3})

			mockService.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			handler.create(c)

			assert.Equal(t, tc.code, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestBookingHandler_create_BadJSON(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/admin/bookings", bytes.NewBufferString(`{"boat_id":`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_availability(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(http.MethodGet, "/api/admin/bookings/availability?boat_id=3&start_at=2026-07-01&end_at=2026-07-03T00:00:00Z&exclude_id=12", nil)

	exclude := int64(12)
	query := booking.AvailabilityQuery{BoatID: 3, StartAt: startAt, EndAt: endAt, ExcludeID: &exclude}
	mockService.On("CheckAvailability", c.Request.Context(), query).Return(domain.NewAvailability(nil), nil).Once()

	handler.availability(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":true,"conflicts":[]}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestBookingHandler_availability_BadParams(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(http.MethodGet, "/api/admin/bookings/availability?boat_id=x", nil)
	handler.availability(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testContext(http.MethodGet, "/api/admin/bookings/availability?boat_id=3&start_at=yesterday", nil)
	handler.availability(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertNotCalled(t, "CheckAvailability", mock.Anything, mock.Anything)
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(http.MethodGet, "/api/admin/bookings?boat_id=3&status=confirmed&email=DENIZ&from=2026-07-01&active=true", nil)

	boatID := int64(3)
	status := domain.BookingStatusConfirmed
	from := startAt
	filter := domain.BookingFilter{BoatID: &boatID, Status: &status, CustomerEmail: "DENIZ", StartFrom: &from, Active: true}
	mockService.On("ListBookings", c.Request.Context(), filter).Return([]domain.Booking{{ID: 1}, {ID: 2}}, nil).Once()

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []domain.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_list_InvalidStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(http.MethodGet, "/api/admin/bookings?status=pending", nil)
	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_calendar(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(http.MethodGet, "/api/admin/bookings/calendar", nil)
	bookings := []domain.Booking{{
		ID: 5, BoatID: 3, StartAt: startAt, EndAt: endAt, Status: domain.BookingStatusCancelled,
		CustomerName: "Deniz Kaya", Boat: &domain.BoatSummary{ID: 3, Name: "Blue Pearl"},
	}}
	mockService.On("ListBookings", c.Request.Context(), domain.BookingFilter{}).Return(bookings, nil).Once()

	handler.calendar(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var events []calendar.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Blue Pearl - Deniz Kaya", events[0].Title)
	assert.Equal(t, "#ef4444", events[0].Style.BackgroundColor)
	assert.True(t, events[0].End.Equal(endAt.AddDate(0, 0, 1)))
}

func TestBookingHandler_quote(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	input := booking.QuoteInput{BasePrice: 1000, ExtrasTotal: 200, DepositReceived: 300}
	c, w := testContext(http.MethodPost, "/api/admin/bookings/quote", input)

	mockService.On("Quote", c.Request.Context(), input).
		Return(domain.Financials{Total: 1200, Balance: 900, Currency: domain.CurrencyEUR}, nil).Once()

	handler.quote(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_amount":1200,"remaining_balance":900,"currency":"EUR"}`, w.Body.String())
}

func TestBookingHandler_update(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	status := domain.BookingStatusConfirmed
	c, w := testContext(http.MethodPatch, "/api/admin/bookings/12", booking.UpdateBookingInput{Status: &status})
	c.Params = gin.Params{{Key: "id", Value: "12"}}

	mockService.On("UpdateBooking", c.Request.Context(), int64(12), booking.UpdateBookingInput{Status: &status}).
		Return(&domain.Booking{ID: 12, Status: status}, nil).Once()

	handler.update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_get_NotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(http.MethodGet, "/api/admin/bookings/404", nil)
	c.Params = gin.Params{{Key: "id", Value: "404"}}

	mockService.On("GetBooking", c.Request.Context(), int64(404)).Return(nil, domain.ErrNotFound).Once()

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_delete(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := testContext(http.MethodDelete, "/api/admin/bookings/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	mockService.On("DeleteBooking", c.Request.Context(), int64(9)).Return(nil).Once()

	handler.delete(c)
	// c.Status without a body is flushed when the handler chain ends.
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)

	c, w = testContext(http.MethodDelete, "/api/admin/bookings/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	handler.delete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
