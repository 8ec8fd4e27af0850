package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/boatbooking/internal/auth"
	"github.com/Domenick1991/boatbooking/internal/calendar"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/Domenick1991/boatbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/calendar", h.calendar)
	router.GET("/availability", h.availability)
	router.POST("/quote", h.quote)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PATCH("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *BookingHandler) list(c *gin.Context) {
	filter, ok := bookingFilter(c)
	if !ok {
		return
	}
	bookings, err := h.service.ListBookings(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) calendar(c *gin.Context) {
	filter, ok := bookingFilter(c)
	if !ok {
		return
	}
	bookings, err := h.service.ListBookings(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, calendar.Project(bookings))
}

func (h *BookingHandler) availability(c *gin.Context) {
	var q booking.AvailabilityQuery

	boatID, err := queryInt64(c, "boat_id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if boatID != nil {
		q.BoatID = *boatID
	}
	start, err := queryTime(c, "start_at")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if start != nil {
		q.StartAt = *start
	}
	end, err := queryTime(c, "end_at")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if end != nil {
		q.EndAt = *end
	}
	if q.ExcludeID, err = queryInt64(c, "exclude_id"); err != nil {
		badRequest(c, err.Error())
		return
	}

	availability, err := h.service.CheckAvailability(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (h *BookingHandler) quote(c *gin.Context) {
	var req booking.QuoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	financials, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, financials)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req, auth.ActorFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req booking.UpdateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBooking(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bookingFilter reads boat_id, status, email, from, to and active.
func bookingFilter(c *gin.Context) (domain.BookingFilter, bool) {
	var (
		filter domain.BookingFilter
		err    error
	)
	if filter.BoatID, err = queryInt64(c, "boat_id"); err != nil {
		badRequest(c, err.Error())
		return filter, false
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.BookingStatus(raw)
		if !status.Valid() {
			badRequest(c, "invalid status")
			return filter, false
		}
		filter.Status = &status
	}
	filter.CustomerEmail = c.Query("email")
	if filter.StartFrom, err = queryTime(c, "from"); err != nil {
		badRequest(c, err.Error())
		return filter, false
	}
	if filter.EndUntil, err = queryTime(c, "to"); err != nil {
		badRequest(c, err.Error())
		return filter, false
	}
	if raw := c.Query("active"); raw != "" {
		if filter.Active, err = strconv.ParseBool(raw); err != nil {
			badRequest(c, "invalid active")
			return filter, false
		}
	}
	return filter, true
}
