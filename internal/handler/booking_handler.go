package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareloop/service-booking/internal/application"
	"github.com/shareloop/service-booking/internal/domain/booking"
)

// sharerHeader carries the caller's user id, set by the gateway.
const sharerHeader = "X-Sharer-User-Id"

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("/owner", h.ListByOwner)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.Approve)
		bookings.GET("", h.ListByBooker)
	}
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Approve handles PATCH /bookings/:id?approved=true|false.
func (h *BookingHandler) Approve(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid booking ID")
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		badRequest(c, "approved must be true or false")
		return
	}

	result, err := h.service.Approve(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListByBooker handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListByBooker(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	filter, err := booking.ParseStateFilter(c.Query("state"))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.service.ListByBooker(c.Request.Context(), userID, filter, parsePage(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListByOwner handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListByOwner(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	filter, err := booking.ParseStateFilter(c.Query("state"))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.service.ListByOwner(c.Request.Context(), userID, filter, parsePage(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// sharerID extracts the caller id from the sharer header, writing a 400 when
// the header is missing or malformed.
func sharerID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(sharerHeader)
	if raw == "" {
		badRequest(c, sharerHeader+" header is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(c, sharerHeader+" header is not a valid user ID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePage extracts from/size query parameters with defaults.
func parsePage(c *gin.Context) booking.Page {
	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	if from < 0 {
		from = 0
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	return booking.Page{Offset: from, Limit: size}
}
