package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shareloop/service-booking/internal/application"
)

// AdminBookingHandler serves the operator endpoints over all bookings.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes registers admin routes on the given router group.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin/bookings")
	{
		admin.GET("", h.ListAll)
		admin.GET("/stats", h.Stats)
	}
}

// ListAll handles GET /admin/bookings.
func (h *AdminBookingHandler) ListAll(c *gin.Context) {
	page := parsePage(c)
	items, total, err := h.service.ListAllBookings(c.Request.Context(), page)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"from":  page.Offset,
		"size":  page.Limit,
	})
}

// Stats handles GET /admin/bookings/stats.
func (h *AdminBookingHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
