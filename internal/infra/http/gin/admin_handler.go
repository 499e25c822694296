package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/dto"
	accountapp "seaberth/internal/app/handlers/account"
	bookingapp "seaberth/internal/app/handlers/booking"
	"seaberth/internal/app/queries"
	domainbooking "seaberth/internal/domain/booking"
	domainuser "seaberth/internal/domain/user"
)

type AdminHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type setBookingStatusRequest struct {
	Status string `json:"status"`
}

func (h AdminHandler) ListBookings(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := bookingapp.AdminListBookingsQuery{
		Status: c.Query("status"),
		Page:   parseIntWithDefault(c.Query("page"), 1),
		Limit:  parseIntWithDefault(c.Query("limit"), 20),
	}
	result, err := queries.Ask[bookingapp.AdminListBookingsQuery, dto.BookingPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		if errors.Is(err, domainbooking.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if h.Logger != nil {
			h.Logger.Error("admin booking list failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list bookings"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) SetBookingStatus(c *gin.Context) {
	admin, ok := requireRole(c, "admin")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	bookingID := c.Param("id")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking id is required"})
		return
	}
	var req setBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.AdminSetStatusCommand{
		BookingID:  bookingID,
		Status:     req.Status,
		ActorID:    admin.ID,
		ActorRoles: admin.domainRoles(),
	}
	result, err := commands.Dispatch[bookingapp.AdminSetStatusCommand, *bookingapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SweepBookings runs the completion sweep on demand. The scheduler performs
// the same dispatch on its own interval.
func (h AdminHandler) SweepBookings(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := bookingapp.SweepCompletedCommand{Now: time.Now().UTC()}
	result, err := commands.Dispatch[bookingapp.SweepCompletedCommand, *bookingapp.SweepCompletedResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) DeleteUser(c *gin.Context) {
	admin, ok := requireRole(c, "admin")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}
	cmd := accountapp.DeleteAccountCommand{UserID: userID, ActorID: admin.ID, ActorRoles: admin.domainRoles()}
	result, err := commands.Dispatch[accountapp.DeleteAccountCommand, *accountapp.DeleteAccountResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) respondAdminError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domainbooking.ErrNotFound), errors.Is(err, domainuser.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, bookingapp.ErrAdminRequired), errors.Is(err, accountapp.ErrActorForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domainbooking.ErrInvalidStatus):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	if h.Logger != nil && status == http.StatusInternalServerError {
		h.Logger.Error("admin request failed", "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

var _ AdminHTTP = AdminHandler{}
