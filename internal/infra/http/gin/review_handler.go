package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/dto"
	reviewsapp "seaberth/internal/app/handlers/reviews"
	"seaberth/internal/app/queries"
	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainreviews "seaberth/internal/domain/reviews"
)

type ReviewsHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type submitReviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h ReviewsHandler) Submit(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews: commands unavailable"})
		return
	}
	boatID := c.Param("id")
	if boatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "boat id is required"})
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := reviewsapp.SubmitReviewCommand{
		BoatID:    boatID,
		AuthorID:  user.ID,
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Now:       time.Now().UTC(),
	}
	review, err := commands.Dispatch[reviewsapp.SubmitReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h ReviewsHandler) ListByBoat(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews: queries unavailable"})
		return
	}
	boatID := c.Param("id")
	if boatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "boat id is required"})
		return
	}
	query := reviewsapp.ListReviewsQuery{
		BoatID: boatID,
		Rating: parseInt(c.Query("rating")),
		Page:   parseIntWithDefault(c.Query("page"), 1),
		Limit:  parseIntWithDefault(c.Query("limit"), 20),
	}
	result, err := queries.Ask[reviewsapp.ListReviewsQuery, dto.ReviewPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		if errors.Is(err, domainboats.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "boat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewsHandler) MarkHelpful(c *gin.Context) {
	if _, ok := requireRole(c, ""); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews: commands unavailable"})
		return
	}
	reviewID := c.Param("id")
	if reviewID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review id is required"})
		return
	}
	cmd := reviewsapp.MarkHelpfulCommand{ReviewID: reviewID}
	review, err := commands.Dispatch[reviewsapp.MarkHelpfulCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h ReviewsHandler) Delete(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews: commands unavailable"})
		return
	}
	reviewID := c.Param("id")
	if reviewID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review id is required"})
		return
	}
	cmd := reviewsapp.DeleteReviewCommand{
		ReviewID:   reviewID,
		ActorID:    user.ID,
		ActorRoles: user.domainRoles(),
	}
	if _, err := commands.Dispatch[reviewsapp.DeleteReviewCommand, *reviewsapp.DeleteReviewResult](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondReviewError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ReviewsHandler) respondReviewError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domainreviews.ErrNotFound),
		errors.Is(err, domainboats.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainreviews.ErrBookingOwnership),
		errors.Is(err, reviewsapp.ErrDeleteForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domainreviews.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, domainreviews.ErrInvalidRating),
		errors.Is(err, domainreviews.ErrCommentLength):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	if h.Logger != nil {
		h.Logger.Warn("review request failed", "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

var _ ReviewsHTTP = ReviewsHandler{}
