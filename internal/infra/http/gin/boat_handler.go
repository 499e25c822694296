package ginserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/dto"
	boatsapp "seaberth/internal/app/handlers/boats"
	"seaberth/internal/app/queries"
	domainboats "seaberth/internal/domain/boats"
	"seaberth/internal/domain/shared/money"
	domainuser "seaberth/internal/domain/user"
)

const maxBoatPhotoSizeBytes int64 = 10 * 1024 * 1024

type BoatHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type registerBoatRequest struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	LengthMeters   float64 `json:"length_meters"`
	Capacity       int     `json:"capacity"`
	DailyRateCents int64   `json:"daily_rate_cents"`
	Currency       string  `json:"currency"`
	Location       string  `json:"location"`
	PhotoURL       string  `json:"photo_url"`
}

// Catalog responds with the filtered public boat catalog.
func (h BoatHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "boat handler unavailable"})
		return
	}
	query := boatsapp.SearchCatalogQuery{
		Type:          c.Query("type"),
		Location:      c.Query("location"),
		MinCapacity:   parseInt(c.Query("min_capacity")),
		PriceMinCents: parseInt64(c.Query("price_min_cents")),
		PriceMaxCents: parseInt64(c.Query("price_max_cents")),
		Limit:         parseIntWithDefault(c.Query("limit"), 24),
		Offset:        parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[boatsapp.SearchCatalogQuery, dto.BoatPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BoatHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "boat handler unavailable"})
		return
	}
	boatID := c.Param("id")
	if boatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "boat id is required"})
		return
	}
	result, err := queries.Ask[boatsapp.GetBoatQuery, dto.Boat](c.Request.Context(), h.Queries, boatsapp.GetBoatQuery{BoatID: boatID})
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

func (h BoatHandler) Register(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req registerBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := boatsapp.RegisterBoatCommand{
		OwnerID:        user.ID,
		Name:           req.Name,
		Type:           req.Type,
		LengthMeters:   req.LengthMeters,
		Capacity:       req.Capacity,
		DailyRateCents: req.DailyRateCents,
		Currency:       req.Currency,
		Location:       req.Location,
		PhotoURL:       req.PhotoURL,
	}
	result, err := commands.Dispatch[boatsapp.RegisterBoatCommand, dto.Boat](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondBoatError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BoatHandler) UploadPhoto(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}

	boatID := strings.TrimSpace(c.Param("id"))
	if boatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "boat id is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		return
	}
	if fileHeader.Size > maxBoatPhotoSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file too large (max %d MB)", maxBoatPhotoSizeBytes/1024/1024)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBoatPhotoSizeBytes+1024))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read file"})
		return
	}
	if int64(len(data)) > maxBoatPhotoSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file too large (max %d MB)", maxBoatPhotoSizeBytes/1024/1024)})
		return
	}

	contentType := http.DetectContentType(data)
	if !isAllowedImageType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported content type: %s", contentType)})
		return
	}

	cmd := boatsapp.SetPhotoCommand{
		BoatID:      boatID,
		OwnerID:     user.ID,
		Content:     bytes.NewReader(data),
		ContentType: contentType,
	}
	result, err := commands.Dispatch[boatsapp.SetPhotoCommand, dto.Boat](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondBoatError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BoatHandler) respondBoatError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domainboats.ErrNotFound), errors.Is(err, domainuser.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainboats.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, domainboats.ErrNameTaken):
		status = http.StatusConflict
	case errors.Is(err, domainboats.ErrNameRequired),
		errors.Is(err, domainboats.ErrLocationRequired),
		errors.Is(err, domainboats.ErrInvalidType),
		errors.Is(err, domainboats.ErrInvalidDailyRate),
		errors.Is(err, domainboats.ErrInvalidCapacity),
		errors.Is(err, domainboats.ErrInvalidLength),
		errors.Is(err, money.ErrInvalidCurrency):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	if h.Logger != nil && status == http.StatusInternalServerError {
		h.Logger.Error("boat request failed", "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func isAllowedImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseIntWithDefault(raw string, fallback int) int {
	value := parseInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}

func parseInt64(raw string) int64 {
	value, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if value < 0 {
		return 0
	}
	return value
}

var _ BoatHTTP = BoatHandler{}
