package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/dto"
	favoritesapp "seaberth/internal/app/handlers/favorites"
	"seaberth/internal/app/queries"
	domainboats "seaberth/internal/domain/boats"
	domainfavorites "seaberth/internal/domain/favorites"
)

type FavoritesHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h FavoritesHandler) Add(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "favorites: commands unavailable"})
		return
	}
	boatID := c.Param("id")
	if boatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "boat id is required"})
		return
	}
	cmd := favoritesapp.AddFavoriteCommand{UserID: user.ID, BoatID: boatID}
	result, err := commands.Dispatch[favoritesapp.AddFavoriteCommand, dto.Favorite](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondFavoriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h FavoritesHandler) Remove(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "favorites: commands unavailable"})
		return
	}
	boatID := c.Param("id")
	if boatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "boat id is required"})
		return
	}
	cmd := favoritesapp.RemoveFavoriteCommand{UserID: user.ID, BoatID: boatID}
	if _, err := commands.Dispatch[favoritesapp.RemoveFavoriteCommand, *favoritesapp.RemoveFavoriteResult](c.Request.Context(), h.Commands, cmd); err != nil {
		h.respondFavoriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h FavoritesHandler) List(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "favorites: queries unavailable"})
		return
	}
	query := favoritesapp.ListFavoritesQuery{UserID: user.ID}
	result, err := queries.Ask[favoritesapp.ListFavoritesQuery, dto.FavoriteCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("favorites query failed", "error", err, "user_id", user.ID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load favorites"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FavoritesHandler) respondFavoriteError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domainboats.ErrNotFound), errors.Is(err, domainfavorites.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainfavorites.ErrAlreadyFavorite):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}
	if h.Logger != nil && status == http.StatusInternalServerError {
		h.Logger.Error("favorite request failed", "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

var _ FavoritesHTTP = FavoritesHandler{}
