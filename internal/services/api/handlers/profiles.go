package handlers

import (
	"amiigo/internal/common"
	"amiigo/internal/models"
	"amiigo/internal/services/api/store"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

var errProfileNotFound = echo.NewHTTPError(http.StatusNotFound, "Profile not found")

func (h *ServerHandle) ReadProfileMe(c echo.Context) error {
	return h.renderProfile(c, currentUser(c).ID)
}

func (h *ServerHandle) UpdateProfileMe(c echo.Context) error {
	var req models.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return common.InvalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile := &models.Profile{UserID: currentUser(c).ID}
	if err := req.Apply(profile); err != nil {
		return common.InvalidBody(err)
	}

	stored, err := h.Store.UpsertProfile(c.Request().Context(), profile)
	if err != nil {
		h.Logger.Err(err).Int64("user_id", profile.UserID).Msg("unable to save profile")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, stored.Response())
}

// ReadUserProfile shows the profile of another active user.
func (h *ServerHandle) ReadUserProfile(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return common.InvalidPath("user_id", "should be a valid integer")
	}

	target, err := h.Store.GetUser(c.Request().Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return errProfileNotFound
	}
	if err != nil {
		h.Logger.Err(err).Int64("user_id", userID).Msg("unable to load user")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if !target.IsActive {
		return errProfileNotFound
	}

	return h.renderProfile(c, userID)
}

func (h *ServerHandle) renderProfile(c echo.Context, userID int64) error {
	profile, err := h.Store.GetProfile(c.Request().Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return errProfileNotFound
	}
	if err != nil {
		h.Logger.Err(err).Int64("user_id", userID).Msg("unable to load profile")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, profile.Response())
}
