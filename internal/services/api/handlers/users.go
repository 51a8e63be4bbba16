package handlers

import (
	"amiigo/internal/common"
	"amiigo/internal/models"
	"amiigo/internal/security"
	"amiigo/internal/services/api/store"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *ServerHandle) CreateUser(c echo.Context) error {
	var req models.UserCreate
	if err := c.Bind(&req); err != nil {
		return common.InvalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	errExists := echo.NewHTTPError(http.StatusBadRequest, "The user with this email already exists in the system.")

	_, err := h.Store.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return errExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		h.Logger.Err(err).Msg("unable to look up user")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		h.Logger.Err(err).Msg("unable to hash password")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}

	if err := h.Store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return errExists
		}
		h.Logger.Err(err).Msg("unable to create user")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	h.Metrics.registered()
	h.Logger.Info().Int64("user_id", user.ID).Msg("registered new user")

	return c.JSON(http.StatusCreated, user)
}

func (h *ServerHandle) ReadUserMe(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

func (h *ServerHandle) UpdateUserMe(c echo.Context) error {
	var req models.UserUpdate
	if err := c.Bind(&req); err != nil {
		return common.InvalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	errTaken := echo.NewHTTPError(http.StatusBadRequest, "This email is already registered to another user.")

	user := *currentUser(c)

	if req.Email != nil && *req.Email != user.Email {
		other, err := h.Store.GetUserByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			h.Logger.Err(err).Msg("unable to look up user")
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		if other != nil && other.ID != user.ID {
			return errTaken
		}
		user.Email = *req.Email
	}

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			h.Logger.Err(err).Msg("unable to hash password")
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
		user.PasswordHash = hash
	}

	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}

	if err := h.Store.UpdateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return errTaken
		}
		h.Logger.Err(err).Int64("user_id", user.ID).Msg("unable to update user")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &user)
}

func (h *ServerHandle) DeleteUserMe(c echo.Context) error {
	user := currentUser(c)

	if err := h.Store.DeleteUser(c.Request().Context(), user.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.Logger.Err(err).Int64("user_id", user.ID).Msg("unable to delete user")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	if claims := currentClaims(c); claims.ID != "" && claims.ExpiresAt != nil {
		if err := h.Tokens.Revoke(c.Request().Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.Logger.Err(err).Msg("unable to revoke token")
		}
	}

	h.Logger.Info().Int64("user_id", user.ID).Msg("deleted user")

	return c.NoContent(http.StatusNoContent)
}
