package handlers

import (
	"amiigo/internal/common"
	"amiigo/internal/models"
	"amiigo/internal/security"
	"amiigo/internal/services/api/store"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (h *ServerHandle) Login(c echo.Context) error {
	var req models.TokenRequest
	if err := c.Bind(&req); err != nil {
		return common.InvalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	user, err := h.Store.GetUserByEmail(ctx, req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.Logger.Err(err).Msg("unable to look up user")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if user == nil || !security.VerifyPassword(req.Password, user.PasswordHash) {
		h.Metrics.login("bad_credentials")
		return unauthorized(c, echo.NewHTTPError(http.StatusUnauthorized, "Incorrect email or password"))
	}
	if !user.IsActive {
		h.Metrics.login("inactive")
		return errInactiveUser
	}

	token, _, err := h.Issuer.Issue(user.ID)
	if err != nil {
		h.Logger.Err(err).Int64("user_id", user.ID).Msg("unable to issue access token")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	if err := h.Store.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		h.Logger.Err(err).Int64("user_id", user.ID).Msg("unable to record last login")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	h.Metrics.login("success")
	h.Logger.Info().Int64("user_id", user.ID).Msg("user logged in")

	return c.JSON(http.StatusOK, &models.Token{
		AccessToken: token,
		TokenType:   models.TokenTypeBearer,
	})
}

func (h *ServerHandle) TestToken(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

// Logout revokes the presented token until it would have expired anyway.
func (h *ServerHandle) Logout(c echo.Context) error {
	claims := currentClaims(c)
	if claims.ID == "" || claims.ExpiresAt == nil {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.Tokens.Revoke(c.Request().Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.Logger.Err(err).Msg("unable to revoke token")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusNoContent)
}
