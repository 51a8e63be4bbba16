package handlers

import (
	"amiigo/internal/models"
	"amiigo/internal/security"
	"amiigo/internal/services/api/store"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	userKey   = "user"
	claimsKey = "claims"
)

var (
	errNotAuthenticated = echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	errBadCredentials   = echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
	errInactiveUser     = echo.NewHTTPError(http.StatusForbidden, "Inactive user")
	errUnverifiedUser   = echo.NewHTTPError(http.StatusForbidden, "User has not verified their email address.")
)

// Authenticate resolves the bearer token to a user and stores both on the
// context.
func (h *ServerHandle) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return unauthorized(c, errNotAuthenticated)
		}

		claims, err := h.Issuer.Parse(tokenStr)
		if err != nil {
			return unauthorized(c, errBadCredentials)
		}

		userID, err := claims.UserID()
		if err != nil {
			return unauthorized(c, errBadCredentials)
		}

		ctx := c.Request().Context()

		if claims.ID != "" {
			revoked, err := h.Tokens.IsRevoked(ctx, claims.ID)
			if err != nil {
				h.Logger.Err(err).Msg("unable to check token revocation")
				return echo.NewHTTPError(http.StatusInternalServerError)
			}
			if revoked {
				return unauthorized(c, errBadCredentials)
			}
		}

		user, err := h.Store.GetUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return unauthorized(c, errBadCredentials)
		}
		if err != nil {
			h.Logger.Err(err).Int64("user_id", userID).Msg("unable to load user")
			return echo.NewHTTPError(http.StatusInternalServerError)
		}

		c.Set(userKey, user)
		c.Set(claimsKey, claims)

		return next(c)
	}
}

func (h *ServerHandle) RequireActive(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !currentUser(c).IsActive {
			return errInactiveUser
		}
		return next(c)
	}
}

func (h *ServerHandle) RequireVerified(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !currentUser(c).IsVerified {
			return errUnverifiedUser
		}
		return next(c)
	}
}

func currentUser(c echo.Context) *models.User {
	return c.Get(userKey).(*models.User)
}

func currentClaims(c echo.Context) *security.Claims {
	return c.Get(claimsKey).(*security.Claims)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c echo.Context, err *echo.HTTPError) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return err
}
