package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/service"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/util"
)

type AuthAPI interface {
	Authenticator
	LoginWithGoogle(ctx context.Context, idToken string) (*service.AuthResult, error)
	Logout(ctx context.Context, sessionToken, federatedToken string) error
}

type AuthHandler struct {
	auth AuthAPI
}

func RegisterAuth(e *echo.Echo, auth AuthAPI) {
	h := &AuthHandler{auth: auth}

	g := e.Group("/api/v1/auth")
	g.POST("/google", h.googleLogin)
	g.GET("/me", h.me, RequireAuth(auth))
	g.POST("/logout", h.logout, RequireAuth(auth))
}

// googleLogin exchanges a Google ID token for a session token.
func (h *AuthHandler) googleLogin(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if strings.TrimSpace(req.IDToken) == "" {
		return c.JSON(http.StatusBadRequest, util.Error("id_token is required"))
	}

	res, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return writeError(c, err, "failed to start session")
	}
	return c.JSON(http.StatusOK, toAuthTokenResponse(res))
}

func (h *AuthHandler) me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, AuthUserResponse{User: toAuthUser(user)})
}

// logout ends the session and revokes the Google grant when one is supplied.
// Both steps are attempted even when the first fails.
func (h *AuthHandler) logout(c echo.Context) error {
	var req LogoutRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
		}
	}

	if err := h.auth.Logout(c.Request().Context(), CurrentToken(c), req.GoogleToken); err != nil {
		return writeError(c, err, "failed to end session")
	}
	return c.JSON(http.StatusOK, util.Success())
}

var _ AuthAPI = (*service.AuthService)(nil)

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, util.Error("unauthorized"))
}
