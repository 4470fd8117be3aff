package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/auth-server/internal/logging"
	"github.com/avolkov/auth-server/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	if err := h.Svc.Register(ctx, req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFormat):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials format"})
		case errors.Is(err, service.ErrAlreadyExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		default:
			l.Error("register_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "user registered successfully"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, service.ErrAccountLocked):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account locked"})
		default:
			l.Error("login_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	token := bearerToken(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	accessToken, _, err := h.Svc.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		l.Error("refresh_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"access_token": accessToken})
}

func (h *AuthHTTP) Validate(c echo.Context) error {
	token := bearerToken(c)
	if token != "" && h.Svc.Validate(token) {
		return c.JSON(http.StatusOK, echo.Map{"valid": true})
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"valid": false})
}

func bearerToken(c echo.Context) string {
	h := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
