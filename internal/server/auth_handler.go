package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"user-auth-service/internal/auth/service"
	"user-auth-service/internal/security"
	userdomain "user-auth-service/internal/user/domain"
)

// AuthHandler bundles the auth endpoints. It maps service sentinel errors to
// HTTP status codes; unknown errors become an opaque 500.
type AuthHandler struct {
	auth AuthUsecases
}

// NewAuthHandler returns a handler backed by the given use cases.
func NewAuthHandler(auth AuthUsecases) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type verifyEmailReq struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type authResp struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Roles        []string  `json:"roles"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func toAuthResp(r *service.AuthResult) authResp {
	return authResp{
		UserID:       r.UserID,
		Email:        r.Email,
		Roles:        r.Roles,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
	}
}

// Register creates an account and returns the initial token pair.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toAuthResp(res))
}

// Login authenticates and returns a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(res))
}

// Refresh rotates a refresh token into a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken, requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(res))
}

// VerifyEmail redeems a verification token.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.auth.VerifyEmail(c.Request().Context(), req.UserID, req.Token, requestMeta(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"verified": true})
}

// Logout revokes the presented refresh token. Always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.auth.Logout(c.Request().Context(), req.RefreshToken, requestMeta(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func requestMeta(c echo.Context) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

// validationErrs are user-correctable failures reported as 400.
var validationErrs = []error{
	userdomain.ErrEmailEmpty,
	userdomain.ErrEmailInvalid,
	userdomain.ErrEmailAlreadyVerified,
	security.ErrPasswordTooShort,
	security.ErrPasswordNoUpper,
	security.ErrPasswordNoLower,
	security.ErrPasswordNoNumber,
	security.ErrPasswordNoSpecial,
}

func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenInvalid):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrAccountDeactivated):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrTooManyAttempts):
		status = http.StatusTooManyRequests
	default:
		for _, v := range validationErrs {
			if errors.Is(err, v) {
				status = http.StatusBadRequest
				break
			}
		}
	}
	if status == http.StatusInternalServerError &&
		!errors.Is(err, service.ErrLoginFailed) &&
		!errors.Is(err, service.ErrRegisterFailed) &&
		!errors.Is(err, service.ErrRefreshFailed) &&
		!errors.Is(err, service.ErrVerifyFailed) {
		// Unknown internals never leak their message.
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
