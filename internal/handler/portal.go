package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/homework-portal/backend/internal/model"
	"github.com/homework-portal/backend/internal/service"
)

const portalRelationshipKey = "portal_relationship"

type portalService interface {
	Consent(ctx context.Context, portalToken, clientIP string) (bool, error)
	SetPin(ctx context.Context, portalToken, pin string) (string, error)
	VerifyPin(ctx context.Context, portalToken, pin, clientIP string) (string, error)
	RemovePin(ctx context.Context, portalToken, currentPin, clientIP string) error
	Status(ctx context.Context, portalToken, sessionToken string) (*model.PortalStatus, error)
	RequireSession(ctx context.Context, portalToken, sessionToken string) (*model.Relationship, error)
	CookieConfig() service.CookieConfig
}

type PortalHandler struct {
	svc portalService
}

func NewPortalHandler(svc portalService) *PortalHandler {
	return &PortalHandler{svc: svc}
}

// Consent godoc
// @Summary Record portal consent
// @Description Idempotent. A repeated call returns alreadyConsented=true.
// @Tags portal
// @Accept json
// @Produce json
// @Param request body model.PortalTokenRequest true "Portal token"
// @Success 200 {object} model.PortalSuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/portal/consent [post]
func (h *PortalHandler) Consent(c *gin.Context) {
	var req model.PortalTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	already, err := h.svc.Consent(c.Request.Context(), req.PortalToken, c.ClientIP())
	if err != nil {
		writePortalError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.PortalSuccessResponse{Success: true, AlreadyConsented: already})
}

// SetPin godoc
// @Summary Set the portal PIN
// @Description Requires consent and no existing PIN. Sets the session cookie.
// @Tags portal
// @Accept json
// @Produce json
// @Param request body model.PortalPinRequest true "Portal token and 4-digit PIN"
// @Success 200 {object} model.PortalSuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/portal/pin [post]
func (h *PortalHandler) SetPin(c *gin.Context) {
	var req model.PortalPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.svc.SetPin(c.Request.Context(), req.PortalToken, req.Pin)
	if err != nil {
		writePortalError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, model.PortalSuccessResponse{Success: true})
}

// VerifyPin godoc
// @Summary Verify the portal PIN
// @Tags portal
// @Accept json
// @Produce json
// @Param request body model.PortalPinRequest true "Portal token and 4-digit PIN"
// @Success 200 {object} model.PortalSuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.PortalUnauthorizedResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 429 {object} model.PortalRateLimitedResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/portal/pin/verify [post]
func (h *PortalHandler) VerifyPin(c *gin.Context) {
	var req model.PortalPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.svc.VerifyPin(c.Request.Context(), req.PortalToken, req.Pin, c.ClientIP())
	if err != nil {
		writePortalError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, model.PortalSuccessResponse{Success: true})
}

// RemovePin godoc
// @Summary Remove the portal PIN
// @Description Requires the current PIN. Clears the session cookie.
// @Tags portal
// @Accept json
// @Produce json
// @Param request body model.PortalRemovePinRequest true "Portal token and current PIN"
// @Success 200 {object} model.PortalSuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.PortalUnauthorizedResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 429 {object} model.PortalRateLimitedResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/portal/pin/remove [post]
func (h *PortalHandler) RemovePin(c *gin.Context) {
	var req model.PortalRemovePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.svc.RemovePin(c.Request.Context(), req.PortalToken, req.CurrentPin, c.ClientIP()); err != nil {
		writePortalError(c, err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, model.PortalSuccessResponse{Success: true})
}

// Status godoc
// @Summary Get portal access status
// @Description Reports consent, PIN and session state for the portal token.
// @Tags portal
// @Accept json
// @Produce json
// @Param request body model.PortalTokenRequest true "Portal token"
// @Success 200 {object} model.PortalStatus
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/portal/status [post]
func (h *PortalHandler) Status(c *gin.Context) {
	var req model.PortalTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	status, err := h.svc.Status(c.Request.Context(), req.PortalToken, h.sessionToken(c))
	if err != nil {
		writePortalError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Session godoc
// @Summary Probe a gated portal session
// @Tags portal
// @Produce json
// @Param portalToken path string true "Portal token"
// @Success 200 {object} model.PortalSuccessResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/portal/{portalToken}/session [get]
func (h *PortalHandler) Session(c *gin.Context) {
	if GetPortalRelationship(c) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, model.PortalSuccessResponse{Success: true})
}

// RequirePortalSession gates routes carrying a :portalToken path parameter.
func (h *PortalHandler) RequirePortalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		rel, err := h.svc.RequireSession(c.Request.Context(), c.Param("portalToken"), h.sessionToken(c))
		if err != nil {
			writePortalError(c, err)
			c.Abort()
			return
		}

		c.Set(portalRelationshipKey, rel)
		c.Next()
	}
}

func GetPortalRelationship(c *gin.Context) *model.Relationship {
	if value, ok := c.Get(portalRelationshipKey); ok {
		if rel, ok := value.(*model.Relationship); ok {
			return rel
		}
	}
	return nil
}

func (h *PortalHandler) sessionToken(c *gin.Context) string {
	token, _ := c.Cookie(h.svc.CookieConfig().Name)
	return token
}

func (h *PortalHandler) setSessionCookie(c *gin.Context, token string) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, token, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func (h *PortalHandler) clearSessionCookie(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func writePortalError(c *gin.Context, err error) {
	var mismatch *service.PinMismatchError
	var limited *service.RateLimitError

	switch {
	case errors.As(err, &mismatch):
		c.JSON(http.StatusUnauthorized, model.PortalUnauthorizedResponse{
			Error:             "incorrect pin",
			AttemptsRemaining: mismatch.AttemptsRemaining,
		})
	case errors.As(err, &limited):
		c.Header("Retry-After", strconv.Itoa(limited.RetryAfterSeconds))
		c.JSON(http.StatusTooManyRequests, model.PortalRateLimitedResponse{
			Error:             "too many attempts",
			RetryAfterSeconds: limited.RetryAfterSeconds,
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, service.ErrNoPinSet):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no pin set"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "consent required"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "pin already set"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
