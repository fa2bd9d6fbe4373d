package provisioning

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"panpanocha/internal/rate_limiter"
	"panpanocha/internal/repository"
	"panpanocha/pkg/auditlog"
	"panpanocha/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const signatureHeader = "X-Signature"

type Handler struct {
	service     *Service
	auditLog    auditlog.Logger
	secret      string
	log         *zap.Logger
	rateLimiter *rate_limiter.RateLimiter
}

func NewHandler(r *repository.Repository, secret string, a auditlog.Logger, log *zap.Logger) *Handler {
	sessionRepo := NewSessionRepository(r)
	service := NewService(sessionRepo, log)

	return &Handler{
		service:     service,
		auditLog:    a,
		secret:      secret,
		log:         log,
		rateLimiter: rate_limiter.NewRateLimiter(30, time.Minute), // session creation only, polling is unlimited
	}
}

// RegisterPublicRoutes wires the endpoints the unauthenticated device
// reaches: session creation, polling and the signed decision callbacks.
func (h *Handler) RegisterPublicRoutes(router *gin.Engine) {
	provision := router.Group("/provision")
	{
		provision.POST("/sessions", h.CreateSession)
		provision.GET("/poll", h.Poll)
		provision.POST("/approve", h.Approve)
		provision.POST("/reject", h.Reject)
	}
}

// RegisterRoutes wires the portal-facing endpoints behind JWT auth.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	provision := router.Group("/provision")
	{
		provision.GET("/sessions", security.Authorize("admin"), h.PendingSessions)
	}
}

func (h *Handler) CreateSession(c *gin.Context) {
	if !h.rateLimiter.IsAllowed(security.ClientKey(c)) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many provisioning requests. Try again later."})
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	session, err := h.service.CreateSession(req.DeviceName)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create provisioning session"})
		return
	}

	go h.auditLog.Log(
		"create",
		map[string]interface{}{
			"device_name": session.DeviceName,
			"msg":         "Device requested provisioning",
		},
		session,
	)

	c.JSON(http.StatusCreated, gin.H{"session_id": session.ID})
}

// Poll is read-only and idempotent. It reveals the session state to any
// caller holding the session id; the id itself is the capability.
func (h *Handler) Poll(c *gin.Context) {
	sessionID := c.Query("session_id")

	result, err := h.service.Poll(sessionID)
	switch {
	case errors.Is(err, ErrMissingSessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
		return
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	case err != nil:
		// Poll never leaks store detail; anything unexpected reads as not found.
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Approve(c *gin.Context) {
	req, ok := h.verifiedDecision(c)
	if !ok {
		return
	}

	session, err := h.service.Approve(req.SessionID, req.BranchID, req.OrganizationID)
	if !h.handleDecisionError(c, err) {
		return
	}

	go h.auditLog.Log(
		"approve",
		map[string]interface{}{
			"session_id": req.SessionID,
			"branch_id":  req.BranchID,
			"msg":        "Provisioning session approved",
		},
		session,
	)

	c.JSON(http.StatusOK, gin.H{"message": "Session approved"})
}

func (h *Handler) Reject(c *gin.Context) {
	req, ok := h.verifiedDecision(c)
	if !ok {
		return
	}

	session, err := h.service.Reject(req.SessionID)
	if !h.handleDecisionError(c, err) {
		return
	}

	go h.auditLog.Log(
		"reject",
		map[string]interface{}{
			"session_id": req.SessionID,
			"msg":        "Provisioning session rejected",
		},
		session,
	)

	c.JSON(http.StatusOK, gin.H{"message": "Session rejected"})
}

func (h *Handler) PendingSessions(c *gin.Context) {
	sessions, err := h.service.PendingSessions()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list provisioning sessions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// verifiedDecision checks the HMAC signature over the exact raw body and
// only then unmarshals it.
func (h *Handler) verifiedDecision(c *gin.Context) (*DecisionRequest, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return nil, false
	}

	if !security.VerifySignedPayload(body, c.GetHeader(signatureHeader), h.secret, h.log) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return nil, false
	}

	var req DecisionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return nil, false
	}

	return &req, true
}

func (h *Handler) handleDecisionError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, ErrMissingSessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
		return false
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return false
	case errors.Is(err, ErrAlreadyDecided):
		c.JSON(http.StatusConflict, gin.H{"error": "Session already decided"})
		return false
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update provisioning session"})
		return false
	}
	return true
}
