package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"upi-checkout/internal/domain"
	"upi-checkout/internal/repo"
	"upi-checkout/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Relay is the browser side of the checkout widget.
type Relay interface {
	MarkLoaded()
	Current(ctx context.Context) (*repo.Session, error)
	Succeed(ctx context.Context, id uuid.UUID, resp domain.SuccessResponse) error
	Fail(ctx context.Context, id uuid.UUID, resp domain.FailureResponse) error
	Dismiss(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	machine service.PaymentStateMachine
	relay   Relay
	logger  *zap.SugaredLogger
}

func NewHandler(machine service.PaymentStateMachine, relay Relay, logger *zap.SugaredLogger) *Handler {
	return &Handler{machine: machine, relay: relay, logger: logger}
}

type sessionResponse struct {
	ID        uuid.UUID              `json:"id"`
	Options   domain.CheckoutOptions `json:"options"`
	CreatedAt time.Time              `json:"created_at"`
}

type errorResponse struct {
	Error   string            `json:"error"`
	Kind    string            `json:"error_kind"`
	Message string            `json:"message,omitempty"`
	State   *service.Snapshot `json:"state,omitempty"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) state(c *gin.Context) {
	c.JSON(http.StatusOK, h.machine.Snapshot())
}

func (h *Handler) submit(c *gin.Context) {
	var form domain.PaymentFormInput
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "bad_request"})
		return
	}

	if err := h.machine.Submit(c.Request.Context(), form); err != nil {
		snap := h.machine.Snapshot()
		h.logger.Infow("checkout submission rejected", "kind", domain.Kind(err), "error", err)
		c.JSON(domain.HTTPStatus(err), errorResponse{
			Error:   err.Error(),
			Kind:    domain.Kind(err),
			Message: snap.Message,
			State:   &snap,
		})
		return
	}
	c.JSON(http.StatusAccepted, h.machine.Snapshot())
}

// sdkLoaded records that a page has loaded the widget. It also re-arms a
// readiness wait that ran out before any page reported in.
func (h *Handler) sdkLoaded(c *gin.Context) {
	h.relay.MarkLoaded()

	err := h.machine.Start(c.Request.Context())
	switch {
	case err == nil:
		h.logger.Infow("checkout ready after browser reported widget loaded")
	case errors.Is(err, service.ErrAlreadyStarted):
	default:
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) currentSession(c *gin.Context) {
	s, err := h.relay.Current(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if s == nil {
		h.fail(c, domain.ErrSessionNotFound)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: s.ID, Options: s.Options, CreatedAt: s.CreatedAt})
}

func (h *Handler) sessionSuccess(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var resp domain.SuccessResponse
	if err := c.ShouldBindJSON(&resp); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "bad_request"})
		return
	}
	h.respond(c, h.relay.Succeed(c.Request.Context(), id, resp))
}

func (h *Handler) sessionFailure(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var resp domain.FailureResponse
	if err := c.ShouldBindJSON(&resp); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "bad_request"})
		return
	}
	h.respond(c, h.relay.Fail(c.Request.Context(), id, resp))
}

func (h *Handler) sessionDismiss(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	h.respond(c, h.relay.Dismiss(c.Request.Context(), id))
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid session id", Kind: "bad_request"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respond(c *gin.Context, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := domain.HTTPStatus(err)
	if status >= http.StatusInternalServerError && !errors.Is(err, domain.ErrCapabilityUnavailable) {
		h.logger.Errorw("checkout request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, errorResponse{Error: err.Error(), Kind: domain.Kind(err)})
}
