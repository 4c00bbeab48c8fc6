package handler

import (
	"batch-custody-ledger/internal/adapter/http/dto"
	"batch-custody-ledger/internal/adapter/http/middleware"
	"batch-custody-ledger/internal/core/domain"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/pkg/apperror"
	"batch-custody-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// ChannelHandler handles the off-chain aggregation surface.
type ChannelHandler struct {
	aggregatorSvc ports.AggregatorService
}

// NewChannelHandler creates a new ChannelHandler.
func NewChannelHandler(aggregatorSvc ports.AggregatorService) *ChannelHandler {
	return &ChannelHandler{aggregatorSvc: aggregatorSvc}
}

// BufferIntent handles POST /api/v1/channels/:id/intents. The signer is the
// HMAC-authenticated manufacturer; the aggregate signature covers the
// channel's full pending list including this intent.
func (h *ChannelHandler) BufferIntent(c *gin.Context) {
	identity, ok := c.Get(middleware.CtxIdentity)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	var req dto.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	view, err := h.aggregatorSvc.BufferIntent(c.Request.Context(), ports.BufferIntentRequest{
		ChannelID:          c.Param("id"),
		Signer:             identity.(string),
		Data:               req.Data.ToDomain(),
		AggregateSignature: req.AggregateSignature,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, view)
}

// Settle handles POST /api/v1/channels/:id/settle. An omitted item list
// settles the channel's buffered intents.
func (h *ChannelHandler) Settle(c *gin.Context) {
	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var items []domain.BatchData
	if req.Items != nil {
		items = make([]domain.BatchData, 0, len(req.Items))
		for _, p := range req.Items {
			items = append(items, p.ToDomain())
		}
	}

	result, err := h.aggregatorSvc.Settle(c.Request.Context(), c.Param("id"), items, req.AggregateSignature)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// Get handles GET /api/v1/channels/:id.
func (h *ChannelHandler) Get(c *gin.Context) {
	view, err := h.aggregatorSvc.GetChannel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}
