package handler

import (
	"strconv"

	"batch-custody-ledger/internal/adapter/http/dto"
	"batch-custody-ledger/internal/adapter/http/middleware"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/pkg/apperror"
	"batch-custody-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// BatchHandler handles batch registration, attestation, claiming and the
// query surface.
type BatchHandler struct {
	registrySvc ports.RegistryService
	verifySvc   ports.VerificationService
	rewardSvc   ports.RewardService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(
	registrySvc ports.RegistryService,
	verifySvc ports.VerificationService,
	rewardSvc ports.RewardService,
) *BatchHandler {
	return &BatchHandler{
		registrySvc: registrySvc,
		verifySvc:   verifySvc,
		rewardSvc:   rewardSvc,
	}
}

// Register handles POST /api/v1/batches. The manufacturer identity comes
// from the HMAC auth context, never from the request body.
func (h *BatchHandler) Register(c *gin.Context) {
	identity, ok := c.Get(middleware.CtxIdentity)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	var req dto.RegisterBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	batch, err := h.registrySvc.RegisterBatch(c.Request.Context(), ports.RegisterBatchRequest{
		BatchID:      req.BatchID,
		Manufacturer: identity.(string),
		Name:         req.Name,
		Composition:  req.Composition,
		Expiry:       req.ExpiryDate,
		Participants: req.Participants,
		Roles:        req.Roles,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromBatch(batch))
}

// Verify handles POST /api/v1/batches/:id/verifications.
func (h *BatchHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	err := h.verifySvc.Verify(c.Request.Context(), ports.VerifyRequest{
		BatchID:        c.Param("id"),
		CallerIdentity: req.Identity,
		Location:       req.Location,
		Note:           req.Note,
		Signature:      req.Signature,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	status, err := h.registrySvc.GetBatchStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// Claim handles POST /api/v1/batches/:id/claim.
func (h *BatchHandler) Claim(c *gin.Context) {
	var req dto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.rewardSvc.ClaimReward(c.Request.Context(), c.Param("id"), req.Claimant); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"batch_id": c.Param("id"),
		"claimant": req.Claimant,
		"claimed":  true,
	})
}

// Get handles GET /api/v1/batches/:id.
func (h *BatchHandler) Get(c *gin.Context) {
	batch, err := h.registrySvc.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromBatch(batch))
}

// GetStatus handles GET /api/v1/batches/:id/status.
func (h *BatchHandler) GetStatus(c *gin.Context) {
	status, err := h.registrySvc.GetBatchStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// GetParticipant handles GET /api/v1/batches/:id/participants/:identity.
func (h *BatchHandler) GetParticipant(c *gin.Context) {
	p, err := h.registrySvc.GetParticipantDetails(c.Request.Context(), c.Param("id"), c.Param("identity"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

// CanVerify handles GET /api/v1/batches/:id/can-verify/:identity.
func (h *BatchHandler) CanVerify(c *gin.Context) {
	canVerify, alreadyVerified := h.registrySvc.CanVerify(c.Request.Context(), c.Param("id"), c.Param("identity"))
	response.OK(c, dto.CanVerifyResponse{
		BatchID:         c.Param("id"),
		Identity:        c.Param("identity"),
		CanVerify:       canVerify,
		AlreadyVerified: alreadyVerified,
	})
}

// ListEvents handles GET /api/v1/batches/:id/events.
func (h *BatchHandler) ListEvents(c *gin.Context) {
	events, err := h.registrySvc.ListEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.LedgerEventResponse, 0, len(events))
	for i := range events {
		items = append(items, dto.FromEvent(&events[i]))
	}
	response.OK(c, items)
}

// List handles GET /api/v1/batches. The page is scoped to the authenticated
// manufacturer's identity.
func (h *BatchHandler) List(c *gin.Context) {
	identity, ok := c.Get(middleware.CtxIdentity)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	batches, total, err := h.registrySvc.ListBatches(c.Request.Context(), identity.(string), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		items = append(items, dto.FromBatch(&batches[i]))
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	response.OK(c, dto.BatchListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}
