package handler

import (
	"time"

	"batch-custody-ledger/internal/adapter/http/dto"
	"batch-custody-ledger/internal/adapter/http/middleware"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/pkg/apperror"
	"batch-custody-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ManufacturerHandler handles manufacturer self-service endpoints.
type ManufacturerHandler struct {
	manufacturerSvc ports.ManufacturerService
}

// NewManufacturerHandler creates a new manufacturer handler.
func NewManufacturerHandler(manufacturerSvc ports.ManufacturerService) *ManufacturerHandler {
	return &ManufacturerHandler{manufacturerSvc: manufacturerSvc}
}

// GetProfile returns the authenticated manufacturer's profile.
func (h *ManufacturerHandler) GetProfile(c *gin.Context) {
	manufacturerID, ok := c.Get(middleware.CtxManufacturerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	profile, err := h.manufacturerSvc.GetProfile(c.Request.Context(), manufacturerID.(uuid.UUID).String())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ManufacturerProfileResponse{
		ManufacturerID: profile.ID.String(),
		Username:       profile.Username,
		CompanyName:    profile.CompanyName,
		Identity:       profile.Identity,
		Status:         string(profile.Status),
		CreatedAt:      profile.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// RotateKeys generates a fresh access/secret pair for the manufacturer.
// Previously issued signatures stop verifying immediately.
func (h *ManufacturerHandler) RotateKeys(c *gin.Context) {
	manufacturerID, ok := c.Get(middleware.CtxManufacturerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	accessKey, secretKey, err := h.manufacturerSvc.RotateKeys(c.Request.Context(), manufacturerID.(uuid.UUID).String())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RotateKeysResponse{
		AccessKey: accessKey,
		SecretKey: secretKey,
	})
}
