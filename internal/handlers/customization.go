package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/http/response"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
)

type CustomizationHandler struct {
	log                  *logger.Logger
	customizationService services.CustomizationService
	uploadService        services.UploadService
}

func NewCustomizationHandler(log *logger.Logger, customizationService services.CustomizationService, uploadService services.UploadService) *CustomizationHandler {
	return &CustomizationHandler{
		log:                  log.With("handler", "CustomizationHandler"),
		customizationService: customizationService,
		uploadService:        uploadService,
	}
}

// POST /api/customizations
// body: { "product_id": "...", "template_id": "...", "customer_email": "..." }
func (h *CustomizationHandler) Create(c *gin.Context) {
	var req struct {
		ProductID     string `json:"product_id"`
		TemplateID    string `json:"template_id"`
		CustomerEmail string `json:"customer_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil || productID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}
	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil || templateID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return
	}

	custom, err := h.customizationService.CreateDraft(c.Request.Context(), productID, templateID, req.CustomerEmail)
	if err != nil {
		respondServiceError(c, h.log, "create_customization", err)
		return
	}
	response.RespondCreated(c, gin.H{"customization": custom})
}

// GET /api/customizations/:id
// Returns the draft plus its uploaded images, everything the editor
// needs to restore its state.
func (h *CustomizationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_customization_id", err)
		return
	}

	custom, err := h.customizationService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "load_customization", err)
		return
	}
	if custom == nil {
		response.RespondError(c, http.StatusNotFound, "customization_not_found", nil)
		return
	}

	uploads, err := h.uploadService.ListByCustomization(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "load_customization_uploads", err)
		return
	}

	response.RespondOK(c, gin.H{
		"customization": custom,
		"uploads":       uploads,
	})
}

// PUT /api/customizations/:id/assignments
// body: { "assignments": [ { "slot_id": "...", "image_path": "..." } ], "gift_message": "..." }
func (h *CustomizationHandler) UpdateAssignments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_customization_id", err)
		return
	}

	var req struct {
		Assignments json.RawMessage `json:"assignments"`
		GiftMessage *string         `json:"gift_message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	custom, err := h.customizationService.UpdateAssignments(c.Request.Context(), id, req.Assignments, req.GiftMessage)
	if err != nil {
		respondServiceError(c, h.log, "update_assignments", err)
		return
	}
	if custom == nil {
		response.RespondError(c, http.StatusNotFound, "customization_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"customization": custom})
}

// DELETE /api/customizations/:id
// Only drafts can be abandoned; finalized customizations are owned by
// the render pipeline.
func (h *CustomizationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_customization_id", err)
		return
	}
	if err := h.customizationService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_customization", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
