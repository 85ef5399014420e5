package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/http/response"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

type TemplateHandler struct {
	log             *logger.Logger
	templateService services.TemplateService
}

func NewTemplateHandler(log *logger.Logger, templateService services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		log:             log.With("handler", "TemplateHandler"),
		templateService: templateService,
	}
}

// GET /api/products/:id/templates
// ?all=true includes inactive templates (admin editors want those).
func (h *TemplateHandler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil || productID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}

	activeOnly := c.Query("all") != "true"
	templates, err := h.templateService.ListByProduct(c.Request.Context(), productID, activeOnly)
	if err != nil {
		respondServiceError(c, h.log, "list_templates", err)
		return
	}
	response.RespondOK(c, gin.H{"templates": templates})
}

// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return
	}
	template, err := h.templateService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "load_template", err)
		return
	}
	if template == nil {
		response.RespondError(c, http.StatusNotFound, "template_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"template": template})
}

// POST /api/admin/templates (multipart/form-data)
// fields: "product_id", "name", "slots" (JSON array), "base" (image file)
func (h *TemplateHandler) Create(c *gin.Context) {
	productID, err := uuid.Parse(c.PostForm("product_id"))
	if err != nil || productID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}
	name := c.PostForm("name")
	slotsJSON := []byte(c.PostForm("slots"))

	fh, err := c.FormFile("base")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_base_image", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "open_file_failed", err)
		return
	}
	defer f.Close()

	template, err := h.templateService.Create(c.Request.Context(), productID, name, fh.Filename, f, slotsJSON)
	if err != nil {
		respondServiceError(c, h.log, "create_template", err)
		return
	}
	response.RespondCreated(c, gin.H{"template": template})
}

// PUT /api/admin/templates/:id
// body: { "slots": [ ... ] } and/or { "active": true|false }
func (h *TemplateHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return
	}

	var req struct {
		Slots  json.RawMessage `json:"slots"`
		Active *bool           `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(req.Slots) == 0 && req.Active == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", nil)
		return
	}

	var template *types.LayoutTemplate
	if len(req.Slots) > 0 {
		template, err = h.templateService.UpdateSlots(c.Request.Context(), id, req.Slots)
		if err != nil {
			respondServiceError(c, h.log, "update_template_slots", err)
			return
		}
		if template == nil {
			response.RespondError(c, http.StatusNotFound, "template_not_found", nil)
			return
		}
	}
	if req.Active != nil {
		template, err = h.templateService.SetActive(c.Request.Context(), id, *req.Active)
		if err != nil {
			respondServiceError(c, h.log, "update_template", err)
			return
		}
		if template == nil {
			response.RespondError(c, http.StatusNotFound, "template_not_found", nil)
			return
		}
	}
	response.RespondOK(c, gin.H{"template": template})
}

// POST /api/admin/templates/:id/base (multipart/form-data)
// field: "file"
func (h *TemplateHandler) ReplaceBase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "open_file_failed", err)
		return
	}
	defer f.Close()

	template, err := h.templateService.ReplaceBase(c.Request.Context(), id, fh.Filename, f)
	if err != nil {
		respondServiceError(c, h.log, "replace_template_base", err)
		return
	}
	if template == nil {
		response.RespondError(c, http.StatusNotFound, "template_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"template": template})
}

// DELETE /api/admin/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
		return
	}
	if err := h.templateService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_template", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
