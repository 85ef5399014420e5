package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/http/response"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/repos"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
)

type RenderHandler struct {
	log           *logger.Logger
	renderService services.RenderService
	jobRepo       repos.RenderJobRepo
}

func NewRenderHandler(log *logger.Logger, renderService services.RenderService, jobRepo repos.RenderJobRepo) *RenderHandler {
	return &RenderHandler{
		log:           log.With("handler", "RenderHandler"),
		renderService: renderService,
		jobRepo:       jobRepo,
	}
}

// POST /api/customizations/:id/preview
// ?max_width=800 caps the preview's longest base edge.
// Responds with the composed PNG itself, not a JSON envelope.
func (h *RenderHandler) Preview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_customization_id", err)
		return
	}

	maxWidth := 0
	if raw := c.Query("max_width"); raw != "" {
		maxWidth, err = strconv.Atoi(raw)
		if err != nil || maxWidth <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_max_width", err)
			return
		}
	}

	png, err := h.renderService.Preview(c.Request.Context(), id, maxWidth)
	if err != nil {
		respondServiceError(c, h.log, "render_preview", err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// POST /api/customizations/:id/checkout
// Finalizes the draft and queues the production render.
func (h *RenderHandler) Checkout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_customization_id", err)
		return
	}

	job, err := h.renderService.Checkout(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "checkout", err)
		return
	}
	response.RespondAccepted(c, gin.H{"job": job})
}

// GET /api/customizations/:id/render
// Latest production job for the customization, for storefront polling.
func (h *RenderHandler) Status(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_customization_id", err)
		return
	}

	job, err := h.renderService.Status(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "load_render_status", err)
		return
	}
	if job == nil {
		response.RespondError(c, http.StatusNotFound, "render_job_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// GET /api/render-jobs/:id
func (h *RenderHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}

	job, err := h.jobRepo.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("GetJob failed", "error", err, "job_id", id)
		response.RespondError(c, http.StatusInternalServerError, "load_job_failed", err)
		return
	}
	if job == nil {
		response.RespondError(c, http.StatusNotFound, "render_job_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// POST /api/admin/render-jobs/:id/retry
func (h *RenderHandler) Retry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}

	job, err := h.renderService.Retry(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "retry_render_job", err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
