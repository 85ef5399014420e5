package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/http/response"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
)

type UploadHandler struct {
	log           *logger.Logger
	uploadService services.UploadService
}

func NewUploadHandler(log *logger.Logger, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		log:           log.With("handler", "UploadHandler"),
		uploadService: uploadService,
	}
}

// POST /api/uploads (multipart/form-data)
// fields: "customization_id", "file"
// The file is validated before it is accepted; quality failures come
// back as 422 with the reason in the message.
func (h *UploadHandler) Create(c *gin.Context) {
	customizationID, err := uuid.Parse(c.PostForm("customization_id"))
	if err != nil || customizationID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_customization_id", err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}

	upload, err := h.uploadService.Ingest(c.Request.Context(), customizationID, fh)
	if err != nil {
		respondServiceError(c, h.log, "ingest_upload", err)
		return
	}
	response.RespondCreated(c, gin.H{"upload": upload})
}

// DELETE /api/uploads/:id
func (h *UploadHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_upload_id", err)
		return
	}
	if err := h.uploadService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_upload", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
