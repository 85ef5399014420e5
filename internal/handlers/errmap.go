package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/http/response"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
	apperrors "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/pkg/errors"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
)

// respondServiceError translates service sentinels into statuses.
// Anything unrecognized is a server fault and gets logged.
func respondServiceError(c *gin.Context, log *logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperrors.ErrConflict):
		response.RespondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, services.ErrUploadRejected):
		response.RespondError(c, http.StatusUnprocessableEntity, "upload_rejected", err)
	default:
		log.Error(op+" failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, op+"_failed", err)
	}
}
