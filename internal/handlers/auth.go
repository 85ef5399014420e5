package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/http/response"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /api/admin/login
// body: { "email": "...", "password": "..." }
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	accessToken, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "login_failed", err)
		return
	}

	expiresIn := int(h.authService.GetAccessTTL().Seconds())
	response.RespondOK(c, gin.H{"access_token": accessToken, "expires_in": expiresIn})
}
