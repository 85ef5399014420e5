package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/http/response"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
)

type GiftCardHandler struct {
	log       *logger.Logger
	giftCards services.GiftCardService // nil when CARD_FONT is not configured
}

func NewGiftCardHandler(log *logger.Logger, giftCards services.GiftCardService) *GiftCardHandler {
	return &GiftCardHandler{
		log:       log.With("handler", "GiftCardHandler"),
		giftCards: giftCards,
	}
}

// POST /api/gift-cards/preview
// body: { "message": "...", "from": "..." }
// Responds with the rendered card PNG.
func (h *GiftCardHandler) Preview(c *gin.Context) {
	if h.giftCards == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "gift_cards_unavailable", nil)
		return
	}

	var req struct {
		Message string `json:"message"`
		From    string `json:"from"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	card, err := h.giftCards.Render(req.Message, req.From)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "render_card_failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", card.Bytes())
}
