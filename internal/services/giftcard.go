package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
)

// Printed card dimensions at 150dpi (17.8cm x 10.2cm).
const (
	cardWidth  = 1050
	cardHeight = 600
)

// GiftCardService renders the printable message card that ships inside
// the basket next to the personalized product.
type GiftCardService interface {
	Render(message, from string) (bytes.Buffer, error)
}

type giftCardService struct {
	log           *logger.Logger
	messageFace   font.Face
	signatureFace font.Face
}

func NewGiftCardService(log *logger.Logger) (GiftCardService, error) {
	serviceLog := log.With("service", "GiftCardService")

	fontPath := os.Getenv("CARD_FONT")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("Env var CARD_FONT is empty")
	}
	serviceLog.Info("Loading gift card font", "font", fontPath)

	messageFace, err := loadFontFace(fontPath, 44)
	if err != nil {
		return nil, fmt.Errorf("could not load card font: %w", err)
	}
	signatureFace, err := loadFontFace(fontPath, 30)
	if err != nil {
		return nil, fmt.Errorf("could not load card signature font: %w", err)
	}

	return &giftCardService{
		log:           serviceLog,
		messageFace:   messageFace,
		signatureFace: signatureFace,
	}, nil
}

func (gs *giftCardService) Render(message, from string) (bytes.Buffer, error) {
	var buf bytes.Buffer

	message = strings.TrimSpace(message)
	if message == "" {
		return buf, fmt.Errorf("gift message required")
	}

	dc := gg.NewContext(cardWidth, cardHeight)

	// Cream background
	dc.SetRGB255(253, 248, 240)
	dc.Clear()

	// Inset border
	dc.SetRGB255(196, 90, 90)
	dc.SetLineWidth(3)
	dc.DrawRoundedRectangle(24, 24, float64(cardWidth)-48, float64(cardHeight)-48, 18)
	dc.Stroke()

	dc.SetFontFace(gs.messageFace)
	dc.SetRGB255(74, 52, 52)

	messageY := float64(cardHeight) / 2
	if strings.TrimSpace(from) != "" {
		messageY -= 40
	}
	dc.DrawStringWrapped(message, float64(cardWidth)/2, messageY, 0.5, 0.5, float64(cardWidth)-160, 1.5, gg.AlignCenter)

	if from = strings.TrimSpace(from); from != "" {
		dc.SetFontFace(gs.signatureFace)
		dc.SetRGB255(122, 90, 90)
		dc.DrawStringAnchored("Com carinho, "+from, float64(cardWidth)/2, float64(cardHeight)-110, 0.5, 0.5)
	}

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
