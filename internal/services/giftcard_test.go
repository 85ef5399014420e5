package services

import (
	"bytes"
	"image/png"
	"os"
	"testing"
)

func testGiftCardService(t *testing.T) GiftCardService {
	t.Helper()
	fontPath := os.Getenv("TEST_CARD_FONT")
	if fontPath == "" {
		t.Skip("set TEST_CARD_FONT to a TTF path to run gift card tests")
	}
	t.Setenv("CARD_FONT", fontPath)
	svc, err := NewGiftCardService(testLoggerFor(t))
	if err != nil {
		t.Fatalf("NewGiftCardService: %v", err)
	}
	return svc
}

func TestGiftCardRender(t *testing.T) {
	svc := testGiftCardService(t)

	buf, err := svc.Render("Feliz aniversário! Que essa cesta adoce o seu dia.", "Maria")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode card png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != cardWidth || b.Dy() != cardHeight {
		t.Fatalf("card size %dx%d, want %dx%d", b.Dx(), b.Dy(), cardWidth, cardHeight)
	}
}

func TestGiftCardRenderWithoutSignature(t *testing.T) {
	svc := testGiftCardService(t)

	buf, err := svc.Render("Com amor.", "")
	if err != nil || buf.Len() == 0 {
		t.Fatalf("Render without signature: len=%d err=%v", buf.Len(), err)
	}
}

func TestGiftCardRenderRequiresMessage(t *testing.T) {
	svc := testGiftCardService(t)

	if _, err := svc.Render("   ", "Maria"); err == nil {
		t.Fatalf("blank message should fail")
	}
}

func TestNewGiftCardServiceRequiresFont(t *testing.T) {
	t.Setenv("CARD_FONT", "")
	if _, err := NewGiftCardService(testLoggerFor(t)); err == nil {
		t.Fatalf("missing CARD_FONT should fail")
	}
}
