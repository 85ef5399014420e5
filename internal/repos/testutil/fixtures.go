package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:         uuid.New(),
		Name:       "Cesta Romance",
		Slug:       slug,
		PriceCents: 14990,
		Active:     true,
		Metadata:   datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedLayoutTemplate(tb testing.TB, ctx context.Context, tx *gorm.DB, productID uuid.UUID, slots string) *types.LayoutTemplate {
	tb.Helper()
	if slots == "" {
		slots = `[{"id":"photo","x":10,"y":10,"width":40,"height":40,"z_index":1,"fit":"cover"}]`
	}
	lt := &types.LayoutTemplate{
		ID:             uuid.New(),
		ProductID:      productID,
		Name:           "caneca frente",
		BaseStorageKey: "templates/base.png",
		BaseWidth:      1000,
		BaseHeight:     1000,
		Slots:          datatypes.JSON([]byte(slots)),
		Active:         true,
	}
	if err := tx.WithContext(ctx).Create(lt).Error; err != nil {
		tb.Fatalf("seed layout template: %v", err)
	}
	return lt
}

func SeedCustomization(tb testing.TB, ctx context.Context, tx *gorm.DB, productID, templateID uuid.UUID) *types.Customization {
	tb.Helper()
	c := &types.Customization{
		ID:            uuid.New(),
		ProductID:     productID,
		TemplateID:    templateID,
		CustomerEmail: "cliente@example.com",
		Status:        "draft",
		Assignments:   datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed customization: %v", err)
	}
	return c
}

func SeedUpload(tb testing.TB, ctx context.Context, tx *gorm.DB, customizationID uuid.UUID, storageKey string) *types.Upload {
	tb.Helper()
	u := &types.Upload{
		ID:              uuid.New(),
		CustomizationID: customizationID,
		OriginalName:    "foto.jpg",
		MimeType:        "image/jpeg",
		SizeBytes:       2048,
		Width:           1200,
		Height:          900,
		StorageKey:      storageKey,
		Status:          "validated",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed upload: %v", err)
	}
	return u
}

func SeedRenderJob(tb testing.TB, ctx context.Context, tx *gorm.DB, customizationID uuid.UUID, status string) *types.RenderJob {
	tb.Helper()
	j := &types.RenderJob{
		ID:              uuid.New(),
		CustomizationID: customizationID,
		Kind:            "production",
		Status:          status,
		Width:           1000,
		Height:          1000,
		Metadata:        datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed render job: %v", err)
	}
	return j
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
