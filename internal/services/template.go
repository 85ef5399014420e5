package services

import (
  "bytes"
  "context"
  "fmt"
  "io"
  "strings"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/composer"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
  apperrors "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/pkg/errors"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/repos"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

// TemplateService manages layout templates: a base product photo plus
// the percent-positioned slots customers drop their images into.
type TemplateService interface {
  Create(ctx context.Context, productID uuid.UUID, name, baseName string, baseFile io.Reader, slotsJSON []byte) (*types.LayoutTemplate, error)
  GetByID(ctx context.Context, id uuid.UUID) (*types.LayoutTemplate, error)
  ListByProduct(ctx context.Context, productID uuid.UUID, activeOnly bool) ([]*types.LayoutTemplate, error)
  UpdateSlots(ctx context.Context, id uuid.UUID, slotsJSON []byte) (*types.LayoutTemplate, error)
  ReplaceBase(ctx context.Context, id uuid.UUID, baseName string, baseFile io.Reader) (*types.LayoutTemplate, error)
  SetActive(ctx context.Context, id uuid.UUID, active bool) (*types.LayoutTemplate, error)
  Delete(ctx context.Context, id uuid.UUID) error
}

type templateService struct {
  log          *logger.Logger
  productRepo  repos.ProductRepo
  templateRepo repos.LayoutTemplateRepo
  mediaStore   MediaStore
}

func NewTemplateService(log *logger.Logger, productRepo repos.ProductRepo, templateRepo repos.LayoutTemplateRepo, mediaStore MediaStore) TemplateService {
  serviceLog := log.With("service", "TemplateService")
  return &templateService{
    log:          serviceLog,
    productRepo:  productRepo,
    templateRepo: templateRepo,
    mediaStore:   mediaStore,
  }
}

func (ts *templateService) Create(ctx context.Context, productID uuid.UUID, name, baseName string, baseFile io.Reader, slotsJSON []byte) (*types.LayoutTemplate, error) {
  name = strings.TrimSpace(name)
  if name == "" {
    return nil, fmt.Errorf("%w: template name is required", apperrors.ErrInvalidArgument)
  }

  product, err := ts.productRepo.GetByID(ctx, nil, productID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load product: %w", err)
  }
  if product == nil {
    return nil, fmt.Errorf("Product %s %w", productID, apperrors.ErrNotFound)
  }

  slots, err := composer.ParseSlots(slotsJSON)
  if err != nil {
    return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
  }

  templateID := uuid.New()
  baseKey, baseWidth, baseHeight, err := ts.storeBase(templateID, baseName, baseFile)
  if err != nil {
    return nil, err
  }

  if len(slotsJSON) == 0 {
    slotsJSON = []byte(`[]`)
  }
  template := &types.LayoutTemplate{
    ID:             templateID,
    ProductID:      productID,
    Name:           name,
    BaseStorageKey: baseKey,
    BaseWidth:      baseWidth,
    BaseHeight:     baseHeight,
    Slots:          datatypes.JSON(slotsJSON),
    Active:         true,
  }
  if _, err := ts.templateRepo.Create(ctx, nil, []*types.LayoutTemplate{template}); err != nil {
    _ = ts.mediaStore.DeleteFile(baseKey)
    return nil, fmt.Errorf("Failed to create template: %w", err)
  }
  ts.log.Info("Template created", "templateID", templateID, "productID", productID, "slots", len(slots), "base", fmt.Sprintf("%dx%d", baseWidth, baseHeight))
  return template, nil
}

func (ts *templateService) GetByID(ctx context.Context, id uuid.UUID) (*types.LayoutTemplate, error) {
  return ts.templateRepo.GetByID(ctx, nil, id)
}

func (ts *templateService) ListByProduct(ctx context.Context, productID uuid.UUID, activeOnly bool) ([]*types.LayoutTemplate, error) {
  if activeOnly {
    return ts.templateRepo.ListActiveByProductID(ctx, nil, productID)
  }
  return ts.templateRepo.GetByProductID(ctx, nil, productID)
}

func (ts *templateService) UpdateSlots(ctx context.Context, id uuid.UUID, slotsJSON []byte) (*types.LayoutTemplate, error) {
  template, err := ts.templateRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("Failed to load template: %w", err)
  }
  if template == nil {
    return nil, nil
  }

  if _, err := composer.ParseSlots(slotsJSON); err != nil {
    return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
  }
  if len(slotsJSON) == 0 {
    slotsJSON = []byte(`[]`)
  }

  if err := ts.templateRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
    "slots": datatypes.JSON(slotsJSON),
  }); err != nil {
    return nil, fmt.Errorf("Failed to update template slots: %w", err)
  }
  return ts.templateRepo.GetByID(ctx, nil, id)
}

func (ts *templateService) ReplaceBase(ctx context.Context, id uuid.UUID, baseName string, baseFile io.Reader) (*types.LayoutTemplate, error) {
  template, err := ts.templateRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("Failed to load template: %w", err)
  }
  if template == nil {
    return nil, nil
  }

  oldKey := strings.TrimSpace(template.BaseStorageKey)
  newKey, baseWidth, baseHeight, err := ts.storeBase(id, baseName, baseFile)
  if err != nil {
    return nil, err
  }

  if err := ts.templateRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
    "base_storage_key": newKey,
    "base_width":       baseWidth,
    "base_height":      baseHeight,
  }); err != nil {
    return nil, fmt.Errorf("Failed to update template base: %w", err)
  }

  // Best-effort delete old AFTER the row points at the new one
  if oldKey != "" && oldKey != newKey {
    if err := ts.mediaStore.DeleteFile(oldKey); err != nil {
      ts.log.Warn("failed to delete old template base (ignored)", "oldKey", oldKey, "error", err)
    }
  }

  return ts.templateRepo.GetByID(ctx, nil, id)
}

func (ts *templateService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*types.LayoutTemplate, error) {
  template, err := ts.templateRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("Failed to load template: %w", err)
  }
  if template == nil {
    return nil, nil
  }
  if err := ts.templateRepo.UpdateFields(ctx, nil, id, map[string]interface{}{"active": active}); err != nil {
    return nil, fmt.Errorf("Failed to update template: %w", err)
  }
  return ts.templateRepo.GetByID(ctx, nil, id)
}

func (ts *templateService) Delete(ctx context.Context, id uuid.UUID) error {
  return ts.templateRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id})
}

// storeBase persists the base image and probes its pixel size. Every
// composition and preview for this template inherits these dimensions.
func (ts *templateService) storeBase(templateID uuid.UUID, baseName string, baseFile io.Reader) (string, int, int, error) {
  if baseFile == nil {
    return "", 0, 0, fmt.Errorf("%w: template base image is required", apperrors.ErrInvalidArgument)
  }
  raw, err := io.ReadAll(baseFile)
  if err != nil {
    return "", 0, 0, fmt.Errorf("Failed to read template base: %w", err)
  }

  key := ts.mediaStore.TemplateKey(templateID, baseName)
  if _, err := ts.mediaStore.SaveFile(key, bytes.NewReader(raw)); err != nil {
    return "", 0, 0, fmt.Errorf("Failed to store template base: %w", err)
  }

  width, height, err := composer.ProbeDimensions(ts.mediaStore.AbsPath(key))
  if err != nil {
    _ = ts.mediaStore.DeleteFile(key)
    return "", 0, 0, fmt.Errorf("%w: template base is not a decodable image: %v", apperrors.ErrInvalidArgument, err)
  }
  return key, width, height, nil
}
