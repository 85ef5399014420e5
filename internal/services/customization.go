package services

import (
  "context"
  "fmt"
  "strings"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/composer"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
  apperrors "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/pkg/errors"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/repos"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

const maxGiftMessageLen = 500

// CustomizationService tracks a customer's draft: which template they
// picked and which uploaded photos sit in which slots.
type CustomizationService interface {
  CreateDraft(ctx context.Context, productID, templateID uuid.UUID, customerEmail string) (*types.Customization, error)
  GetByID(ctx context.Context, id uuid.UUID) (*types.Customization, error)
  UpdateAssignments(ctx context.Context, id uuid.UUID, assignmentsJSON []byte, giftMessage *string) (*types.Customization, error)
  Delete(ctx context.Context, id uuid.UUID) error
}

type customizationService struct {
  log               *logger.Logger
  productRepo       repos.ProductRepo
  templateRepo      repos.LayoutTemplateRepo
  customizationRepo repos.CustomizationRepo
  uploadRepo        repos.UploadRepo
}

func NewCustomizationService(
  log *logger.Logger,
  productRepo repos.ProductRepo,
  templateRepo repos.LayoutTemplateRepo,
  customizationRepo repos.CustomizationRepo,
  uploadRepo repos.UploadRepo,
) CustomizationService {
  serviceLog := log.With("service", "CustomizationService")
  return &customizationService{
    log:               serviceLog,
    productRepo:       productRepo,
    templateRepo:      templateRepo,
    customizationRepo: customizationRepo,
    uploadRepo:        uploadRepo,
  }
}

func (cs *customizationService) CreateDraft(ctx context.Context, productID, templateID uuid.UUID, customerEmail string) (*types.Customization, error) {
  customerEmail = strings.ToLower(strings.TrimSpace(customerEmail))
  if customerEmail == "" || !strings.Contains(customerEmail, "@") {
    return nil, fmt.Errorf("%w: a valid customer email is required", apperrors.ErrInvalidArgument)
  }

  product, err := cs.productRepo.GetByID(ctx, nil, productID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load product: %w", err)
  }
  if product == nil || !product.Active {
    return nil, fmt.Errorf("Product %s %w", productID, apperrors.ErrNotFound)
  }

  template, err := cs.templateRepo.GetByID(ctx, nil, templateID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load template: %w", err)
  }
  if template == nil || !template.Active {
    return nil, fmt.Errorf("Template %s %w", templateID, apperrors.ErrNotFound)
  }
  if template.ProductID != productID {
    return nil, fmt.Errorf("%w: template %s does not belong to product %s", apperrors.ErrInvalidArgument, templateID, productID)
  }

  custom := &types.Customization{
    ID:            uuid.New(),
    ProductID:     productID,
    TemplateID:    templateID,
    CustomerEmail: customerEmail,
    Status:        "draft",
    Assignments:   datatypes.JSON([]byte(`[]`)),
  }
  if _, err := cs.customizationRepo.Create(ctx, nil, []*types.Customization{custom}); err != nil {
    return nil, fmt.Errorf("Failed to create customization: %w", err)
  }
  cs.log.Info("Customization draft created", "customizationID", custom.ID, "templateID", templateID)
  return custom, nil
}

func (cs *customizationService) GetByID(ctx context.Context, id uuid.UUID) (*types.Customization, error) {
  return cs.customizationRepo.GetByID(ctx, nil, id)
}

func (cs *customizationService) UpdateAssignments(ctx context.Context, id uuid.UUID, assignmentsJSON []byte, giftMessage *string) (*types.Customization, error) {
  custom, err := cs.customizationRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("Failed to load customization: %w", err)
  }
  if custom == nil {
    return nil, nil
  }
  if custom.Status != "draft" {
    return nil, fmt.Errorf("%w: customization %s is already finalized", apperrors.ErrConflict, id)
  }

  updates := map[string]interface{}{}

  if assignmentsJSON != nil {
    assignments, err := composer.ParseAssignments(assignmentsJSON)
    if err != nil {
      return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
    }
    if err := cs.checkAssignments(ctx, custom, assignments); err != nil {
      return nil, err
    }
    updates["assignments"] = datatypes.JSON(assignmentsJSON)
  }

  if giftMessage != nil {
    message := strings.TrimSpace(*giftMessage)
    if len(message) > maxGiftMessageLen {
      return nil, fmt.Errorf("%w: gift message is longer than %d characters", apperrors.ErrInvalidArgument, maxGiftMessageLen)
    }
    updates["gift_message"] = message
  }

  if len(updates) == 0 {
    return custom, nil
  }
  if err := cs.customizationRepo.UpdateFields(ctx, nil, id, updates); err != nil {
    return nil, fmt.Errorf("Failed to update customization: %w", err)
  }
  return cs.customizationRepo.GetByID(ctx, nil, id)
}

func (cs *customizationService) Delete(ctx context.Context, id uuid.UUID) error {
  custom, err := cs.customizationRepo.GetByID(ctx, nil, id)
  if err != nil {
    return fmt.Errorf("Failed to load customization: %w", err)
  }
  if custom == nil {
    return fmt.Errorf("Customization %s %w", id, apperrors.ErrNotFound)
  }
  if custom.Status != "draft" {
    return fmt.Errorf("%w: customization %s is already finalized", apperrors.ErrConflict, id)
  }
  return cs.customizationRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id})
}

// checkAssignments verifies every assignment targets a slot the
// template declares and an upload owned by this customization. Broken
// files surface later at compose time as skipped slots; broken
// references are caught here.
func (cs *customizationService) checkAssignments(ctx context.Context, custom *types.Customization, assignments []composer.ImageSlotAssignment) error {
  if len(assignments) == 0 {
    return nil
  }

  template, err := cs.templateRepo.GetByID(ctx, nil, custom.TemplateID)
  if err != nil {
    return fmt.Errorf("Failed to load template: %w", err)
  }
  if template == nil {
    return fmt.Errorf("Template %s not found", custom.TemplateID)
  }
  slots, err := composer.ParseSlots(template.Slots)
  if err != nil {
    return fmt.Errorf("Template %s has invalid slots: %w", custom.TemplateID, err)
  }
  slotIDs := make(map[string]bool, len(slots))
  for _, s := range slots {
    slotIDs[s.ID] = true
  }

  keys := make([]string, 0, len(assignments))
  for _, a := range assignments {
    if !slotIDs[a.SlotID] {
      return fmt.Errorf("%w: slot %q does not exist on template %s", apperrors.ErrInvalidArgument, a.SlotID, custom.TemplateID)
    }
    keys = append(keys, a.ImagePath)
  }

  uploads, err := cs.uploadRepo.GetByStorageKeys(ctx, nil, keys)
  if err != nil {
    return fmt.Errorf("Failed to load uploads: %w", err)
  }
  owned := make(map[string]bool, len(uploads))
  for _, u := range uploads {
    if u != nil && u.CustomizationID == custom.ID {
      owned[u.StorageKey] = true
    }
  }
  for _, a := range assignments {
    if !owned[a.ImagePath] {
      return fmt.Errorf("%w: image %q is not an upload of this customization", apperrors.ErrInvalidArgument, a.ImagePath)
    }
  }
  return nil
}
