package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

type CustomizationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, customizations []*types.Customization) ([]*types.Customization, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customization, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Customization, error)
  GetByTemplateID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) ([]*types.Customization, error)
  Update(ctx context.Context, tx *gorm.DB, customization *types.Customization) error
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type customizationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCustomizationRepo(db *gorm.DB, baseLog *logger.Logger) CustomizationRepo {
  repoLog := baseLog.With("repo", "CustomizationRepo")
  return &customizationRepo{db: db, log: repoLog}
}

func (r *customizationRepo) Create(ctx context.Context, tx *gorm.DB, customizations []*types.Customization) ([]*types.Customization, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(customizations) == 0 {
    return []*types.Customization{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&customizations).Error; err != nil {
    return nil, err
  }
  return customizations, nil
}

func (r *customizationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Customization, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.Customization
  err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *customizationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Customization, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Customization
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *customizationRepo) GetByTemplateID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) ([]*types.Customization, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Customization
  if templateID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("template_id = ?", templateID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *customizationRepo) Update(ctx context.Context, tx *gorm.DB, customization *types.Customization) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if customization == nil || customization.ID == uuid.Nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(customization).Error
}

func (r *customizationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil || len(updates) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(&types.Customization{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (r *customizationRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Customization{}).Error; err != nil {
    return err
  }
  return nil
}

func (r *customizationRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id IN ?", ids).
    Delete(&types.Customization{}).Error; err != nil {
    return err
  }
  return nil
}
