package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

type LayoutTemplateRepo interface {
  Create(ctx context.Context, tx *gorm.DB, templates []*types.LayoutTemplate) ([]*types.LayoutTemplate, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LayoutTemplate, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.LayoutTemplate, error)
  GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.LayoutTemplate, error)
  ListActiveByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.LayoutTemplate, error)
  Update(ctx context.Context, tx *gorm.DB, template *types.LayoutTemplate) error
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type layoutTemplateRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLayoutTemplateRepo(db *gorm.DB, baseLog *logger.Logger) LayoutTemplateRepo {
  repoLog := baseLog.With("repo", "LayoutTemplateRepo")
  return &layoutTemplateRepo{db: db, log: repoLog}
}

func (r *layoutTemplateRepo) Create(ctx context.Context, tx *gorm.DB, templates []*types.LayoutTemplate) ([]*types.LayoutTemplate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(templates) == 0 {
    return []*types.LayoutTemplate{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&templates).Error; err != nil {
    return nil, err
  }
  return templates, nil
}

func (r *layoutTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LayoutTemplate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.LayoutTemplate
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

func (r *layoutTemplateRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.LayoutTemplate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.LayoutTemplate
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

func (r *layoutTemplateRepo) GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.LayoutTemplate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.LayoutTemplate
  if productID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("product_id = ?", productID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *layoutTemplateRepo) ListActiveByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.LayoutTemplate, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.LayoutTemplate
  if productID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("product_id = ? AND active = ?", productID, true).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *layoutTemplateRepo) Update(ctx context.Context, tx *gorm.DB, template *types.LayoutTemplate) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if template == nil || template.ID == uuid.Nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(template).Error
}

func (r *layoutTemplateRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil || len(updates) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(&types.LayoutTemplate{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (r *layoutTemplateRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.LayoutTemplate{}).Error; err != nil {
    return err
  }
  return nil
}

func (r *layoutTemplateRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
    Delete(&types.LayoutTemplate{}).Error; err != nil {
    return err
  }
  return nil
}
