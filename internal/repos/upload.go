package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

type UploadRepo interface {
  Create(ctx context.Context, tx *gorm.DB, uploads []*types.Upload) ([]*types.Upload, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Upload, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Upload, error)
  GetByCustomizationID(ctx context.Context, tx *gorm.DB, customizationID uuid.UUID) ([]*types.Upload, error)
  GetByStorageKeys(ctx context.Context, tx *gorm.DB, keys []string) ([]*types.Upload, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type uploadRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUploadRepo(db *gorm.DB, baseLog *logger.Logger) UploadRepo {
  repoLog := baseLog.With("repo", "UploadRepo")
  return &uploadRepo{db: db, log: repoLog}
}

func (r *uploadRepo) Create(ctx context.Context, tx *gorm.DB, uploads []*types.Upload) ([]*types.Upload, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(uploads) == 0 {
    return []*types.Upload{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&uploads).Error; err != nil {
    return nil, err
  }
  return uploads, nil
}

func (r *uploadRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Upload, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.Upload
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

func (r *uploadRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Upload, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Upload
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

func (r *uploadRepo) GetByCustomizationID(ctx context.Context, tx *gorm.DB, customizationID uuid.UUID) ([]*types.Upload, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Upload
  if customizationID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("customization_id = ?", customizationID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *uploadRepo) GetByStorageKeys(ctx context.Context, tx *gorm.DB, keys []string) ([]*types.Upload, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Upload
  if len(keys) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("storage_key IN ?", keys).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *uploadRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil || len(updates) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(&types.Upload{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (r *uploadRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Upload{}).Error; err != nil {
    return err
  }
  return nil
}

func (r *uploadRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
    Delete(&types.Upload{}).Error; err != nil {
    return err
  }
  return nil
}
