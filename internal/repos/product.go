package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

type ProductRepo interface {
  Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Product, error)
  GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Product, error)
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Product, error)
  Update(ctx context.Context, tx *gorm.DB, product *types.Product) error
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type productRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
  repoLog := baseLog.With("repo", "ProductRepo")
  return &productRepo{db: db, log: repoLog}
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(products) == 0 {
    return []*types.Product{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&products).Error; err != nil {
    return nil, err
  }
  return products, nil
}

func (r *productRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.Product
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

func (r *productRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Product, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Product
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

func (r *productRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Product, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if slug == "" {
    return nil, nil
  }

  var result types.Product
  err := transaction.WithContext(ctx).
    Where("slug = ?", slug).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *productRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Product, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Product
  if err := transaction.WithContext(ctx).
    Where("active = ?", true).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *productRepo) Update(ctx context.Context, tx *gorm.DB, product *types.Product) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if product == nil || product.ID == uuid.Nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(product).Error
}

func (r *productRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil || len(updates) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Model(&types.Product{}).
    Where("id = ?", id).
    Updates(updates).Error
}

func (r *productRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.Product{}).Error; err != nil {
    return err
  }
  return nil
}

func (r *productRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
    Delete(&types.Product{}).Error; err != nil {
    return err
  }
  return nil
}
