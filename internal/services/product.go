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

type ProductService interface {
  Create(ctx context.Context, product *types.Product) (*types.Product, error)
  GetByID(ctx context.Context, id uuid.UUID) (*types.Product, error)
  GetBySlug(ctx context.Context, slug string) (*types.Product, error)
  ListActive(ctx context.Context) ([]*types.Product, error)
  Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Product, error)
  AttachImage(ctx context.Context, id uuid.UUID, originalName string, file io.Reader) (*types.Product, error)
  Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
  log         *logger.Logger
  productRepo repos.ProductRepo
  mediaStore  MediaStore
}

func NewProductService(log *logger.Logger, productRepo repos.ProductRepo, mediaStore MediaStore) ProductService {
  serviceLog := log.With("service", "ProductService")
  return &productService{
    log:         serviceLog,
    productRepo: productRepo,
    mediaStore:  mediaStore,
  }
}

func (ps *productService) Create(ctx context.Context, product *types.Product) (*types.Product, error) {
  if product == nil {
    return nil, fmt.Errorf("%w: product payload is required", apperrors.ErrInvalidArgument)
  }
  product.Name = strings.TrimSpace(product.Name)
  if product.Name == "" {
    return nil, fmt.Errorf("%w: product name is required", apperrors.ErrInvalidArgument)
  }
  if product.PriceCents < 0 {
    return nil, fmt.Errorf("%w: product price cannot be negative", apperrors.ErrInvalidArgument)
  }
  if product.Slug == "" {
    product.Slug = Slugify(product.Name)
  }
  if product.Slug == "" {
    return nil, fmt.Errorf("%w: product slug is required", apperrors.ErrInvalidArgument)
  }

  existing, err := ps.productRepo.GetBySlug(ctx, nil, product.Slug)
  if err != nil {
    return nil, fmt.Errorf("Failed to check product slug: %w", err)
  }
  if existing != nil {
    return nil, fmt.Errorf("%w: product slug %q already in use", apperrors.ErrConflict, product.Slug)
  }

  if product.ID == uuid.Nil {
    product.ID = uuid.New()
  }
  if len(product.Metadata) == 0 {
    product.Metadata = datatypes.JSON([]byte(`{}`))
  }

  created, err := ps.productRepo.Create(ctx, nil, []*types.Product{product})
  if err != nil {
    return nil, fmt.Errorf("Failed to create product: %w", err)
  }
  ps.log.Info("Product created", "productID", product.ID, "slug", product.Slug)
  return created[0], nil
}

func (ps *productService) GetByID(ctx context.Context, id uuid.UUID) (*types.Product, error) {
  return ps.productRepo.GetByID(ctx, nil, id)
}

func (ps *productService) GetBySlug(ctx context.Context, slug string) (*types.Product, error) {
  return ps.productRepo.GetBySlug(ctx, nil, strings.TrimSpace(slug))
}

func (ps *productService) ListActive(ctx context.Context) ([]*types.Product, error) {
  return ps.productRepo.ListActive(ctx, nil)
}

func (ps *productService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Product, error) {
  product, err := ps.productRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("Failed to load product: %w", err)
  }
  if product == nil {
    return nil, nil
  }

  allowed := map[string]bool{
    "name":        true,
    "description": true,
    "price_cents": true,
    "active":      true,
    "metadata":    true,
  }
  filtered := map[string]interface{}{}
  for k, v := range updates {
    if allowed[k] {
      filtered[k] = v
    }
  }
  if len(filtered) == 0 {
    return product, nil
  }

  if err := ps.productRepo.UpdateFields(ctx, nil, id, filtered); err != nil {
    return nil, fmt.Errorf("Failed to update product: %w", err)
  }
  return ps.productRepo.GetByID(ctx, nil, id)
}

func (ps *productService) AttachImage(ctx context.Context, id uuid.UUID, originalName string, file io.Reader) (*types.Product, error) {
  product, err := ps.productRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("Failed to load product: %w", err)
  }
  if product == nil {
    return nil, nil
  }

  raw, err := io.ReadAll(file)
  if err != nil {
    return nil, fmt.Errorf("Failed to read product image: %w", err)
  }

  oldKey := strings.TrimSpace(product.ImageStorageKey)
  newKey := ps.mediaStore.ProductKey(id, originalName)
  if _, err := ps.mediaStore.SaveFile(newKey, bytes.NewReader(raw)); err != nil {
    return nil, fmt.Errorf("Failed to store product image: %w", err)
  }

  if _, _, err := composer.ProbeDimensions(ps.mediaStore.AbsPath(newKey)); err != nil {
    _ = ps.mediaStore.DeleteFile(newKey)
    return nil, fmt.Errorf("%w: product image is not decodable: %v", apperrors.ErrInvalidArgument, err)
  }

  if err := ps.productRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
    "image_storage_key": newKey,
    "image_url":         ps.mediaStore.PublicURL(newKey),
  }); err != nil {
    return nil, fmt.Errorf("Failed to update product image: %w", err)
  }

  // Best-effort delete old AFTER the row points at the new one
  if oldKey != "" && oldKey != newKey {
    if err := ps.mediaStore.DeleteFile(oldKey); err != nil {
      ps.log.Warn("failed to delete old product image (ignored)", "oldKey", oldKey, "error", err)
    }
  }

  return ps.productRepo.GetByID(ctx, nil, id)
}

func (ps *productService) Delete(ctx context.Context, id uuid.UUID) error {
  return ps.productRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id})
}

// Slugify lowercases and dash-joins a product name. Accented
// characters common in Portuguese names are transliterated.
func Slugify(name string) string {
  replacer := strings.NewReplacer(
    "á", "a", "à", "a", "ã", "a", "â", "a",
    "é", "e", "ê", "e",
    "í", "i",
    "ó", "o", "õ", "o", "ô", "o",
    "ú", "u", "ü", "u",
    "ç", "c",
  )
  name = replacer.Replace(strings.ToLower(strings.TrimSpace(name)))

  var b strings.Builder
  lastDash := true
  for _, r := range name {
    switch {
    case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
      b.WriteRune(r)
      lastDash = false
    default:
      if !lastDash {
        b.WriteByte('-')
        lastDash = true
      }
    }
  }
  return strings.Trim(b.String(), "-")
}
