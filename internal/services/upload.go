package services

import (
  "context"
  "errors"
  "fmt"
  "mime/multipart"
  "strings"
  "github.com/google/uuid"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/composer"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
  apperrors "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/pkg/errors"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/repos"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/utils"
)

// ErrUploadRejected marks quality failures so handlers can answer 422
// instead of 500.
var ErrUploadRejected = errors.New("upload rejected")

type UploadService interface {
  Ingest(ctx context.Context, customizationID uuid.UUID, fileHeader *multipart.FileHeader) (*types.Upload, error)
  GetByID(ctx context.Context, id uuid.UUID) (*types.Upload, error)
  ListByCustomization(ctx context.Context, customizationID uuid.UUID) ([]*types.Upload, error)
  Delete(ctx context.Context, id uuid.UUID) error
}

type uploadService struct {
  log               *logger.Logger
  customizationRepo repos.CustomizationRepo
  uploadRepo        repos.UploadRepo
  mediaStore        MediaStore
  limits            composer.QualityLimits
}

func NewUploadService(
  log *logger.Logger,
  customizationRepo repos.CustomizationRepo,
  uploadRepo repos.UploadRepo,
  mediaStore MediaStore,
) UploadService {
  serviceLog := log.With("service", "UploadService")
  limits := composer.QualityLimits{
    MaxSizeMB: utils.GetEnvAsFloat("UPLOAD_MAX_MB", composer.DefaultMaxSizeMB, serviceLog),
    MinWidth:  utils.GetEnvAsInt("UPLOAD_MIN_WIDTH", 400, serviceLog),
    MinHeight: utils.GetEnvAsInt("UPLOAD_MIN_HEIGHT", 400, serviceLog),
  }
  return &uploadService{
    log:               serviceLog,
    customizationRepo: customizationRepo,
    uploadRepo:        uploadRepo,
    mediaStore:        mediaStore,
    limits:            limits,
  }
}

// Ingest stores the file first and validates it on disk, in the same
// order the composer will read it later. Rejected files are removed.
func (us *uploadService) Ingest(ctx context.Context, customizationID uuid.UUID, fileHeader *multipart.FileHeader) (*types.Upload, error) {
  if fileHeader == nil {
    return nil, fmt.Errorf("%w: no file sent", ErrUploadRejected)
  }

  custom, err := us.customizationRepo.GetByID(ctx, nil, customizationID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load customization: %w", err)
  }
  if custom == nil {
    return nil, fmt.Errorf("Customization %s %w", customizationID, apperrors.ErrNotFound)
  }
  if custom.Status != "draft" {
    return nil, fmt.Errorf("%w: customization %s is already finalized", apperrors.ErrConflict, customizationID)
  }

  src, err := fileHeader.Open()
  if err != nil {
    return nil, fmt.Errorf("Failed to open uploaded file: %w", err)
  }
  defer src.Close()

  key := us.mediaStore.UploadKey(customizationID, fileHeader.Filename)
  size, err := us.mediaStore.SaveFile(key, src)
  if err != nil {
    return nil, fmt.Errorf("Failed to store upload: %w", err)
  }

  absPath := us.mediaStore.AbsPath(key)
  verdict := composer.ValidateImage(absPath, us.limits)
  if !verdict.Valid {
    if dErr := us.mediaStore.DeleteFile(key); dErr != nil {
      us.log.Warn("failed to remove rejected upload (ignored)", "key", key, "error", dErr)
    }
    return nil, fmt.Errorf("%w: %s", ErrUploadRejected, verdict.Error)
  }

  width, height, err := composer.ProbeDimensions(absPath)
  if err != nil {
    _ = us.mediaStore.DeleteFile(key)
    return nil, fmt.Errorf("%w: %v", ErrUploadRejected, err)
  }

  upload := &types.Upload{
    ID:              uuid.New(),
    CustomizationID: customizationID,
    OriginalName:    fileHeader.Filename,
    MimeType:        fileHeader.Header.Get("Content-Type"),
    SizeBytes:       size,
    Width:           width,
    Height:          height,
    StorageKey:      key,
    FileURL:         us.mediaStore.PublicURL(key),
    Status:          "validated",
  }
  if _, err := us.uploadRepo.Create(ctx, nil, []*types.Upload{upload}); err != nil {
    _ = us.mediaStore.DeleteFile(key)
    return nil, fmt.Errorf("Failed to create upload: %w", err)
  }

  us.log.Info("Upload accepted", "uploadID", upload.ID, "customizationID", customizationID,
    "size", size, "dims", fmt.Sprintf("%dx%d", width, height))
  return upload, nil
}

func (us *uploadService) GetByID(ctx context.Context, id uuid.UUID) (*types.Upload, error) {
  return us.uploadRepo.GetByID(ctx, nil, id)
}

func (us *uploadService) ListByCustomization(ctx context.Context, customizationID uuid.UUID) ([]*types.Upload, error) {
  return us.uploadRepo.GetByCustomizationID(ctx, nil, customizationID)
}

func (us *uploadService) Delete(ctx context.Context, id uuid.UUID) error {
  upload, err := us.uploadRepo.GetByID(ctx, nil, id)
  if err != nil {
    return fmt.Errorf("Failed to load upload: %w", err)
  }
  if upload == nil {
    return nil
  }
  if err := us.uploadRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
    return fmt.Errorf("Failed to delete upload: %w", err)
  }
  if key := strings.TrimSpace(upload.StorageKey); key != "" {
    if err := us.mediaStore.DeleteFile(key); err != nil {
      us.log.Warn("failed to delete upload file (ignored)", "key", key, "error", err)
    }
  }
  return nil
}
