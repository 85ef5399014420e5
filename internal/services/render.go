package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/composer"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
  apperrors "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/pkg/errors"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/repos"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

// RenderService drives the two composition flows: synchronous previews
// for the storefront editor and the queued production render that runs
// after checkout.
type RenderService interface {
  Preview(ctx context.Context, customizationID uuid.UUID, maxWidth int) ([]byte, error)
  Checkout(ctx context.Context, customizationID uuid.UUID) (*types.RenderJob, error)
  Status(ctx context.Context, customizationID uuid.UUID) (*types.RenderJob, error)
  Retry(ctx context.Context, jobID uuid.UUID) (*types.RenderJob, error)
  StartWorker(ctx context.Context)
}

type renderService struct {
  db                *gorm.DB
  log               *logger.Logger
  compositor        composer.Compositor
  mediaStore        MediaStore
  bucket            BucketService   // optional, nil when GCS is not configured
  previewCache      PreviewCache    // optional, nil when redis is not configured
  giftCards         GiftCardService // optional, nil when CARD_FONT is not configured
  customizationRepo repos.CustomizationRepo
  templateRepo      repos.LayoutTemplateRepo
  jobRepo           repos.RenderJobRepo
}

func NewRenderService(
  db *gorm.DB,
  log *logger.Logger,
  compositor composer.Compositor,
  mediaStore MediaStore,
  bucket BucketService,
  previewCache PreviewCache,
  giftCards GiftCardService,
  customizationRepo repos.CustomizationRepo,
  templateRepo repos.LayoutTemplateRepo,
  jobRepo repos.RenderJobRepo,
) RenderService {
  serviceLog := log.With("service", "RenderService")
  return &renderService{
    db:                db,
    log:               serviceLog,
    compositor:        compositor,
    mediaStore:        mediaStore,
    bucket:            bucket,
    previewCache:      previewCache,
    giftCards:         giftCards,
    customizationRepo: customizationRepo,
    templateRepo:      templateRepo,
    jobRepo:           jobRepo,
  }
}

// composition is everything loadComposition resolves for one render:
// the rows plus slot definitions and assignments with absolute paths.
type composition struct {
  custom      *types.Customization
  template    *types.LayoutTemplate
  basePath    string
  slots       []composer.SlotDefinition
  assignments []composer.ImageSlotAssignment
}

func (rs *renderService) loadComposition(ctx context.Context, customizationID uuid.UUID) (*composition, error) {
  custom, err := rs.customizationRepo.GetByID(ctx, nil, customizationID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load customization: %w", err)
  }
  if custom == nil {
    return nil, fmt.Errorf("Customization %s %w", customizationID, apperrors.ErrNotFound)
  }

  template, err := rs.templateRepo.GetByID(ctx, nil, custom.TemplateID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load template: %w", err)
  }
  if template == nil {
    return nil, fmt.Errorf("Template %s %w", custom.TemplateID, apperrors.ErrNotFound)
  }

  slots, err := composer.ParseSlots(template.Slots)
  if err != nil {
    return nil, fmt.Errorf("Template %s has invalid slots: %w", template.ID, err)
  }
  assignments, err := composer.ParseAssignments(custom.Assignments)
  if err != nil {
    return nil, fmt.Errorf("Customization %s has invalid assignments: %w", custom.ID, err)
  }

  // Assignments store media keys; the compositor wants file paths.
  resolved := make([]composer.ImageSlotAssignment, len(assignments))
  for i, a := range assignments {
    resolved[i] = composer.ImageSlotAssignment{
      SlotID:    a.SlotID,
      ImagePath: rs.mediaStore.AbsPath(a.ImagePath),
    }
  }

  return &composition{
    custom:      custom,
    template:    template,
    basePath:    rs.mediaStore.AbsPath(template.BaseStorageKey),
    slots:       slots,
    assignments: resolved,
  }, nil
}

func (rs *renderService) Preview(ctx context.Context, customizationID uuid.UUID, maxWidth int) ([]byte, error) {
  if maxWidth <= 0 {
    maxWidth = composer.DefaultPreviewMaxWidth
  }

  comp, err := rs.loadComposition(ctx, customizationID)
  if err != nil {
    return nil, err
  }

  cacheKey := PreviewCacheKey(
    comp.template.ID.String()+"|"+comp.template.BaseStorageKey,
    comp.custom.Assignments,
    maxWidth,
  )
  if rs.previewCache != nil {
    if png, ok := rs.previewCache.Get(ctx, cacheKey); ok {
      return png, nil
    }
  }

  result, err := rs.compositor.Preview(ctx, comp.basePath, comp.template.BaseWidth, comp.template.BaseHeight, comp.slots, comp.assignments, maxWidth)
  if err != nil {
    return nil, err
  }
  if len(result.SkippedSlots) > 0 {
    rs.log.Warn("Preview rendered with skipped slots", "customizationID", customizationID, "skipped", result.SkippedSlots)
  }

  if rs.previewCache != nil {
    rs.previewCache.Set(ctx, cacheKey, result.Buffer)
  }
  rs.persistPreview(ctx, comp.custom, result.Buffer)

  return result.Buffer, nil
}

// persistPreview keeps the latest preview on disk so the storefront
// can show it again without re-rendering. Failures only log.
func (rs *renderService) persistPreview(ctx context.Context, custom *types.Customization, png []byte) {
  oldKey := strings.TrimSpace(custom.PreviewStorageKey)
  newKey := rs.mediaStore.RenderKey(custom.ID, "preview.png")
  if _, err := rs.mediaStore.SaveFile(newKey, bytes.NewReader(png)); err != nil {
    rs.log.Warn("failed to persist preview (ignored)", "customizationID", custom.ID, "error", err)
    return
  }
  if err := rs.customizationRepo.UpdateFields(ctx, nil, custom.ID, map[string]interface{}{
    "preview_storage_key": newKey,
    "preview_url":         rs.mediaStore.PublicURL(newKey),
  }); err != nil {
    rs.log.Warn("failed to point customization at preview (ignored)", "customizationID", custom.ID, "error", err)
    return
  }
  if oldKey != "" && oldKey != newKey {
    if err := rs.mediaStore.DeleteFile(oldKey); err != nil {
      rs.log.Warn("failed to delete old preview (ignored)", "oldKey", oldKey, "error", err)
    }
  }
}

func (rs *renderService) Checkout(ctx context.Context, customizationID uuid.UUID) (*types.RenderJob, error) {
  custom, err := rs.customizationRepo.GetByID(ctx, nil, customizationID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load customization: %w", err)
  }
  if custom == nil {
    return nil, fmt.Errorf("Customization %s %w", customizationID, apperrors.ErrNotFound)
  }
  if custom.Status != "draft" {
    return nil, fmt.Errorf("%w: customization %s is already finalized", apperrors.ErrConflict, customizationID)
  }

  assignments, err := composer.ParseAssignments(custom.Assignments)
  if err != nil {
    return nil, fmt.Errorf("Customization %s has invalid assignments: %w", custom.ID, err)
  }
  if len(assignments) == 0 {
    return nil, fmt.Errorf("%w: customization %s has no images assigned", apperrors.ErrInvalidArgument, customizationID)
  }

  template, err := rs.templateRepo.GetByID(ctx, nil, custom.TemplateID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load template: %w", err)
  }
  if template == nil {
    return nil, fmt.Errorf("Template %s %w", custom.TemplateID, apperrors.ErrNotFound)
  }

  var job *types.RenderJob
  err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := rs.customizationRepo.UpdateFields(ctx, tx, custom.ID, map[string]interface{}{
      "status": "finalized",
    }); err != nil {
      return fmt.Errorf("finalize customization: %w", err)
    }

    now := time.Now()
    job = &types.RenderJob{
      ID:              uuid.New(),
      CustomizationID: custom.ID,
      Kind:            "production",
      Status:          "queued",
      Attempts:        0,
      Width:           template.BaseWidth,
      Height:          template.BaseHeight,
      Metadata:        datatypes.JSON([]byte(`{}`)),
      CreatedAt:       now,
      UpdatedAt:       now,
    }
    if _, err := rs.jobRepo.Create(ctx, tx, []*types.RenderJob{job}); err != nil {
      return fmt.Errorf("create render job: %w", err)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  rs.log.Info("Render job enqueued", "jobID", job.ID, "customizationID", custom.ID)
  return job, nil
}

func (rs *renderService) Status(ctx context.Context, customizationID uuid.UUID) (*types.RenderJob, error) {
  return rs.jobRepo.GetLatestByCustomizationID(ctx, nil, customizationID, "production")
}

// Retry re-queues a failed job with a fresh attempt budget. Running
// jobs are left alone; the worker reclaims them through the heartbeat.
func (rs *renderService) Retry(ctx context.Context, jobID uuid.UUID) (*types.RenderJob, error) {
  job, err := rs.jobRepo.GetByID(ctx, nil, jobID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load render job: %w", err)
  }
  if job == nil {
    return nil, fmt.Errorf("Render job %s %w", jobID, apperrors.ErrNotFound)
  }
  if job.Status == "running" {
    return nil, fmt.Errorf("%w: render job %s is still running", apperrors.ErrConflict, jobID)
  }
  if job.Status == "succeeded" {
    return nil, fmt.Errorf("%w: render job %s already succeeded", apperrors.ErrConflict, jobID)
  }

  if err := rs.jobRepo.UpdateFields(ctx, nil, jobID, map[string]interface{}{
    "status":        "queued",
    "attempts":      0,
    "error":         "",
    "last_error_at": nil,
    "locked_at":     nil,
    "heartbeat_at":  nil,
  }); err != nil {
    return nil, fmt.Errorf("Failed to re-queue render job: %w", err)
  }
  rs.log.Info("Render job re-queued", "jobID", jobID)
  return rs.jobRepo.GetByID(ctx, nil, jobID)
}

func (rs *renderService) StartWorker(ctx context.Context) {
  go func() {
    ticker := time.NewTicker(1 * time.Second)
    defer ticker.Stop()

    // Worker policy
    const maxAttempts = 5
    retryDelay := 30 * time.Second
    staleRunning := 2 * time.Minute

    for {
      select {
      case <-ctx.Done():
        return
      case <-ticker.C:
        job, err := rs.jobRepo.ClaimNextRunnable(ctx, rs.db, maxAttempts, retryDelay, staleRunning)
        if err != nil {
          rs.log.Warn("ClaimNextRunnable failed", "error", err)
          continue
        }
        if job == nil {
          continue
        }
        rs.processJob(ctx, job)
      }
    }
  }()
}

func (rs *renderService) processJob(ctx context.Context, job *types.RenderJob) {
  jobID := job.ID

  fail := func(err error) {
    now := time.Now()
    _ = rs.jobRepo.UpdateFields(ctx, nil, jobID, map[string]any{
      "status":        "failed",
      "error":         err.Error(),
      "last_error_at": now,
      "locked_at":     nil,
      "updated_at":    now,
    })
    rs.log.Warn("Render job failed", "jobID", jobID, "error", err)
  }

  comp, err := rs.loadComposition(ctx, job.CustomizationID)
  if err != nil {
    fail(err)
    return
  }

  _ = rs.jobRepo.Heartbeat(ctx, nil, jobID)

  result, err := rs.compositor.Compose(ctx, comp.basePath, comp.template.BaseWidth, comp.template.BaseHeight, comp.slots, comp.assignments)
  if err != nil {
    fail(fmt.Errorf("compose: %w", err))
    return
  }

  outputKey := rs.mediaStore.RenderKey(comp.custom.ID, "final.png")
  if _, err := rs.mediaStore.SaveFile(outputKey, bytes.NewReader(result.Buffer)); err != nil {
    fail(fmt.Errorf("store render: %w", err))
    return
  }
  outputURL := rs.mediaStore.PublicURL(outputKey)

  if rs.bucket != nil {
    if err := rs.bucket.UploadFile(ctx, outputKey, bytes.NewReader(result.Buffer)); err != nil {
      rs.log.Warn("failed to mirror render to bucket (ignored)", "jobID", jobID, "error", err)
    } else {
      outputURL = rs.bucket.GetPublicURL(outputKey)
    }
  }

  metadata := map[string]any{
    "skipped_slots": result.SkippedSlots,
  }

  // The printable message card rides along with the production render.
  if message := strings.TrimSpace(comp.custom.GiftMessage); message != "" && rs.giftCards != nil {
    card, err := rs.giftCards.Render(message, "")
    if err != nil {
      rs.log.Warn("failed to render gift card (ignored)", "jobID", jobID, "error", err)
    } else {
      cardKey := rs.mediaStore.RenderKey(comp.custom.ID, "card.png")
      if _, err := rs.mediaStore.SaveFile(cardKey, bytes.NewReader(card.Bytes())); err != nil {
        rs.log.Warn("failed to store gift card (ignored)", "jobID", jobID, "error", err)
      } else {
        metadata["gift_card_key"] = cardKey
        metadata["gift_card_url"] = rs.mediaStore.PublicURL(cardKey)
        if rs.bucket != nil {
          if err := rs.bucket.UploadFile(ctx, cardKey, bytes.NewReader(card.Bytes())); err != nil {
            rs.log.Warn("failed to mirror gift card to bucket (ignored)", "jobID", jobID, "error", err)
          } else {
            metadata["gift_card_url"] = rs.bucket.GetPublicURL(cardKey)
          }
        }
      }
    }
  }

  now := time.Now()
  if err := rs.jobRepo.UpdateFields(ctx, nil, jobID, map[string]any{
    "status":             "succeeded",
    "error":              "",
    "output_storage_key": outputKey,
    "output_url":         outputURL,
    "width":              result.Width,
    "height":             result.Height,
    "metadata":           datatypes.JSON(mustJSON(metadata)),
    "locked_at":          nil,
    "updated_at":         now,
  }); err != nil {
    rs.log.Warn("failed to mark render job succeeded", "jobID", jobID, "error", err)
    return
  }

  rs.log.Info("Render job succeeded", "jobID", jobID, "customizationID", comp.custom.ID,
    "output", outputKey, "skipped", len(result.SkippedSlots))
}

func mustJSON(v any) []byte {
  b, err := json.Marshal(v)
  if err != nil {
    return []byte(`{}`)
  }
  return b
}
