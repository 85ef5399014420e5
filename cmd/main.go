package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/utils"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/db"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/composer"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/repos"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/handlers"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/middleware"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 43200, log)
  adminEmail := utils.GetEnv("ADMIN_EMAIL", "", log)
  adminPasswordHash := utils.GetEnv("ADMIN_PASSWORD_HASH", "", log)

  //Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  productRepo := repos.NewProductRepo(thePG, log)
  templateRepo := repos.NewLayoutTemplateRepo(thePG, log)
  customizationRepo := repos.NewCustomizationRepo(thePG, log)
  uploadRepo := repos.NewUploadRepo(thePG, log)
  renderJobRepo := repos.NewRenderJobRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  mediaStore, err := services.NewMediaStore(log)
  if err != nil {
    log.Error("Could not init MediaStore", "error", err)
    os.Exit(1)
  }
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Warn("Could not init BucketService", "error", err)
  }
  previewCache, err := services.NewPreviewCache(log)
  if err != nil {
    log.Warn("Could not init PreviewCache", "error", err)
  }
  giftCardService, err := services.NewGiftCardService(log)
  if err != nil {
    log.Warn("Could not init GiftCardService", "error", err)
  }
  authService, err := services.NewAuthService(log, adminEmail, adminPasswordHash, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
  if err != nil {
    log.Error("Could not init AuthService", "error", err)
    os.Exit(1)
  }
  compositor := composer.NewCompositor(log)
  productService := services.NewProductService(log, productRepo, mediaStore)
  templateService := services.NewTemplateService(log, productRepo, templateRepo, mediaStore)
  customizationService := services.NewCustomizationService(log, productRepo, templateRepo, customizationRepo, uploadRepo)
  uploadService := services.NewUploadService(log, customizationRepo, uploadRepo, mediaStore)
  renderService := services.NewRenderService(
    thePG,
    log,
    compositor,
    mediaStore,
    bucketService,
    previewCache,
    giftCardService,
    customizationRepo,
    templateRepo,
    renderJobRepo,
  )
  renderService.StartWorker(context.Background())

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  productHandler := handlers.NewProductHandler(log, productService)
  templateHandler := handlers.NewTemplateHandler(log, templateService)
  customizationHandler := handlers.NewCustomizationHandler(log, customizationService, uploadService)
  uploadHandler := handlers.NewUploadHandler(log, uploadService)
  renderHandler := handlers.NewRenderHandler(log, renderService, renderJobRepo)
  giftCardHandler := handlers.NewGiftCardHandler(log, giftCardService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:          authHandler,
    AuthMiddleware:       authMiddleware,
    ProductHandler:       productHandler,
    TemplateHandler:      templateHandler,
    CustomizationHandler: customizationHandler,
    UploadHandler:        uploadHandler,
    RenderHandler:        renderHandler,
    GiftCardHandler:      giftCardHandler,
    MediaRoot:            mediaStore.Root(),
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed: %v", err)
  }
}
