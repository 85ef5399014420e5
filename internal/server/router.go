package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/handlers"
  "github.com/m4rrec0s/cesto-damore-backend-sub007/internal/middleware"
)

type RouterConfig struct {
  AuthHandler          *handlers.AuthHandler
  AuthMiddleware       *middleware.AuthMiddleware
  ProductHandler       *handlers.ProductHandler
  TemplateHandler      *handlers.TemplateHandler
  CustomizationHandler *handlers.CustomizationHandler
  UploadHandler        *handlers.UploadHandler
  RenderHandler        *handlers.RenderHandler
  GiftCardHandler      *handlers.GiftCardHandler
  MediaRoot            string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  if cfg.MediaRoot != "" {
    router.Static("/media", cfg.MediaRoot)
  }
  api := router.Group("/api")
  {
    api.POST("/admin/login", cfg.AuthHandler.Login)
    // Catalog
    api.GET("/products", cfg.ProductHandler.List)
    api.GET("/products/:id", cfg.ProductHandler.Get)
    api.GET("/products/:id/templates", cfg.TemplateHandler.ListByProduct)
    api.GET("/templates/:id", cfg.TemplateHandler.Get)
    // Customization flow
    api.POST("/customizations", cfg.CustomizationHandler.Create)
    api.GET("/customizations/:id", cfg.CustomizationHandler.Get)
    api.PUT("/customizations/:id/assignments", cfg.CustomizationHandler.UpdateAssignments)
    api.DELETE("/customizations/:id", cfg.CustomizationHandler.Delete)
    api.POST("/customizations/:id/preview", cfg.RenderHandler.Preview)
    api.POST("/customizations/:id/checkout", cfg.RenderHandler.Checkout)
    api.GET("/customizations/:id/render", cfg.RenderHandler.Status)
    api.POST("/uploads", cfg.UploadHandler.Create)
    api.DELETE("/uploads/:id", cfg.UploadHandler.Delete)
    api.GET("/render-jobs/:id", cfg.RenderHandler.GetJob)
    api.POST("/gift-cards/preview", cfg.GiftCardHandler.Preview)
  }

// ===============
// || Admin     ||
// ===============
  admin := router.Group("/api/admin")
  admin.Use(cfg.AuthMiddleware.RequireAdmin())
  // Products
  admin.POST("/products", cfg.ProductHandler.Create)
  admin.PUT("/products/:id", cfg.ProductHandler.Update)
  admin.POST("/products/:id/image", cfg.ProductHandler.UploadImage)
  admin.DELETE("/products/:id", cfg.ProductHandler.Delete)
  // Templates
  admin.POST("/templates", cfg.TemplateHandler.Create)
  admin.PUT("/templates/:id", cfg.TemplateHandler.Update)
  admin.POST("/templates/:id/base", cfg.TemplateHandler.ReplaceBase)
  admin.DELETE("/templates/:id", cfg.TemplateHandler.Delete)
  // Render jobs
  admin.POST("/render-jobs/:id/retry", cfg.RenderHandler.Retry)

  return router
}
