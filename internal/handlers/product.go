package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/http/response"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/services"
	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/types"
)

type ProductHandler struct {
	log            *logger.Logger
	productService services.ProductService
}

func NewProductHandler(log *logger.Logger, productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		log:            log.With("handler", "ProductHandler"),
		productService: productService,
	}
}

// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListActive(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_products", err)
		return
	}
	response.RespondOK(c, gin.H{"products": products})
}

// GET /api/products/:id
// Accepts a product id or a slug, so storefront URLs stay readable.
func (h *ProductHandler) Get(c *gin.Context) {
	param := c.Param("id")

	var product *types.Product
	var err error
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		product, err = h.productService.GetByID(c.Request.Context(), id)
	} else {
		product, err = h.productService.GetBySlug(c.Request.Context(), param)
	}
	if err != nil {
		respondServiceError(c, h.log, "load_product", err)
		return
	}
	if product == nil {
		response.RespondError(c, http.StatusNotFound, "product_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"product": product})
}

// POST /api/admin/products
// body: { "name": "...", "description": "...", "price_cents": 14990, "slug": "...", "metadata": { ... } }
func (h *ProductHandler) Create(c *gin.Context) {
	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		PriceCents  int             `json:"price_cents"`
		Slug        string          `json:"slug"`
		Metadata    json.RawMessage `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	product := &types.Product{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Slug:        req.Slug,
	}
	if len(req.Metadata) > 0 {
		product.Metadata = datatypes.JSON(req.Metadata)
	}

	created, err := h.productService.Create(c.Request.Context(), product)
	if err != nil {
		respondServiceError(c, h.log, "create_product", err)
		return
	}
	response.RespondCreated(c, gin.H{"product": created})
}

// PUT /api/admin/products/:id
// body: any of { "name", "description", "price_cents", "active", "metadata" }
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, updates)
	if err != nil {
		respondServiceError(c, h.log, "update_product", err)
		return
	}
	if product == nil {
		response.RespondError(c, http.StatusNotFound, "product_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"product": product})
}

// POST /api/admin/products/:id/image (multipart/form-data)
// field: "file"
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "open_file_failed", err)
		return
	}
	defer f.Close()

	product, err := h.productService.AttachImage(c.Request.Context(), id, fh.Filename, f)
	if err != nil {
		respondServiceError(c, h.log, "upload_product_image", err)
		return
	}
	if product == nil {
		response.RespondError(c, http.StatusNotFound, "product_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"product": product})
}

// DELETE /api/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "delete_product", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
