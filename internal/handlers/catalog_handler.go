package handlers

import (
	"errors"
	"net/http"

	"pizza_store/internal/models"
	"pizza_store/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type productRequest struct {
	Name        string    `json:"name" binding:"required"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
}

type productVariantRequest struct {
	Name        string          `json:"name" binding:"required"`
	Weight      decimal.Decimal `json:"weight"`
	WeightUnits string          `json:"weight_units"`
	Price       decimal.Decimal `json:"price"`
}

// Category endpoints

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.Category{Name: req.Name}
	if err := h.catalogService.CreateCategory(c.Request.Context(), category); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": category.ID})
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.GetCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.Category{ID: id, Name: req.Name}
	if err := h.catalogService.UpdateCategory(c.Request.Context(), category); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Product endpoints

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := &models.Product{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := h.catalogService.CreateProduct(c.Request.Context(), product); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": product.ID})
}

func (h *CatalogHandler) GetProducts(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		categoryID = &id
	}

	products, err := h.catalogService.GetProducts(c.Request.Context(), categoryID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := &models.Product{
		ID:          id,
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := h.catalogService.UpdateProduct(c.Request.Context(), product); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Product variant endpoints

func (h *CatalogHandler) CreateProductVariant(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req productVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}

	variant := &models.ProductVariant{
		ProductID:   productID,
		Name:        req.Name,
		Weight:      req.Weight,
		WeightUnits: req.WeightUnits,
		Price:       req.Price,
	}
	if err := h.catalogService.CreateProductVariant(c.Request.Context(), variant); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": variant.ID})
}

func (h *CatalogHandler) UpdateProductVariant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product variant ID"})
		return
	}

	var req productVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}

	variant := &models.ProductVariant{
		ID:          id,
		Name:        req.Name,
		Weight:      req.Weight,
		WeightUnits: req.WeightUnits,
		Price:       req.Price,
	}
	if err := h.catalogService.UpdateProductVariant(c.Request.Context(), variant); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *CatalogHandler) DeleteProductVariant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product variant ID"})
		return
	}

	if err := h.catalogService.DeleteProductVariant(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *CatalogHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category does not exist."})
	case errors.Is(err, models.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product does not exist."})
	case errors.Is(err, models.ErrProductVariantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product variant does not exist."})
	case errors.Is(err, models.ErrCategoryAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists."})
	case errors.Is(err, models.ErrProductAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Product already exists."})
	case errors.Is(err, models.ErrProductVariantInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Product variant is referenced by orders."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
