package admin

import (
	"strings"

	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类请求
type CategoryRequest struct {
	Title string `json:"title" binding:"required"`
	Image string `json:"image"`
}

// ProductRequest 菜品请求
type ProductRequest struct {
	Title         string       `json:"title" binding:"required"`
	Description   string       `json:"description"`
	Image         string       `json:"image"`
	Price         models.Money `json:"price"`
	OriginalPrice models.Money `json:"originalPrice"`
	Category      string       `json:"category"`
	Featured      bool         `json:"featured"`
}

// GetAdminCategories 分类列表
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(c.Request.Context(), service.CategoryInput{Title: req.Title, Image: req.Image})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Update(c.Request.Context(), c.Param("id"), service.CategoryInput{Title: req.Title, Image: req.Image})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.CategoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAdminProducts 菜品列表
func (h *Handler) GetAdminProducts(c *gin.Context) {
	products, err := h.ProductService.List(c.Request.Context(), service.ProductListFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Category: strings.TrimSpace(c.Query("category")),
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, products)
}

// GetAdminProduct 菜品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	product, err := h.ProductService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建菜品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新菜品
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除菜品
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.ProductService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:         r.Title,
		Description:   r.Description,
		Image:         r.Image,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Category:      r.Category,
		Featured:      r.Featured,
	}
}
