package public

import (
	"strings"

	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, categories)
}

// GetProducts 菜品列表，支持 q 关键字与 category 过滤
func (h *Handler) GetProducts(c *gin.Context) {
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

// GetFeaturedProducts 推荐菜品
func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	products, err := h.ProductService.Featured(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, products)
}

// GetGroupedProducts 按分类分组的菜单
func (h *Handler) GetGroupedProducts(c *gin.Context) {
	groups, err := h.ProductService.Grouped(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, groups)
}

// GetProduct 菜品详情
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, product)
}
