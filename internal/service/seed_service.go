package service

import (
	"context"
	"fmt"

	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"

	"github.com/google/uuid"
)

var demoCategories = []struct {
	Title string
	Image string
}{
	{"Starters", "/images/Starters.jpg"},
	{"Pizzas", "/images/Pizza.jpg"},
	{"Burgers", "/images/burgers.jpg"},
	{"Biryani", "/images/Biryani.jpg"},
	{"Desserts", "/images/desserts.jpg"},
	{"Drinks", "/images/Drinks.jpg"},
}

const demoProductsPerCategory = 3

// SeedReport 演示数据写入结果
type SeedReport struct {
	Coupons    int `json:"coupons"`
	Categories int `json:"categories"`
	Products   int `json:"products"`
}

// SeedService 演示数据
type SeedService struct {
	couponAdmin *CouponAdminService
	categories  *CategoryService
	products    *ProductService
}

// NewSeedService 创建演示数据服务
func NewSeedService(couponAdmin *CouponAdminService, categories *CategoryService, products *ProductService) *SeedService {
	return &SeedService{couponAdmin: couponAdmin, categories: categories, products: products}
}

// DemoCategories 演示分类
func DemoCategories() []models.Category {
	out := make([]models.Category, 0, len(demoCategories))
	for _, item := range demoCategories {
		out = append(out, models.Category{ID: uuid.NewString(), Title: item.Title, Image: item.Image})
	}
	return out
}

// DemoProducts 每个分类 3 道菜，第一道为推荐
func DemoProducts() []models.Product {
	out := make([]models.Product, 0, len(demoCategories)*demoProductsPerCategory)
	for _, category := range demoCategories {
		for i := 0; i < demoProductsPerCategory; i++ {
			step := int64(i+1) * 50
			out = append(out, models.Product{
				ID:            uuid.NewString(),
				Title:         fmt.Sprintf("%s Demo %d", category.Title, i+1),
				Description:   "Delicious and freshly prepared.",
				Price:         models.NewMoneyFromInt(120 + step),
				OriginalPrice: models.NewMoneyFromInt(160 + step),
				Category:      category.Title,
				Featured:      i == 0,
			})
		}
	}
	return out
}

// Seed 为空集合写入演示数据；force 为 true 时覆盖已有数据
func (s *SeedService) Seed(ctx context.Context, force bool) (SeedReport, error) {
	var report SeedReport

	coupons, err := s.couponAdmin.List(ctx)
	if err != nil {
		return report, err
	}
	if force || len(coupons) == 0 {
		seeded, err := s.couponAdmin.ResetDemo(ctx)
		if err != nil {
			return report, err
		}
		report.Coupons = len(seeded)
	}

	categories, err := s.categories.List(ctx, "")
	if err != nil {
		return report, err
	}
	if force || len(categories) == 0 {
		seeded := DemoCategories()
		if err := s.categories.Replace(ctx, seeded); err != nil {
			return report, err
		}
		report.Categories = len(seeded)
	}

	products, err := s.products.List(ctx, ProductListFilter{})
	if err != nil {
		return report, err
	}
	if force || len(products) == 0 {
		seeded := DemoProducts()
		if err := s.products.Replace(ctx, seeded); err != nil {
			return report, err
		}
		report.Products = len(seeded)
	}

	logger.Infow("demo_data_seeded",
		"force", force,
		"coupons", report.Coupons,
		"categories", report.Categories,
		"products", report.Products,
	)
	return report, nil
}
