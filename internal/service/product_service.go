package service

import (
	"context"
	"strings"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/events"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/repository"

	"github.com/google/uuid"
)

// ProductService 菜品业务服务
type ProductService struct {
	repo      repository.ProductRepository
	publisher events.Publisher
}

// NewProductService 创建菜品服务
func NewProductService(repo repository.ProductRepository, publisher events.Publisher) *ProductService {
	return &ProductService{repo: repo, publisher: publisher}
}

// ProductInput 创建/更新菜品输入
type ProductInput struct {
	Title         string
	Description   string
	Image         string
	Price         models.Money
	OriginalPrice models.Money
	Category      string
	Featured      bool
}

// ProductListFilter 前台菜品筛选
type ProductListFilter struct {
	Query    string
	Category string
}

// ProductGroup 按分类分组的菜品
type ProductGroup struct {
	Category string           `json:"category"`
	Products []models.Product `json:"products"`
}

// List 按关键字与分类筛选菜品
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]models.Product, error) {
	products, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	category := strings.TrimSpace(filter.Category)
	if q == "" && category == "" {
		return products, nil
	}

	filtered := make([]models.Product, 0, len(products))
	for _, product := range products {
		if category != "" && !strings.EqualFold(product.Category, category) {
			continue
		}
		if q != "" && !productMatches(product, q) {
			continue
		}
		filtered = append(filtered, product)
	}
	return filtered, nil
}

// Featured 推荐菜品
func (s *ProductService) Featured(ctx context.Context) ([]models.Product, error) {
	products, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	featured := make([]models.Product, 0)
	for _, product := range products {
		if product.Featured {
			featured = append(featured, product)
		}
	}
	return featured, nil
}

// Grouped 按分类分组，顺序为分类首次出现的顺序
func (s *ProductService) Grouped(ctx context.Context) ([]ProductGroup, error) {
	products, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	groups := make([]ProductGroup, 0)
	index := make(map[string]int)
	for _, product := range products {
		name := strings.TrimSpace(product.Category)
		key := strings.ToLower(name)
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, ProductGroup{Category: name})
		}
		groups[pos].Products = append(groups[pos].Products, product)
	}
	return groups, nil
}

// Get 获取单个菜品
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	products, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexProduct(products, id)
	if idx < 0 {
		return nil, ErrProductNotFound
	}
	product := products[idx]
	return &product, nil
}

// Create 创建菜品
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	products, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	product := models.Product{ID: uuid.NewString()}
	applyProductInput(&product, input)
	products = append(products, product)
	if err := s.save(ctx, products); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 更新菜品
func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	products, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexProduct(products, id)
	if idx < 0 {
		return nil, ErrProductNotFound
	}
	applyProductInput(&products[idx], input)
	if err := s.save(ctx, products); err != nil {
		return nil, err
	}
	updated := products[idx]
	return &updated, nil
}

// Delete 删除菜品
func (s *ProductService) Delete(ctx context.Context, id string) error {
	products, err := s.all(ctx)
	if err != nil {
		return err
	}
	idx := indexProduct(products, id)
	if idx < 0 {
		return ErrProductNotFound
	}
	products = append(products[:idx], products[idx+1:]...)
	return s.save(ctx, products)
}

// Replace 整体覆盖菜品集合，用于演示数据
func (s *ProductService) Replace(ctx context.Context, products []models.Product) error {
	return s.save(ctx, products)
}

func (s *ProductService) all(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	return tolerateCorrupt(products, err, constants.StoreKeyProducts)
}

func (s *ProductService) save(ctx context.Context, products []models.Product) error {
	if err := s.repo.Save(ctx, products); err != nil {
		return err
	}
	if s.publisher != nil {
		s.publisher.Publish(ctx, events.Event{Topic: constants.TopicProductsUpdated})
	}
	return nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrProductTitleRequired
	}
	// 价格按整数货币单位定价，折扣同样在整数单位上计算
	for _, price := range []models.Money{input.Price, input.OriginalPrice} {
		if price.IsNegative() || !price.IsInteger() {
			return ErrProductPriceInvalid
		}
	}
	return nil
}

func applyProductInput(product *models.Product, input ProductInput) {
	product.Title = strings.TrimSpace(input.Title)
	product.Description = strings.TrimSpace(input.Description)
	product.Image = strings.TrimSpace(input.Image)
	product.Price = input.Price
	product.OriginalPrice = input.OriginalPrice
	product.Category = strings.TrimSpace(input.Category)
	product.Featured = input.Featured
}

func productMatches(product models.Product, q string) bool {
	return strings.Contains(strings.ToLower(product.Title), q) ||
		strings.Contains(strings.ToLower(product.Description), q) ||
		strings.Contains(strings.ToLower(product.Category), q)
}

func indexProduct(products []models.Product, id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
