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

// CategoryService 分类业务服务
type CategoryService struct {
	repo      repository.CategoryRepository
	publisher events.Publisher
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository, publisher events.Publisher) *CategoryService {
	return &CategoryService{repo: repo, publisher: publisher}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Title string
	Image string
}

// List 获取分类列表，q 按标题不区分大小写过滤
func (s *CategoryService) List(ctx context.Context, q string) ([]models.Category, error) {
	categories, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return categories, nil
	}
	filtered := make([]models.Category, 0, len(categories))
	for _, category := range categories {
		if strings.Contains(strings.ToLower(category.Title), q) {
			filtered = append(filtered, category)
		}
	}
	return filtered, nil
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrCategoryTitleRequired
	}
	categories, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	if categoryTitleTaken(categories, title, "") {
		return nil, ErrCategoryExists
	}

	category := models.Category{
		ID:    uuid.NewString(),
		Title: title,
		Image: strings.TrimSpace(input.Image),
	}
	categories = append(categories, category)
	if err := s.save(ctx, categories); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, id string, input CategoryInput) (*models.Category, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrCategoryTitleRequired
	}
	categories, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexCategory(categories, id)
	if idx < 0 {
		return nil, ErrCategoryNotFound
	}
	if categoryTitleTaken(categories, title, categories[idx].ID) {
		return nil, ErrCategoryExists
	}

	categories[idx].Title = title
	categories[idx].Image = strings.TrimSpace(input.Image)
	if err := s.save(ctx, categories); err != nil {
		return nil, err
	}
	updated := categories[idx]
	return &updated, nil
}

// Delete 删除分类，分类下的菜品保留原分类名
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	categories, err := s.all(ctx)
	if err != nil {
		return err
	}
	idx := indexCategory(categories, id)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	categories = append(categories[:idx], categories[idx+1:]...)
	return s.save(ctx, categories)
}

// Replace 整体覆盖分类集合，用于演示数据
func (s *CategoryService) Replace(ctx context.Context, categories []models.Category) error {
	return s.save(ctx, categories)
}

func (s *CategoryService) all(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	return tolerateCorrupt(categories, err, constants.StoreKeyCategories)
}

func (s *CategoryService) save(ctx context.Context, categories []models.Category) error {
	if err := s.repo.Save(ctx, categories); err != nil {
		return err
	}
	if s.publisher != nil {
		s.publisher.Publish(ctx, events.Event{Topic: constants.TopicCategoriesUpdated})
	}
	return nil
}

func indexCategory(categories []models.Category, id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range categories {
		if categories[i].ID == id {
			return i
		}
	}
	return -1
}

func categoryTitleTaken(categories []models.Category, title, exceptID string) bool {
	for _, category := range categories {
		if category.ID == exceptID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(category.Title), title) {
			return true
		}
	}
	return false
}
