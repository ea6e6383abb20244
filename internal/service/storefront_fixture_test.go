package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tadka-labs/storefront/internal/config"
	"github.com/tadka-labs/storefront/internal/events"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/queue"
	"github.com/tadka-labs/storefront/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.Topic)
	}
	return out
}

func (p *recordingPublisher) count(topic string) int {
	n := 0
	for _, got := range p.topics() {
		if got == topic {
			n++
		}
	}
	return n
}

type storefrontFixture struct {
	db          *gorm.DB
	store       repository.StoreRepository
	publisher   *recordingPublisher
	cartRepo    repository.CartRepository
	coupons     *CouponService
	couponAdmin *CouponAdminService
	categories  *CategoryService
	products    *ProductService
	cart        *CartService
	checkout    *CheckoutService
	orders      *OrderService
	seed        *SeedService
	dashboard   *DashboardService
}

func setupStorefrontTest(t *testing.T) *storefrontFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:storefront_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}

	f := &storefrontFixture{db: db, publisher: &recordingPublisher{}}
	f.store = repository.NewStoreRepository(db)
	f.cartRepo = repository.NewCartRepository(f.store)
	couponRepo := repository.NewCouponRepository(f.store)
	orderRepo := repository.NewOrderRepository(db)

	f.coupons = NewCouponService(couponRepo, f.cartRepo, f.publisher)
	f.couponAdmin = NewCouponAdminService(couponRepo, f.coupons, queueClient, f.publisher)
	f.categories = NewCategoryService(repository.NewCategoryRepository(f.store), f.publisher)
	f.products = NewProductService(repository.NewProductRepository(f.store), f.publisher)
	f.cart = NewCartService(f.cartRepo, repository.NewProductRepository(f.store), f.coupons, f.publisher)
	f.checkout = NewCheckoutService(f.cart, orderRepo, queueClient)
	f.orders = NewOrderService(orderRepo)
	f.seed = NewSeedService(f.couponAdmin, f.categories, f.products)
	f.dashboard = NewDashboardService(repository.NewDashboardRepository(db), orderRepo, f.coupons, f.categories, f.products)
	return f
}

func (f *storefrontFixture) seedDemo(t *testing.T) {
	t.Helper()
	if _, err := f.seed.Seed(context.Background(), false); err != nil {
		t.Fatalf("seed demo failed: %v", err)
	}
}

func (f *storefrontFixture) productByTitle(t *testing.T, title string) models.Product {
	t.Helper()
	products, err := f.products.List(context.Background(), ProductListFilter{})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	for _, product := range products {
		if product.Title == title {
			return product
		}
	}
	t.Fatalf("product %q not found", title)
	return models.Product{}
}

func (f *storefrontFixture) couponByCode(t *testing.T, code string) models.Coupon {
	t.Helper()
	coupons, err := f.couponAdmin.List(context.Background())
	if err != nil {
		t.Fatalf("list coupons failed: %v", err)
	}
	for _, coupon := range coupons {
		if coupon.Code == code {
			return coupon
		}
	}
	t.Fatalf("coupon %q not found", code)
	return models.Coupon{}
}

func (f *storefrontFixture) fillCart(t *testing.T, session, title string, quantity int) {
	t.Helper()
	product := f.productByTitle(t, title)
	if _, err := f.cart.AddItem(context.Background(), session, product.ID); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if quantity == 1 {
		return
	}
	if _, err := f.cart.UpdateQuantity(context.Background(), session, product.ID, quantity); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
}

func money(v int64) models.Money {
	return models.NewMoneyFromInt(v)
}

func boolPtr(v bool) *bool {
	return &v
}
