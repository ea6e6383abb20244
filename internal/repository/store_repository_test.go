package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tadka-labs/storefront/internal/cache"
	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/schema"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestStoreUpsertOverwritesLastWriterWins(t *testing.T) {
	repo := NewStoreRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Upsert(ctx, "k", []byte(`[1]`), 1); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := repo.Upsert(ctx, "k", []byte(`[2]`), 2); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	entry, err := repo.GetByKey(ctx, "k")
	if err != nil || entry == nil {
		t.Fatalf("get failed: entry=%v err=%v", entry, err)
	}
	if entry.Value != `[2]` || entry.SchemaVersion != 2 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	missing, err := repo.GetByKey(ctx, "absent")
	if err != nil || missing != nil {
		t.Fatalf("missing key should be nil,nil got %v,%v", missing, err)
	}
}

func TestStoreListKeysByPrefix(t *testing.T) {
	repo := NewStoreRepository(openTestDB(t))
	ctx := context.Background()
	for _, key := range []string{"cart:a", "cart:b", "cart_applied_coupon:a", "cartXapplied", "admin_coupons_v1"} {
		if err := repo.Upsert(ctx, key, []byte(`[]`), 2); err != nil {
			t.Fatalf("upsert %s failed: %v", key, err)
		}
	}

	keys, err := repo.ListKeys(ctx, constants.StoreKeyCartPrefix)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "cart:a" || keys[1] != "cart:b" {
		t.Fatalf("unexpected cart keys: %v", keys)
	}

	keys, err = repo.ListKeys(ctx, constants.StoreKeyAppliedPrefix)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "cart_applied_coupon:a" {
		t.Fatalf("underscore must not act as wildcard: %v", keys)
	}

	all, err := repo.ListKeys(ctx, "")
	if err != nil || len(all) != 5 {
		t.Fatalf("expected all keys, got %v err=%v", all, err)
	}

	if err := repo.Delete(ctx, "cart:a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete(ctx, "cart:a"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestCachedStoreFallsBackWithoutRedis(t *testing.T) {
	repo := NewCachedStoreRepository(NewStoreRepository(openTestDB(t)), time.Minute)
	ctx := context.Background()
	if err := repo.Upsert(ctx, "k", []byte(`{"version":2,"items":[]}`), 2); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	entry, err := repo.GetByKey(ctx, "k")
	if err != nil || entry == nil || entry.SchemaVersion != 2 {
		t.Fatalf("cached repo should read through to db: %v %v", entry, err)
	}
}

func TestCouponRepositoryReadsLegacyAndWritesCurrent(t *testing.T) {
	store := NewStoreRepository(openTestDB(t))
	ctx := context.Background()
	legacy := `[{"code":"welcome50","discount":50},{"code":"festive30","discount":30,"type":"percentage","active":false}]`
	if err := store.Upsert(ctx, constants.StoreKeyCoupons, []byte(legacy), schema.LegacyVersion); err != nil {
		t.Fatalf("seed legacy failed: %v", err)
	}

	repo := NewCouponRepository(store)
	coupons, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(coupons) != 2 || coupons[0].Code != "WELCOME50" || coupons[1].DiscountType != constants.DiscountTypePercent {
		t.Fatalf("unexpected coupons: %+v", coupons)
	}

	if err := repo.Save(ctx, coupons[:1]); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	entry, _ := store.GetByKey(ctx, constants.StoreKeyCoupons)
	if entry.SchemaVersion != schema.CurrentVersion || !strings.HasPrefix(entry.Value, `{"version":2`) {
		t.Fatalf("expected current envelope, got %+v", entry)
	}
}

func TestCouponRepositoryCorruptDocument(t *testing.T) {
	store := NewStoreRepository(openTestDB(t))
	ctx := context.Background()
	if err := store.Upsert(ctx, constants.StoreKeyCoupons, []byte(`{not json`), 1); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	_, err := NewCouponRepository(store).List(ctx)
	if err == nil || !strings.Contains(err.Error(), constants.StoreKeyCoupons) {
		t.Fatalf("expected corrupt error naming the key, got %v", err)
	}
}

func TestCartRepositoryLinesAndApplied(t *testing.T) {
	store := NewStoreRepository(openTestDB(t))
	repo := NewCartRepository(store)
	ctx := context.Background()

	lines := []models.CartLine{
		{ProductID: "p1", Title: "Margherita", UnitPrice: models.NewMoneyFromInt(170), Quantity: 1},
		{ProductID: "p1", Title: "Margherita", UnitPrice: models.NewMoneyFromInt(170), Quantity: 1},
	}
	if err := repo.SaveLines(ctx, "s1", lines); err != nil {
		t.Fatalf("save lines failed: %v", err)
	}
	got, err := repo.GetLines(ctx, "s1")
	if err != nil || len(got) != 1 || got[0].Quantity != 2 {
		t.Fatalf("unexpected lines: %+v err=%v", got, err)
	}

	applied, err := repo.GetApplied(ctx, "s1")
	if err != nil || applied.Code != constants.NoCouponCode {
		t.Fatalf("absent applied slot should be sentinel: %+v err=%v", applied, err)
	}
	if err := repo.SaveApplied(ctx, "s1", models.AppliedCoupon{Code: "welcome50", Amount: models.NewMoneyFromInt(50)}); err != nil {
		t.Fatalf("save applied failed: %v", err)
	}
	applied, _ = repo.GetApplied(ctx, "s1")
	if applied.Code != "WELCOME50" || applied.Amount.String() != "50.00" {
		t.Fatalf("unexpected applied: %+v", applied)
	}

	sessions, err := repo.ListAppliedSessions(ctx)
	if err != nil || len(sessions) != 1 || sessions[0] != "s1" {
		t.Fatalf("unexpected sessions: %v err=%v", sessions, err)
	}

	if err := repo.SaveApplied(ctx, "s1", models.AppliedCoupon{Code: constants.NoCouponCode}); err != nil {
		t.Fatalf("reset applied failed: %v", err)
	}
	if entry, _ := store.GetByKey(ctx, constants.StoreKeyAppliedPrefix+"s1"); entry != nil {
		t.Fatalf("sentinel should remove the slot document")
	}

	if err := repo.SaveLines(ctx, "s1", nil); err != nil {
		t.Fatalf("save empty lines failed: %v", err)
	}
	if entry, _ := store.GetByKey(ctx, constants.StoreKeyCartPrefix+"s1"); entry != nil {
		t.Fatalf("empty cart should remove the document")
	}
}

// racingStore 在读库返回前插入一次并发写入
type racingStore struct {
	StoreRepository
	onRead func()
}

func (s *racingStore) GetByKey(ctx context.Context, key string) (*models.StoreEntry, error) {
	entry, err := s.StoreRepository.GetByKey(ctx, key)
	if s.onRead != nil {
		hook := s.onRead
		s.onRead = nil
		hook()
	}
	return entry, err
}

func TestCachedStoreDropsFillRacingInvalidation(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("skip redis integration test: TEST_REDIS_ADDR is empty")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		cache.Use(nil, "")
		_ = client.Close()
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("skip redis integration test: %v", err)
	}
	cache.Use(client, fmt.Sprintf("test%d", time.Now().UnixNano()))

	inner := &racingStore{StoreRepository: NewStoreRepository(openTestDB(t))}
	repo := NewCachedStoreRepository(inner, time.Minute)
	if err := repo.Upsert(ctx, "admin_coupons_v1", []byte(`{"version":2,"items":[]}`), 1); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// 读到旧值后、回填前，另一次写入完成并失效缓存
	inner.onRead = func() {
		if err := repo.Upsert(ctx, "admin_coupons_v1", []byte(`{"version":2,"items":[]}`), 2); err != nil {
			t.Fatalf("racing upsert failed: %v", err)
		}
	}
	stale, err := repo.GetByKey(ctx, "admin_coupons_v1")
	if err != nil || stale == nil || stale.SchemaVersion != 1 {
		t.Fatalf("first read should see the old row: %v %v", stale, err)
	}

	var cached models.StoreEntry
	hit, err := cache.GetJSON(ctx, storeCacheKey("admin_coupons_v1"), &cached)
	if err != nil {
		t.Fatalf("cache read failed: %v", err)
	}
	if hit && cached.SchemaVersion != 2 {
		t.Fatalf("stale entry was written back: version %d", cached.SchemaVersion)
	}

	fresh, err := repo.GetByKey(ctx, "admin_coupons_v1")
	if err != nil || fresh == nil || fresh.SchemaVersion != 2 {
		t.Fatalf("next read should see the new row: %v %v", fresh, err)
	}
	hit, err = cache.GetJSON(ctx, storeCacheKey("admin_coupons_v1"), &cached)
	if err != nil || !hit || cached.SchemaVersion != 2 {
		t.Fatalf("uncontended read should fill the cache: hit=%v version=%d err=%v", hit, cached.SchemaVersion, err)
	}
}
