package schema

import (
	"context"
	"errors"
	"strings"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"
)

// Store 迁移所需的文档存储能力
type Store interface {
	GetByKey(ctx context.Context, key string) (*models.StoreEntry, error)
	Upsert(ctx context.Context, key string, value []byte, version int) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// Report 迁移统计
type Report struct {
	Scanned  int `json:"scanned"`
	Upgraded int `json:"upgraded"`
	Corrupt  int `json:"corrupt"`
}

// Migrator 将存量文档一次性升级到当前版本
type Migrator struct {
	store Store
}

// NewMigrator 创建迁移器
func NewMigrator(store Store) *Migrator {
	return &Migrator{store: store}
}

type upgradeFunc func(raw []byte) (interface{}, int, error)

func upgraderFor(key string) upgradeFunc {
	switch {
	case key == constants.StoreKeyCoupons:
		return func(raw []byte) (interface{}, int, error) { return DecodeCoupons(raw) }
	case key == constants.StoreKeyCategories:
		return func(raw []byte) (interface{}, int, error) { return DecodeCategories(raw) }
	case key == constants.StoreKeyProducts:
		return func(raw []byte) (interface{}, int, error) { return DecodeProducts(raw) }
	case strings.HasPrefix(key, constants.StoreKeyAppliedPrefix):
		return func(raw []byte) (interface{}, int, error) { return DecodeApplied(raw) }
	case strings.HasPrefix(key, constants.StoreKeyCartPrefix):
		return func(raw []byte) (interface{}, int, error) { return DecodeCart(raw) }
	default:
		return nil
	}
}

// Run 扫描全部文档，旧版本重写为当前版本；损坏文档保留原样并记录
func (m *Migrator) Run(ctx context.Context) (Report, error) {
	var report Report
	keys, err := m.store.ListKeys(ctx, "")
	if err != nil {
		return report, err
	}
	for _, key := range keys {
		upgrade := upgraderFor(key)
		if upgrade == nil {
			continue
		}
		entry, err := m.store.GetByKey(ctx, key)
		if err != nil {
			return report, err
		}
		if entry == nil {
			continue
		}
		report.Scanned++

		items, version, err := upgrade([]byte(entry.Value))
		if err != nil {
			if errors.Is(err, ErrCorrupt) {
				report.Corrupt++
				logger.Warnw("schema_migrate_corrupt_document", "key", key, "error", err)
				continue
			}
			return report, err
		}
		if version >= CurrentVersion && entry.SchemaVersion >= CurrentVersion {
			continue
		}
		encoded, err := Encode(items)
		if err != nil {
			return report, err
		}
		if err := m.store.Upsert(ctx, key, encoded, CurrentVersion); err != nil {
			return report, err
		}
		report.Upgraded++
		logger.Infow("schema_migrate_document_upgraded", "key", key, "from_version", version)
	}
	return report, nil
}
