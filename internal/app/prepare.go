package app

import (
	"context"
	"time"

	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/provider"
	"github.com/tadka-labs/storefront/internal/schema"
)

const prepareTimeout = time.Minute

// PrepareStore 启动前升级存量文档，并按配置写入演示数据
func PrepareStore(c *provider.Container, forceSeed bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), prepareTimeout)
	defer cancel()

	if c.Config.Store.MigrateOnStart {
		report, err := schema.NewMigrator(c.StoreRepo).Run(ctx)
		if err != nil {
			return err
		}
		logger.Infow("store_migration_completed",
			"scanned", report.Scanned,
			"upgraded", report.Upgraded,
			"corrupt", report.Corrupt,
		)
	}
	if c.Config.Shop.SeedDemo || forceSeed {
		if _, err := c.SeedService.Seed(ctx, forceSeed); err != nil {
			return err
		}
	}
	return nil
}
