package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/tadka-labs/storefront/internal/app"
	"github.com/tadka-labs/storefront/internal/config"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/provider"

	"github.com/joho/godotenv"
)

// 写入演示菜单、优惠券与账号；-force 会覆盖已有集合
func main() {
	force := flag.Bool("force", false, "覆盖已有的优惠券、分类与菜品")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, false, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.InitDefaultAdmin(models.DB, cfg.Shop.AdminEmail, cfg.Shop.AdminPassword); err != nil {
		stdLog.Fatalf("Failed to create admin: %v", err)
	}
	if err := models.InitDemoUser(models.DB, cfg.Shop.DemoUserEmail, cfg.Shop.DemoUserPass); err != nil {
		stdLog.Fatalf("Failed to create demo user: %v", err)
	}

	// 演示数据由本命令显式写入，容器内不再重复
	cfg.Shop.SeedDemo = false
	container := provider.NewContainer(cfg)
	defer container.Close()
	if err := app.PrepareStore(container, false); err != nil {
		stdLog.Fatalf("Failed to migrate store: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	report, err := container.SeedService.Seed(ctx, *force)
	if err != nil {
		stdLog.Fatalf("Failed to seed store: %v", err)
	}
	fmt.Printf("seeded coupons=%d categories=%d products=%d force=%v\n",
		report.Coupons, report.Categories, report.Products, *force)
}
