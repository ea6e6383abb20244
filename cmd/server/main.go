package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/tadka-labs/storefront/internal/app"
	"github.com/tadka-labs/storefront/internal/config"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"

	"github.com/joho/godotenv"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	// .env 优先于 config.yml 读取，不存在时忽略
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if isWeakSecret(cfg.JWT.SecretKey) || isWeakSecret(cfg.UserJWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Mode == "debug", models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	if cfg.Server.Mode == "release" && cfg.Shop.AdminPassword == "admin123" {
		stdLog.Printf("警告: 默认管理员仍使用演示密码，请登录后立即修改")
	}
	if err := models.InitDefaultAdmin(models.DB, cfg.Shop.AdminEmail, cfg.Shop.AdminPassword); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}
	if cfg.Shop.SeedDemo {
		if err := models.InitDemoUser(models.DB, cfg.Shop.DemoUserEmail, cfg.Shop.DemoUserPass); err != nil {
			stdLog.Printf("警告: 初始化演示顾客失败: %v", err)
		}
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "Tadka Kitchen storefront API" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") || strings.Contains(normalized, "your-secret-key")
}
