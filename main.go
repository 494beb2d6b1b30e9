package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common"
	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/config"
	infmysql "github.com/MortenBoHub/ThirdSemesterExam/internal/infra/mysql"
	infrds "github.com/MortenBoHub/ThirdSemesterExam/internal/infra/redis"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/worker"
	"github.com/MortenBoHub/ThirdSemesterExam/routers"

	beego "github.com/beego/beego/v2/server/web"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	logger.InitLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatalf("load config failed", zap.Error(err))
	}
	config.Set(cfg)
	if cfg.Server.LogLevel != "" {
		logger.SetLevel(cfg.Server.LogLevel)
	}

	// MySQL
	db := common.InitDB(cfg.Database.DSN, cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns)
	infmysql.UseDB(db.DB)
	store.SetDefault(store.NewMySQL(infmysql.SQLX()))

	// Redis（可选；未配置时相关能力自动降级）
	infrds.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := infrds.Ping(ctx, 2*time.Second); err != nil {
		logger.Warn("redis ping failed, degraded features", zap.Error(err))
	}

	// 配置热更新：目前只跟进日志级别
	if err := config.StartWatch(ctx, func(oldCfg, newCfg *config.Config) {
		if newCfg != nil && (oldCfg == nil || oldCfg.Server.LogLevel != newCfg.Server.LogLevel) {
			logger.SetLevel(newCfg.Server.LogLevel)
		}
	}); err != nil {
		logger.Warn("config watch not started", zap.Error(err))
	}

	// 路由、指标端点
	routers.Register()
	if cfg.Observability.EnableProm {
		path := cfg.Observability.PromPath
		if path == "" {
			path = "/metrics"
		}
		beego.Handler(path, promhttp.Handler())
	}

	// Outbox 分发器
	var wg sync.WaitGroup
	worker.StartOutboxDispatcher(ctx, &wg)

	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	beego.BConfig.CopyRequestBody = true
	beego.BConfig.RunMode = beego.PROD
	if os.Getenv("BEEGO_RUN_MODE") == "dev" {
		beego.BConfig.RunMode = beego.DEV
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received, draining workers")
		wg.Wait()
		logger.Sync()
		os.Exit(0)
	}()

	logger.Info("server starting", zap.Int("port", port))
	beego.Run(fmt.Sprintf(":%d", port))
}
