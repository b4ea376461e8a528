package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/palemoky/uno-online/internal/config"
	"github.com/palemoky/uno-online/internal/logger"
	"github.com/palemoky/uno-online/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// .env 可选，环境变量优先于配置文件
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Msg("加载配置文件失败，使用默认配置")
		cfg = config.Default()
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("初始化日志失败")
	}
	defer logger.Close()

	// 创建服务器
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("创建服务器失败")
	}

	// 优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("🎮 UNO 服务器启动中...")
	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("服务器异常退出")
		logger.Close()
		os.Exit(1)
	}
	log.Info().Msg("👋 服务器已关闭")
}
