package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/palemoky/uno-online/internal/config"
	"github.com/palemoky/uno-online/internal/game/room"
	"github.com/palemoky/uno-online/internal/server/handler"
	"github.com/palemoky/uno-online/internal/server/session"
	"github.com/palemoky/uno-online/internal/server/storage"
)

// Server WebSocket 服务器
type Server struct {
	config         *config.Config
	redis          *redis.Client // 未配置 Redis 时为 nil
	redisStore     *storage.RedisStore
	leaderboard    *storage.LeaderboardManager
	roomManager    *room.RoomManager
	sessionManager *session.SessionManager
	clients        map[string]*Client
	clientsMu      sync.RWMutex
	handler        *handler.Handler
	upgrader       websocket.Upgrader

	// 安全组件
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter
	chatLimiter    *ChatRateLimiter
	ipFilter       *IPFilter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex
}

// NewServer 创建服务器实例。cfg.Redis.Addr 为空时不连接 Redis，房间镜像和排行榜关闭。
func NewServer(cfg *config.Config) (*Server, error) {
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	store := storage.NewRedisStore(rdb)

	if store.Enabled() {
		// 测试 Redis 连接
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
	} else {
		log.Warn().Msg("⚠️ 未配置 Redis，房间镜像和排行榜已关闭")
	}

	s := &Server{
		config:         cfg,
		redis:          rdb,
		redisStore:     store,
		clients:        make(map[string]*Client),
		sessionManager: session.NewSessionManager(),
		// 初始化安全组件
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		chatLimiter: NewChatRateLimiter(
			cfg.Security.ChatLimit.MaxPerSecond,
			cfg.Security.ChatLimit.MaxPerMinute,
			cfg.Security.ChatLimit.CooldownDuration(),
		),
		ipFilter: NewIPFilter(),
		// 初始化连接控制
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}
	if rdb != nil {
		s.leaderboard = storage.NewLeaderboardManager(rdb)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// 来源在升级前已由 originChecker 校验
		CheckOrigin: func(*http.Request) bool { return true },
	}

	// 初始化房间管理器
	s.roomManager = room.NewRoomManager(room.Options{
		Store:         s.redisStore,
		Leaderboard:   s.leaderboard,
		Sessions:      s.sessionManager,
		MaxPlayers:    cfg.Game.MaxPlayers,
		ChatHistory:   cfg.Game.ChatHistory,
		ChatMaxLength: cfg.Game.ChatMaxLength,
		RoomTimeout:   cfg.Game.RoomTimeoutDuration(),
	})

	// 初始化消息处理器
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:      s,
		RoomManager: s.roomManager,
		ChatLimiter: s.chatLimiter,
		Leaderboard: s.leaderboard,
	})

	log.Info().
		Int("conn_per_sec", cfg.Security.RateLimit.MaxPerSecond).
		Int("msg_per_sec", cfg.Security.MessageLimit.MaxPerSecond).
		Int("chat_per_sec", cfg.Security.ChatLimit.MaxPerSecond).
		Int("max_connections", cfg.Server.MaxConnections).
		Msg("🔒 安全配置")

	return s, nil
}

// Router HTTP 路由
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/rooms", s.handleRooms)
		r.Get("/rooms/{code}", s.handleRoom)
	})
	return r
}

// Run 启动服务器，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Server.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", "ws://"+httpServer.Addr+"/ws").Int("cpus", runtime.NumCPU()).Msg("🚀 服务器启动")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http 服务异常退出: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.roomManager.Run(gctx)
	})

	g.Go(func() error {
		s.monitorStats(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.GracefulShutdown(s.config.Game.ShutdownTimeoutDuration())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP 服务强制关闭")
		}
		s.Shutdown()
		return nil
	})

	return g.Wait()
}
