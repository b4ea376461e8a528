package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
)

const (
	monitorInterval = 30 * time.Second
	webhookEnv      = "UNO_SHUTDOWN_WEBHOOK_URL"
)

// monitorStats 定期输出服务器状态并清理过期的限流记录
func (s *Server) monitorStats(ctx context.Context) {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			log.Info().
				Int("online", s.GetOnlineCount()).
				Int("rooms", s.roomManager.RoomCount()).
				Int("games", s.roomManager.GetActiveGamesCount()).
				Int("goroutines", runtime.NumGoroutine()).
				Str("conns", fmt.Sprintf("%d/%d", len(s.semaphore), s.maxConnections)).
				Str("mem", fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024)).
				Int("rate_records_cleaned", s.rateLimiter.Cleanup(now)).
				Msg("📊 [监控]")
		}
	}
}

// EnterMaintenanceMode 进入维护模式：拒绝新连接和新房间，进行中的对局不受影响
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	s.BroadcastToAll(codec.NewErrorMessageWithText(protocol.ErrCodeServerMaintenance,
		"👷🏻‍♂️ 维护模式：停止新的房间创建"))

	log.Info().Msg("🔧 进入维护模式：停止新连接和房间创建")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 进入维护模式后等待进行中的对局结束，最多等 timeout
func (s *Server) GracefulShutdown(timeout time.Duration) {
	s.EnterMaintenanceMode()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(s.config.Game.ShutdownCheckIntervalDuration())
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		activeGames := s.roomManager.GetActiveGamesCount()
		if activeGames == 0 {
			delay := s.config.Game.RoomCleanupDelayDuration()
			log.Info().Dur("delay", delay).Msg("✅ 所有对局已结束，即将关闭服务器")
			s.BroadcastToAll(codec.NewErrorMessageWithText(protocol.ErrCodeServerMaintenance,
				fmt.Sprintf("🚧 服务器将在 %d 秒后停机维护！", int(delay.Seconds()))))
			break
		}
		log.Info().Int("games", activeGames).Msg("⏳ 等待对局结束...")
		<-ticker.C
	}

	if activeGames := s.roomManager.GetActiveGamesCount(); activeGames > 0 {
		log.Warn().Int("games", activeGames).Msg("⚠️ 超时，仍有对局进行中，强制关闭")
	}

	s.sendShutdownNotification()
}

// sendShutdownNotification 配置了 UNO_SHUTDOWN_WEBHOOK_URL 时发送关闭通知
func (s *Server) sendShutdownNotification() {
	url := os.Getenv(webhookEnv)
	if url == "" {
		return
	}

	body, _ := json.Marshal(map[string]any{
		"text":   "UNO 服务器已优雅关闭",
		"online": s.GetOnlineCount(),
		"rooms":  s.roomManager.RoomCount(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Warn().Err(err).Msg("创建通知请求失败")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("发送关闭通知失败")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		log.Info().Msg("🔔 已发送关闭通知")
	} else {
		log.Warn().Int("status", resp.StatusCode).Msg("通知响应异常")
	}
}

// Shutdown 等待清理延迟后关闭所有连接，写完 Redis 队列后关闭 Redis
func (s *Server) Shutdown() {
	time.Sleep(s.config.Game.RoomCleanupDelayDuration())

	// 关闭所有客户端连接
	s.clientsMu.RLock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.RUnlock()

	// 先写完排队中的镜像和战绩，再关闭 Redis
	s.roomManager.Close()
	if s.redis != nil {
		_ = s.redis.Close()
	}

	log.Info().Msg("服务器已关闭")
}
