package room

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/palemoky/uno-online/internal/game/engine"
	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
)

const cleanupInterval = time.Minute

// touch 记录房间最近一次活动，调用方持有 r.mu
func (r *Room) touch() {
	r.lastActive = time.Now()
}

// Run 定期清理超时未开局的房间，直到 ctx 结束
func (rm *RoomManager) Run(ctx context.Context) error {
	if rm.roomTimeout <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			rm.cleanup(now)
		}
	}
}

// cleanup 清理超时的大厅房间，返回清理数量
func (rm *RoomManager) cleanup(now time.Time) int {
	cleaned := 0
	for _, room := range rm.snapshotRooms() {
		if !room.lock() {
			continue
		}
		if room.game.State() == engine.StateLobby && now.Sub(room.lastActive) > rm.roomTimeout {
			room.broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间超时已关闭"))
			rm.destroy(room)
			cleaned++
			log.Info().Str("room", room.Code).Msg("🧹 房间超时已清理")
		}
		room.mu.Unlock()
	}
	return cleaned
}
