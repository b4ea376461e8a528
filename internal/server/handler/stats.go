package handler

import (
	"context"
	"time"

	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
	"github.com/palemoky/uno-online/internal/server/storage"
	"github.com/palemoky/uno-online/internal/types"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
	leaderboardTimeout      = 3 * time.Second
)

// handleGetLeaderboard 获取排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		payload = &protocol.GetLeaderboardPayload{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), leaderboardTimeout)
	defer cancel()

	entries, err := h.leaderboard.GetLeaderboard(ctx, ClampLimit(payload.Limit))
	if err != nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取排行榜失败"))
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
		Entries: ToProtocolEntries(entries),
	}))
}

// ClampLimit 限制请求数量
func ClampLimit(limit int) int {
	if limit <= 0 || limit > maxLeaderboardLimit {
		return defaultLeaderboardLimit
	}
	return limit
}

// ToProtocolEntries 转换为协议格式
func ToProtocolEntries(entries []*storage.LeaderboardEntry) []protocol.LeaderboardEntry {
	out := make([]protocol.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, protocol.LeaderboardEntry{
			Rank:       entry.Rank,
			PlayerName: entry.PlayerName,
			Wins:       entry.Wins,
			Games:      entry.Games,
			WinRate:    entry.WinRate,
		})
	}
	return out
}
