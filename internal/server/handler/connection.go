package handler

import (
	"time"

	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
	"github.com/palemoky/uno-online/internal/types"
)

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	// 立即回复 pong
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// OnDisconnect 连接断开：离开所在房间并清理限流记录
func (h *Handler) OnDisconnect(client types.ClientInterface) {
	h.roomManager.LeaveRoom(client)
	if h.chatLimiter != nil {
		h.chatLimiter.RemoveClient(client.GetID())
	}
}
