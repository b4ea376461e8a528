package types

import (
	"github.com/palemoky/uno-online/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
	BroadcastToAll(msg *protocol.Message)
}

// ClientInterface 定义客户端接口。
// 连接本身不记录房间，房间归属查会话表。
type ClientInterface interface {
	GetID() string
	// SendMessage 不阻塞，缓冲区满时关闭连接
	SendMessage(msg *protocol.Message)
	Close()
}

// ChatLimiter 聊天速率限制器接口
type ChatLimiter interface {
	AllowChat(clientID string) (allowed bool, reason string)
	RemoveClient(clientID string)
}
