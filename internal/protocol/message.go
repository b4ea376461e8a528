package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 房间操作
	MsgCreateRoom MessageType = "create_room" // 创建房间
	MsgJoinRoom   MessageType = "join_room"   // 加入房间
	MsgLeaveRoom  MessageType = "leave_room"  // 离开房间
	MsgStartGame  MessageType = "start_game"  // 房主开始游戏

	// 游戏操作
	MsgPlayCard MessageType = "play_card" // 出牌
	MsgDrawCard MessageType = "draw_card" // 摸牌
	MsgPass     MessageType = "pass"      // 过（摸一张并结束回合）

	// 其他
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜
	MsgChat           MessageType = "chat"            // 聊天消息
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 房间相关
	MsgRoomCreated   MessageType = "room_created"   // 房间创建成功
	MsgRoomJoined    MessageType = "room_joined"    // 有玩家加入（广播给房间）
	MsgRosterUpdated MessageType = "roster_updated" // 大厅阶段玩家列表变化

	// 游戏流程
	MsgGameStarted  MessageType = "game_started"  // 游戏开始
	MsgStateUpdated MessageType = "state_updated" // 公共状态更新
	MsgYourHand     MessageType = "your_hand"     // 私有手牌
	MsgGameEnded    MessageType = "game_ended"    // 游戏结束
	MsgChatMessage  MessageType = "chat_message"  // 聊天广播

	// 排行榜
	MsgLeaderboardResult MessageType = "leaderboard_result" // 排行榜结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
