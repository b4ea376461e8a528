package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	DisplayName string `json:"display_name"`
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode    string `json:"room_code"`
	DisplayName string `json:"display_name"`
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	HandIndex   int    `json:"hand_index"`
	ChosenColor string `json:"chosen_color,omitempty"` // 仅万能牌需要
}

// ChatPayload 聊天请求
type ChatPayload struct {
	Text string `json:"text"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Limit int `json:"limit"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID string `json:"player_id"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string       `json:"room_code"`
	Players  []PlayerInfo `json:"players"`
}

// RoomJoinedPayload 加入房间广播
type RoomJoinedPayload struct {
	RoomCode string       `json:"room_code"`
	Players  []PlayerInfo `json:"players"`
}

// RosterUpdatedPayload 大厅玩家列表变化
type RosterUpdatedPayload struct {
	RoomCode string       `json:"room_code"`
	Players  []PlayerInfo `json:"players"`
}

// GameStartedPayload 游戏开始广播
type GameStartedPayload struct {
	TopCard    CardInfo     `json:"top_card"`
	BoundColor string       `json:"bound_color"`
	TurnHolder string       `json:"turn_holder"` // 当前回合玩家昵称
	Players    []PlayerInfo `json:"players"`
}

// StatePayload 公共快照，房间内所有人收到的内容完全一致
type StatePayload struct {
	RoomCode   string       `json:"room_code"`
	State      string       `json:"state"` // lobby/playing/finished
	Players    []PlayerInfo `json:"players"`
	TurnHolder string       `json:"turn_holder,omitempty"`
	TopCard    *CardInfo    `json:"top_card,omitempty"`
	BoundColor string       `json:"bound_color,omitempty"`
	Direction  string       `json:"direction,omitempty"` // forward/backward
	LastAction *ActionInfo  `json:"last_action,omitempty"`
}

// YourHandPayload 私有手牌，只发给手牌所有者
type YourHandPayload struct {
	Cards []CardInfo `json:"cards"`
}

// GameEndedPayload 游戏结束广播
type GameEndedPayload struct {
	Winner string `json:"winner"` // 获胜者昵称
}

// ChatMessagePayload 聊天广播
type ChatMessagePayload struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // 服务端时间（毫秒）
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"player_name"`
	Wins       int     `json:"wins"`
	Games      int     `json:"games"`
	WinRate    float64 `json:"win_rate"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- 通用数据结构 ---

// PlayerInfo 玩家公共信息
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"card_count"`
	IsHost    bool   `json:"is_host"`
	OneLeft   bool   `json:"one_left"` // 只剩一张牌
}

// ActionInfo 最近一次回合操作，摸到的牌不公开
type ActionInfo struct {
	Player string    `json:"player"`           // 操作者昵称
	Kind   string    `json:"kind"`             // play/draw
	Card   *CardInfo `json:"card,omitempty"`   // 打出的牌
	Victim string    `json:"victim,omitempty"` // 被罚摸的玩家昵称
	Drawn  int       `json:"drawn,omitempty"`  // 摸牌张数
}

// CardInfo 牌信息
type CardInfo struct {
	Color string `json:"color"` // red/green/blue/yellow/none
	Rank  string `json:"rank"`  // 0-9/skip/reverse/draw_two/wild/wild_draw_four
}
