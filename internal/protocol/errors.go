package protocol

// 错误码
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeRateLimit         = 1002 // 速率限制
	ErrCodeInvalidName       = 1003 // 昵称不合法
	ErrCodeRoomNotFound      = 2001
	ErrCodeRoomFull          = 2002
	ErrCodeNotInRoom         = 2003
	ErrCodeGameStarted       = 2004 // 游戏已开始
	ErrCodeDuplicateName     = 2005 // 房间内昵称重复
	ErrCodeNotHost           = 2006 // 只有房主可以开始
	ErrCodeNotEnoughPlayers  = 2007 // 人数不足
	ErrCodeGameNotStart      = 3001
	ErrCodeNotYourTurn       = 3002
	ErrCodeIllegalMove       = 3003 // 这张牌不能出
	ErrCodeColorRequired     = 3004 // 万能牌需要选择颜色
	ErrCodeInvalidCard       = 3005 // 手牌下标无效
	ErrCodeDeckExhausted     = 3006 // 牌堆已空，无法摸牌
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "未知错误",
	ErrCodeInvalidMsg:        "无效的消息格式",
	ErrCodeRateLimit:         "请求过于频繁",
	ErrCodeInvalidName:       "昵称不合法",
	ErrCodeRoomNotFound:      "房间不存在",
	ErrCodeRoomFull:          "房间已满",
	ErrCodeNotInRoom:         "您不在房间中",
	ErrCodeGameStarted:       "游戏已开始",
	ErrCodeDuplicateName:     "该昵称已在房间中",
	ErrCodeNotHost:           "只有房主可以开始游戏",
	ErrCodeNotEnoughPlayers:  "至少需要 2 名玩家",
	ErrCodeGameNotStart:      "游戏尚未开始",
	ErrCodeNotYourTurn:       "还没轮到您",
	ErrCodeIllegalMove:       "这张牌现在不能出",
	ErrCodeColorRequired:     "请为万能牌选择颜色",
	ErrCodeInvalidCard:       "无效的手牌",
	ErrCodeDeckExhausted:     "牌堆已空，无法摸牌",
	ErrCodeServerMaintenance: "服务器维护中",
}
