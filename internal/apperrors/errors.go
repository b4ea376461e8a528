package apperrors

import (
	"github.com/palemoky/uno-online/internal/protocol"
)

// GameError 游戏错误（房间、引擎和会话共享）
//
// 这些都是调用方错误：只回给请求者，不修改房间状态。
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func newError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	// 通用
	ErrInvalidMsg  = newError(protocol.ErrCodeInvalidMsg)
	ErrRateLimit   = newError(protocol.ErrCodeRateLimit)
	ErrMaintenance = newError(protocol.ErrCodeServerMaintenance)

	// 房间
	ErrRoomNotFound       = newError(protocol.ErrCodeRoomNotFound)
	ErrRoomFull           = newError(protocol.ErrCodeRoomFull)
	ErrNotInRoom          = newError(protocol.ErrCodeNotInRoom)
	ErrGameAlreadyStarted = newError(protocol.ErrCodeGameStarted)
	ErrDuplicateName      = newError(protocol.ErrCodeDuplicateName)
	ErrInvalidName        = newError(protocol.ErrCodeInvalidName)
	ErrNotHost            = newError(protocol.ErrCodeNotHost)
	ErrNotEnoughPlayers   = newError(protocol.ErrCodeNotEnoughPlayers)

	// 回合
	ErrGameNotStarted = newError(protocol.ErrCodeGameNotStart)
	ErrNotYourTurn    = newError(protocol.ErrCodeNotYourTurn)
	ErrIllegalMove    = newError(protocol.ErrCodeIllegalMove)
	ErrColorRequired  = newError(protocol.ErrCodeColorRequired)
	ErrInvalidCard    = newError(protocol.ErrCodeInvalidCard)

	// 牌堆
	ErrDeckExhausted = newError(protocol.ErrCodeDeckExhausted)
)
