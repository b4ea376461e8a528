package session

import (
	"sync"
	"time"
)

// PlayerSession 连接所在的房间和昵称
type PlayerSession struct {
	PlayerID   string
	PlayerName string
	RoomCode   string
	JoinedAt   time.Time
}

// SessionManager 会话表：连接 ID -> (房间号, 昵称)。
//
// 房间在持有自己的锁时更新会话表，所以会话表的锁总是最后获取。
type SessionManager struct {
	sessions map[string]*PlayerSession // playerID -> session
	mu       sync.RWMutex
}

// NewSessionManager 创建会话管理器
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*PlayerSession),
	}
}

// Bind 记录玩家进入房间，已有记录时覆盖
func (sm *SessionManager) Bind(playerID, roomCode, playerName string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[playerID] = &PlayerSession{
		PlayerID:   playerID,
		PlayerName: playerName,
		RoomCode:   roomCode,
		JoinedAt:   time.Now(),
	}
}

// Unbind 删除玩家的房间记录
func (sm *SessionManager) Unbind(playerID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, playerID)
}

// GetSession 获取会话副本
func (sm *SessionManager) GetSession(playerID string) (PlayerSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[playerID]
	if !ok {
		return PlayerSession{}, false
	}
	return *s, true
}

// RoomOf 玩家所在房间号，不在房间中返回空字符串
func (sm *SessionManager) RoomOf(playerID string) string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if s, ok := sm.sessions[playerID]; ok {
		return s.RoomCode
	}
	return ""
}

// Count 在房间中的玩家数
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
