package room

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/palemoky/uno-online/internal/apperrors"
	"github.com/palemoky/uno-online/internal/game/engine"
	"github.com/palemoky/uno-online/internal/game/view"
	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
	"github.com/palemoky/uno-online/internal/types"
)

// 锁顺序：room.mu -> rm.mu -> 会话表。持有 rm.mu 时不再获取任何房间锁。
// 同时需要两个房间锁时（换房）按房间号从小到大加锁。

// CreateRoom 创建房间，创建者成为房主。已在其他房间时先离开。
func (rm *RoomManager) CreateRoom(client types.ClientInterface, name string) (*Room, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	rm.LeaveRoom(client)

	id := client.GetID()
	room := rm.newRoom()
	room.mu.Lock()
	defer room.mu.Unlock()

	if err := room.game.AddPlayer(id, name); err != nil {
		return nil, err
	}
	room.clients[id] = client

	rm.mu.Lock()
	room.Code = rm.generateRoomCode()
	rm.rooms[room.Code] = room
	rm.mu.Unlock()

	rm.sessions.Bind(id, room.Code, name)

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: room.Code,
		Players:  view.Players(room.game),
	}))
	rm.mirror(room)

	log.Info().Str("room", room.Code).Str("player", name).Msg("🏠 房间已创建")
	return room, nil
}

// JoinRoom 加入房间，成功后向房间内所有人广播玩家列表
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code, name string) (*Room, error) {
	code = NormalizeCode(code)
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	id := client.GetID()
	if current := rm.sessions.RoomOf(id); current == code {
		// 已在该房间，只回一份玩家列表
		room := rm.GetRoom(code)
		if room == nil || !room.lock() {
			return nil, apperrors.ErrRoomNotFound
		}
		defer room.mu.Unlock()
		client.SendMessage(room.rosterMessage(protocol.MsgRoomJoined))
		return room, nil
	}

	room := rm.GetRoom(code)
	if room == nil {
		return nil, apperrors.ErrRoomNotFound
	}
	var old *Room
	if current := rm.sessions.RoomOf(id); current != "" {
		old = rm.GetRoom(current)
	}

	unlock, ok := lockPair(room, old)
	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	defer unlock()

	// 先确认能加入新房间，失败时原房间不受影响
	if err := room.game.CanAdd(name); err != nil {
		return nil, err
	}
	if old != nil && !old.closed {
		rm.removeLocked(old, id)
	} else {
		rm.sessions.Unbind(id)
	}

	if err := room.game.AddPlayer(id, name); err != nil {
		return nil, err
	}
	room.clients[id] = client
	room.touch()
	rm.sessions.Bind(id, room.Code, name)

	room.broadcast(room.rosterMessage(protocol.MsgRoomJoined))
	// 新加入的玩家补发最近的聊天记录
	for _, msg := range room.chat {
		client.SendMessage(codec.MustNewMessage(protocol.MsgChatMessage, msg))
	}
	rm.mirror(room)

	log.Info().Str("room", room.Code).Str("player", name).Int("players", room.game.PlayerCount()).Msg("👤 玩家加入房间")
	return room, nil
}

// LeaveRoom 离开当前所在房间，不在房间中时什么也不做
func (rm *RoomManager) LeaveRoom(client types.ClientInterface) {
	if code := rm.sessions.RoomOf(client.GetID()); code != "" {
		rm.RemovePlayer(code, client.GetID())
	}
}

// RemovePlayer 移除玩家（主动离开或断线）。房间空了就销毁，
// 否则大厅中广播玩家列表，游戏中广播公共快照。
func (rm *RoomManager) RemovePlayer(code, playerID string) {
	room := rm.GetRoom(code)
	if room == nil || !room.lock() {
		rm.sessions.Unbind(playerID)
		return
	}
	defer room.mu.Unlock()
	rm.removeLocked(room, playerID)
}

// removeLocked 从房间移除玩家，调用方持有 room.mu
func (rm *RoomManager) removeLocked(room *Room, playerID string) {
	p := room.game.Player(playerID)
	if p == nil {
		return
	}
	name := p.Name

	room.game.RemovePlayer(playerID)
	delete(room.clients, playerID)
	rm.sessions.Unbind(playerID)
	room.touch()

	log.Info().Str("room", room.Code).Str("player", name).Msg("👋 玩家离开房间")

	if room.game.PlayerCount() == 0 {
		rm.destroy(room)
		return
	}

	if room.game.State() == engine.StatePlaying {
		room.broadcastState()
	} else {
		room.broadcast(room.rosterMessage(protocol.MsgRosterUpdated))
	}
	rm.mirror(room)
}

// lockPair 锁住 target 和 other（可为 nil），按房间号顺序加锁。
// target 已销毁时全部解锁并返回 false。
func lockPair(target, other *Room) (func(), bool) {
	if other == target {
		other = nil
	}
	first, second := target, other
	if other != nil && other.Code < target.Code {
		first, second = other, target
	}

	first.mu.Lock()
	if second != nil {
		second.mu.Lock()
	}
	unlock := func() {
		if second != nil {
			second.mu.Unlock()
		}
		first.mu.Unlock()
	}

	if target.closed {
		unlock()
		return nil, false
	}
	return unlock, true
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[NormalizeCode(code)]
}

// RoomCount 存活的房间数
func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// GetActiveGamesCount 获取进行中的游戏数量
func (rm *RoomManager) GetActiveGamesCount() int {
	count := 0
	for _, room := range rm.snapshotRooms() {
		if room.State() == engine.StatePlaying {
			count++
		}
	}
	return count
}

// snapshotRooms 复制房间列表，之后再逐个加房间锁
func (rm *RoomManager) snapshotRooms() []*Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	slices.SortFunc(rooms, func(a, b *Room) int { return strings.Compare(a.Code, b.Code) })
	return rooms
}

// destroy 从注册表移除房间并清理成员的会话，调用方持有 room.mu。
// 之后等待这个房间锁的请求会看到 closed 并返回 ErrRoomNotFound。
func (rm *RoomManager) destroy(room *Room) {
	room.closed = true
	for id := range room.clients {
		rm.sessions.Unbind(id)
	}

	rm.mu.Lock()
	delete(rm.rooms, room.Code)
	rm.mu.Unlock()

	rm.unmirror(room.Code)
	log.Info().Str("room", room.Code).Msg("🏠 房间已解散")
}

// generateRoomCode 生成房间号，调用方持有 rm.mu
func (rm *RoomManager) generateRoomCode() string {
	rm.rngMu.Lock()
	defer rm.rngMu.Unlock()

	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rm.rng.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// NormalizeCode 房间号去空格并转大写
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// normalizeName 校验昵称：去掉首尾空白后非空且不超过长度限制
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", apperrors.ErrInvalidName
	}
	return name, nil
}
