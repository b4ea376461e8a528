package room

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/palemoky/uno-online/internal/apperrors"
	"github.com/palemoky/uno-online/internal/game/card"
	"github.com/palemoky/uno-online/internal/game/engine"
	"github.com/palemoky/uno-online/internal/game/view"
	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
	"github.com/palemoky/uno-online/internal/types"
)

// roomOf 找到玩家所在房间并加锁，调用方负责解锁
func (rm *RoomManager) roomOf(client types.ClientInterface) (*Room, error) {
	code := rm.sessions.RoomOf(client.GetID())
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}
	room := rm.GetRoom(code)
	if room == nil || !room.lock() {
		return nil, apperrors.ErrRoomNotFound
	}
	if room.game.Player(client.GetID()) == nil {
		room.mu.Unlock()
		return nil, apperrors.ErrNotInRoom
	}
	return room, nil
}

// StartGame 房主开局，广播开局信息并给每个人发私有手牌
func (rm *RoomManager) StartGame(client types.ClientInterface) error {
	room, err := rm.roomOf(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	if err := room.game.Start(client.GetID()); err != nil {
		return err
	}
	room.touch()

	room.broadcast(codec.MustNewMessage(protocol.MsgGameStarted, view.Started(room.game)))
	for _, p := range room.game.Players() {
		room.sendHand(p.ID)
	}
	rm.mirror(room)

	top, _ := room.game.TopCard()
	log.Info().Str("room", room.Code).Int("players", room.game.PlayerCount()).Stringer("top", top).Msg("🎮 游戏开始")
	return nil
}

// PlayCard 出牌。chosenColor 只对万能牌有效，无法识别的颜色等同于未选择。
func (rm *RoomManager) PlayCard(client types.ClientInterface, handIndex int, chosenColor string) error {
	room, err := rm.roomOf(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	chosen, _ := card.ParseColor(strings.ToLower(strings.TrimSpace(chosenColor)))
	res, err := room.game.Play(client.GetID(), handIndex, chosen)
	if err != nil {
		return err
	}
	rm.afterTurn(room, res)
	return nil
}

// DrawCard 摸一张牌，回合结束
func (rm *RoomManager) DrawCard(client types.ClientInterface) error {
	room, err := rm.roomOf(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	res, err := room.game.Draw(client.GetID())
	if err != nil {
		return err
	}
	rm.afterTurn(room, res)
	return nil
}

// Pass 过牌（摸一张并结束回合）
func (rm *RoomManager) Pass(client types.ClientInterface) error {
	room, err := rm.roomOf(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	res, err := room.game.Pass(client.GetID())
	if err != nil {
		return err
	}
	rm.afterTurn(room, res)
	return nil
}

// afterTurn 同步回合结果：公共快照 + 手牌有变化的人的私有手牌。
// 有人获胜时再广播结束消息并解散房间。
func (rm *RoomManager) afterTurn(room *Room, res *engine.Result) {
	room.touch()
	room.broadcastTurn(res)
	for _, id := range res.Changed {
		room.sendHand(id)
	}

	if res.Winner == "" {
		rm.mirror(room)
		return
	}

	winner := room.game.Winner()
	room.broadcast(codec.MustNewMessage(protocol.MsgGameEnded, protocol.GameEndedPayload{Winner: winner.Name}))
	log.Info().Str("room", room.Code).Str("winner", winner.Name).Msg("🏆 游戏结束")

	names := make([]string, 0, room.game.PlayerCount())
	for _, p := range room.game.Players() {
		names = append(names, p.Name)
	}
	rm.recordGame(room.Code, winner.Name, names)
	rm.destroy(room)
}

// Chat 房间内聊天，原样转发并附上服务器时间
func (rm *RoomManager) Chat(client types.ClientInterface, text string) error {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > rm.chatMaxLength {
		return apperrors.ErrInvalidMsg
	}

	room, err := rm.roomOf(client)
	if err != nil {
		return err
	}
	defer room.mu.Unlock()

	msg := protocol.ChatMessagePayload{
		Sender:    room.game.Player(client.GetID()).Name,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
	room.chat = append(room.chat, msg)
	if over := len(room.chat) - rm.chatHistory; over > 0 {
		room.chat = append(room.chat[:0], room.chat[over:]...)
	}

	room.broadcast(codec.MustNewMessage(protocol.MsgChatMessage, msg))
	return nil
}
