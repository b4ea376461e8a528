package room

import (
	"github.com/palemoky/uno-online/internal/game/engine"
	"github.com/palemoky/uno-online/internal/game/view"
	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
)

// 以下方法都要求调用方持有 r.mu

// broadcast 发给房间内所有人。SendMessage 不阻塞，慢连接会被关闭。
func (r *Room) broadcast(msg *protocol.Message) {
	for _, client := range r.clients {
		client.SendMessage(msg)
	}
}

// sendTo 只发给指定玩家
func (r *Room) sendTo(playerID string, msg *protocol.Message) {
	if client, ok := r.clients[playerID]; ok {
		client.SendMessage(msg)
	}
}

// broadcastState 广播公共快照，所有人收到同一条消息
func (r *Room) broadcastState() {
	r.broadcast(codec.MustNewMessage(protocol.MsgStateUpdated, view.Snapshot(r.Code, r.game)))
}

// broadcastTurn 广播带有本回合操作记录的公共快照
func (r *Room) broadcastTurn(res *engine.Result) {
	s := view.Snapshot(r.Code, r.game)
	action := view.Action(r.game, res)
	s.LastAction = &action
	r.broadcast(codec.MustNewMessage(protocol.MsgStateUpdated, s))
}

// sendHand 给玩家发私有手牌
func (r *Room) sendHand(playerID string) {
	p := r.game.Player(playerID)
	if p == nil {
		return
	}
	r.sendTo(playerID, codec.MustNewMessage(protocol.MsgYourHand, view.Hand(p)))
}

// rosterMessage 大厅玩家列表消息
func (r *Room) rosterMessage(msgType protocol.MessageType) *protocol.Message {
	players := view.Players(r.game)
	switch msgType {
	case protocol.MsgRoomJoined:
		return codec.MustNewMessage(msgType, protocol.RoomJoinedPayload{RoomCode: r.Code, Players: players})
	default:
		return codec.MustNewMessage(msgType, protocol.RosterUpdatedPayload{RoomCode: r.Code, Players: players})
	}
}
