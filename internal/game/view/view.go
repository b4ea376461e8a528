// Package view 把引擎状态投影成发给客户端的公共快照和私有手牌。
//
// 公共快照只包含每个人的手牌张数，手牌内容只出现在 YourHandPayload 中。
package view

import (
	"github.com/palemoky/uno-online/internal/game/engine"
	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/convert"
)

// 操作类型
const (
	ActionPlay = "play"
	ActionDraw = "draw"
)

// Players 按加入顺序生成公共玩家列表
func Players(g *engine.Game) []protocol.PlayerInfo {
	players := g.Players()
	infos := make([]protocol.PlayerInfo, len(players))
	for i, p := range players {
		infos[i] = protocol.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			CardCount: len(p.Hand),
			IsHost:    p.ID == g.HostID(),
			OneLeft:   g.State() == engine.StatePlaying && len(p.Hand) == 1,
		}
	}
	return infos
}

// Snapshot 公共快照，房间内每个人收到的内容完全相同
func Snapshot(code string, g *engine.Game) protocol.StatePayload {
	s := protocol.StatePayload{
		RoomCode: code,
		State:    g.State().String(),
		Players:  Players(g),
	}
	if g.State() == engine.StateLobby {
		return s
	}

	if holder := g.TurnHolder(); holder != nil {
		s.TurnHolder = holder.Name
	}
	if top, ok := g.TopCard(); ok {
		info := convert.CardToInfo(top)
		s.TopCard = &info
	}
	s.BoundColor = g.BoundColor().String()
	s.Direction = g.Direction().String()
	return s
}

// Action 把回合结果转成公共的操作记录
func Action(g *engine.Game, res *engine.Result) protocol.ActionInfo {
	a := protocol.ActionInfo{Kind: ActionDraw, Drawn: res.Drawn}
	if p := g.Player(res.ActorID); p != nil {
		a.Player = p.Name
	}
	if res.Played {
		info := convert.CardToInfo(res.Card)
		a.Kind = ActionPlay
		a.Card = &info
	}
	if v := g.Player(res.Victim); v != nil {
		a.Victim = v.Name
	}
	return a
}

// Started 开局广播
func Started(g *engine.Game) protocol.GameStartedPayload {
	p := protocol.GameStartedPayload{
		BoundColor: g.BoundColor().String(),
		Players:    Players(g),
	}
	if top, ok := g.TopCard(); ok {
		p.TopCard = convert.CardToInfo(top)
	}
	if holder := g.TurnHolder(); holder != nil {
		p.TurnHolder = holder.Name
	}
	return p
}

// Hand 玩家的私有手牌
func Hand(p *engine.Player) protocol.YourHandPayload {
	return protocol.YourHandPayload{Cards: convert.CardsToInfos(p.Hand)}
}
