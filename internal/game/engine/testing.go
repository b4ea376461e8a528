//go:build !production

package engine

import (
	"github.com/palemoky/uno-online/internal/game/card"
)

// 本文件仅用于测试构造局面，生产构建时排除

// ForcePlaying 直接把游戏置为进行中，使用给定的手牌和牌堆
func (g *Game) ForcePlaying(hands [][]card.Card, deck *card.Deck, turn int, dir Direction, bound card.Color) {
	for i, p := range g.players {
		if i < len(hands) {
			p.Hand = append([]card.Card(nil), hands[i]...)
		}
	}
	g.deck = deck
	g.turn = turn
	g.direction = dir
	g.boundColor = bound
	g.winnerID = ""
	g.state = StatePlaying
}

// AllCards 返回游戏持有的所有牌（牌堆 + 手牌）
func (g *Game) AllCards() []card.Card {
	var out []card.Card
	if g.deck != nil {
		out = append(out, g.deck.Cards()...)
	}
	for _, p := range g.players {
		out = append(out, p.Hand...)
	}
	return out
}

// TurnIndex 当前回合下标
func (g *Game) TurnIndex() int { return g.turn }
