package engine

import (
	"github.com/palemoky/uno-online/internal/game/card"
)

// penalty 罚摸张数
var penalty = map[card.Rank]int{
	card.RankDrawTwo:      2,
	card.RankWildDrawFour: 4,
}

// applyEffect 结算功能牌。调用方随后还会执行一次默认的 advance。
func (g *Game) applyEffect(c card.Card, res *Result) {
	switch c.Rank {
	case card.RankSkip:
		g.advance()

	case card.RankReverse:
		// 两人局里反转等同跳过
		if len(g.players) == 2 {
			g.advance()
			return
		}
		g.direction = -g.direction

	case card.RankDrawTwo, card.RankWildDrawFour:
		g.advance()
		victim := g.players[g.turn]
		res.Victim = victim.ID
		res.Drawn = g.give(victim, penalty[c.Rank])
		if res.Drawn > 0 {
			res.Changed = append(res.Changed, victim.ID)
		}
	}
}

// give 罚摸 n 张，牌堆耗尽时能给多少给多少
func (g *Game) give(p *Player, n int) int {
	given := 0
	for range n {
		c, err := g.deck.Draw()
		if err != nil {
			break
		}
		p.Hand = append(p.Hand, c)
		given++
	}
	return given
}
