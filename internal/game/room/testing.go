//go:build !production

package room

import (
	"github.com/palemoky/uno-online/internal/game/card"
	"github.com/palemoky/uno-online/internal/game/engine"
)

// 本文件仅用于测试，生产构建时排除

// ForcePlaying 把房间置为进行中并使用指定的手牌和牌堆
func (r *Room) ForcePlaying(hands [][]card.Card, deck *card.Deck, turn int, dir engine.Direction, bound card.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.game.ForcePlaying(hands, deck, turn, dir, bound)
}

// WithGame 在房间锁内访问游戏状态
func (r *Room) WithGame(fn func(g *engine.Game)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.game)
}
