package engine

import (
	"slices"

	"github.com/palemoky/uno-online/internal/apperrors"
	"github.com/palemoky/uno-online/internal/game/card"
)

// Result 一次回合操作的结果，房间据此决定广播什么
type Result struct {
	ActorID string
	Card    card.Card // 打出的牌，摸牌时为零值
	Played  bool
	Drawn   int    // 摸牌数量（主动摸牌为 1，罚摸为实际给到受害者的张数）
	Victim  string // +2 / +4 的受害者
	Winner  string // 非空表示游戏结束
	Changed []string
}

// Start 房主开局：洗牌、每人发 7 张、翻出首张非万能牌
func (g *Game) Start(actorID string) error {
	if g.state != StateLobby {
		return apperrors.ErrGameAlreadyStarted
	}
	if g.indexOf(actorID) < 0 {
		return apperrors.ErrNotInRoom
	}
	if actorID != g.hostID {
		return apperrors.ErrNotHost
	}
	if len(g.players) < MinPlayers {
		return apperrors.ErrNotEnoughPlayers
	}

	deck := card.NewDeck(g.rng)
	hands := make([][]card.Card, len(g.players))
	for range HandSize {
		for i := range g.players {
			c, err := deck.Draw()
			if err != nil {
				return err
			}
			hands[i] = append(hands[i], c)
		}
	}

	first, err := flipFirst(deck)
	if err != nil {
		return err
	}

	for i, p := range g.players {
		p.Hand = hands[i]
	}
	g.deck = deck
	g.boundColor = first.Color
	g.direction = Forward
	g.turn = 0
	g.winnerID = ""
	g.state = StatePlaying
	return nil
}

// flipFirst 翻首张牌，万能牌放回摸牌堆底重翻。首张牌的效果不生效。
func flipFirst(deck *card.Deck) (card.Card, error) {
	for range deck.DrawCount() {
		c, err := deck.Draw()
		if err != nil {
			return card.Card{}, err
		}
		if c.IsWild() {
			deck.PutBottom(c)
			continue
		}
		deck.Discard(c)
		return c, nil
	}
	return card.Card{}, apperrors.ErrDeckExhausted
}

// Play 当前玩家打出第 handIndex 张手牌。chosen 仅对万能牌有效。
func (g *Game) Play(actorID string, handIndex int, chosen card.Color) (*Result, error) {
	p, err := g.actor(actorID)
	if err != nil {
		return nil, err
	}
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return nil, apperrors.ErrInvalidCard
	}

	c := p.Hand[handIndex]
	if !g.CanPlay(c) {
		return nil, apperrors.ErrIllegalMove
	}
	bound := c.Color
	if c.IsWild() {
		if !chosen.IsPlayable() {
			return nil, apperrors.ErrColorRequired
		}
		bound = chosen
	}

	p.Hand = slices.Delete(p.Hand, handIndex, handIndex+1)
	g.deck.Discard(c)
	g.boundColor = bound

	res := &Result{ActorID: p.ID, Card: c, Played: true, Changed: []string{p.ID}}

	// 出完最后一张立即获胜，牌的效果不再结算
	if len(p.Hand) == 0 {
		g.state = StateFinished
		g.winnerID = p.ID
		res.Winner = p.ID
		return res, nil
	}

	g.applyEffect(c, res)
	g.advance()
	return res, nil
}

// Draw 当前玩家摸一张牌，摸牌后回合结束
func (g *Game) Draw(actorID string) (*Result, error) {
	p, err := g.actor(actorID)
	if err != nil {
		return nil, err
	}

	c, err := g.deck.Draw()
	if err != nil {
		return nil, err
	}
	p.Hand = append(p.Hand, c)
	g.advance()

	return &Result{ActorID: p.ID, Drawn: 1, Changed: []string{p.ID}}, nil
}

// Pass 过牌，等同于摸一张牌
func (g *Game) Pass(actorID string) (*Result, error) {
	return g.Draw(actorID)
}

// CanPlay 牌 c 能否压在当前顶牌上
func (g *Game) CanPlay(c card.Card) bool {
	if c.IsWild() {
		return true
	}
	if c.Color == g.boundColor {
		return true
	}
	top, ok := g.TopCard()
	return ok && c.Rank == top.Rank
}

// actor 校验状态和回合归属
func (g *Game) actor(actorID string) (*Player, error) {
	if g.state != StatePlaying {
		return nil, apperrors.ErrGameNotStarted
	}
	idx := g.indexOf(actorID)
	if idx < 0 {
		return nil, apperrors.ErrNotInRoom
	}
	if idx != g.turn {
		return nil, apperrors.ErrNotYourTurn
	}
	return g.players[idx], nil
}

// advance 沿当前方向移动一位，回合指针只在这里前进
func (g *Game) advance() {
	n := len(g.players)
	if n == 0 {
		return
	}
	g.turn = ((g.turn+int(g.direction))%n + n) % n
}
