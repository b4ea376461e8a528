package card

import (
	"math/rand/v2"

	"github.com/palemoky/uno-online/internal/apperrors"
)

// 牌组构成
const (
	DeckSize      = 108 // 76 数字 + 24 功能 + 8 万能
	NumberCount   = 76
	ActionCount   = 24
	WildCount     = 8
	wildsPerRank  = 4
	copiesPerCard = 2 // 除 0 以外每种颜色的牌各两张
)

// Build 构建一副标准 108 张牌（未洗牌）
func Build() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, c := range Colors {
		cards = append(cards, Card{Color: c, Rank: Rank0})
		for r := Rank1; r <= RankDrawTwo; r++ {
			for range copiesPerCard {
				cards = append(cards, Card{Color: c, Rank: r})
			}
		}
	}
	for range wildsPerRank {
		cards = append(cards,
			Card{Color: ColorNone, Rank: RankWild},
			Card{Color: ColorNone, Rank: RankWildDrawFour},
		)
	}
	return cards
}

// Shuffle 原地洗牌（Fisher–Yates）
func Shuffle(pile []Card, rng *rand.Rand) {
	rng.Shuffle(len(pile), func(i, j int) {
		pile[i], pile[j] = pile[j], pile[i]
	})
}

// NewRNG 创建随机源，seed 相同则序列相同
func NewRNG(seed1, seed2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// Deck 摸牌堆 + 弃牌堆。两个切片都以末尾为"顶"。
type Deck struct {
	drawPile []Card
	discard  []Card
	rng      *rand.Rand
}

// NewDeck 创建已洗好的一副牌
func NewDeck(rng *rand.Rand) *Deck {
	cards := Build()
	Shuffle(cards, rng)
	return &Deck{drawPile: cards, rng: rng}
}

// NewDeckFrom 用指定的牌堆创建牌组（主要用于测试构造局面）
func NewDeckFrom(drawPile, discard []Card, rng *rand.Rand) *Deck {
	return &Deck{
		drawPile: append([]Card(nil), drawPile...),
		discard:  append([]Card(nil), discard...),
		rng:      rng,
	}
}

// Draw 从摸牌堆顶摸一张，摸牌堆为空时先回收弃牌堆
func (d *Deck) Draw() (Card, error) {
	if len(d.drawPile) == 0 {
		if err := d.Recycle(); err != nil {
			return Card{}, err
		}
	}
	last := len(d.drawPile) - 1
	c := d.drawPile[last]
	d.drawPile = d.drawPile[:last]
	return c, nil
}

// Recycle 把弃牌堆（除顶牌外）洗回摸牌堆。
// 顶牌决定当前能出什么牌，必须留在弃牌堆上。
func (d *Deck) Recycle() error {
	if len(d.discard) <= 1 {
		return apperrors.ErrDeckExhausted
	}
	last := len(d.discard) - 1
	top := d.discard[last]

	recycled := make([]Card, 0, len(d.drawPile)+last)
	recycled = append(recycled, d.drawPile...)
	recycled = append(recycled, d.discard[:last]...)
	Shuffle(recycled, d.rng)

	d.drawPile = recycled
	d.discard = []Card{top}
	return nil
}

// Discard 把牌放到弃牌堆顶
func (d *Deck) Discard(c Card) {
	d.discard = append(d.discard, c)
}

// PutBottom 把牌放到摸牌堆底
func (d *Deck) PutBottom(cards ...Card) {
	d.drawPile = append(append(make([]Card, 0, len(d.drawPile)+len(cards)), cards...), d.drawPile...)
}

// Top 弃牌堆顶牌
func (d *Deck) Top() (Card, bool) {
	if len(d.discard) == 0 {
		return Card{}, false
	}
	return d.discard[len(d.discard)-1], true
}

// DrawCount 摸牌堆剩余张数
func (d *Deck) DrawCount() int {
	return len(d.drawPile)
}

// DiscardCount 弃牌堆张数
func (d *Deck) DiscardCount() int {
	return len(d.discard)
}

// Cards 返回两个牌堆中所有牌的副本（摸牌堆在前）
func (d *Deck) Cards() []Card {
	out := make([]Card, 0, len(d.drawPile)+len(d.discard))
	out = append(out, d.drawPile...)
	return append(out, d.discard...)
}

// Tally 统计若干组牌中每种牌的张数
func Tally(groups ...[]Card) map[Card]int {
	counts := make(map[Card]int)
	for _, g := range groups {
		for _, c := range g {
			counts[c]++
		}
	}
	return counts
}
