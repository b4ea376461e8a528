package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/uno-online/internal/apperrors"
	"github.com/palemoky/uno-online/internal/game/card"
)

var (
	red1  = card.Card{Color: card.Red, Rank: card.Rank1}
	red5  = card.Card{Color: card.Red, Rank: card.Rank5}
	blue5 = card.Card{Color: card.Blue, Rank: card.Rank5}
	blue7 = card.Card{Color: card.Blue, Rank: card.Rank7}
	grn2  = card.Card{Color: card.Green, Rank: card.Rank2}
	ylw9  = card.Card{Color: card.Yellow, Rank: card.Rank9}
	wild  = card.Card{Rank: card.RankWild}
	wild4 = card.Card{Rank: card.RankWildDrawFour}
)

func TestStart_Deal(t *testing.T) {
	t.Parallel()

	g := newGame(t, "A", "B", "C")
	require.NoError(t, g.Start("A"))

	assert.Equal(t, StatePlaying, g.State())
	assert.Equal(t, "A", g.TurnHolder().ID)
	assert.Equal(t, Forward, g.Direction())
	for _, p := range g.Players() {
		assert.Len(t, p.Hand, HandSize, p.Name)
	}

	top, ok := g.TopCard()
	require.True(t, ok)
	assert.False(t, top.IsWild(), "seed card is never wild")
	assert.Equal(t, top.Color, g.BoundColor())
	assert.Equal(t, 1, g.deck.DiscardCount())
	assert.Equal(t, card.Tally(card.Build()), card.Tally(g.AllCards()))
}

func TestStart_ManySeeds(t *testing.T) {
	t.Parallel()

	// 不同随机种子下首张牌都不是万能牌
	for seed := range uint64(50) {
		g := New(card.NewRNG(seed, seed*31), MaxPlayers)
		require.NoError(t, g.AddPlayer("A", "A"))
		require.NoError(t, g.AddPlayer("B", "B"))
		require.NoError(t, g.Start("A"))

		top, _ := g.TopCard()
		assert.False(t, top.IsWild())
		assert.Len(t, g.AllCards(), card.DeckSize)
	}
}

func TestStart_Errors(t *testing.T) {
	t.Parallel()

	solo := newGame(t, "A")
	assert.ErrorIs(t, solo.Start("A"), apperrors.ErrNotEnoughPlayers)

	g := newGame(t, "A", "B")
	assert.ErrorIs(t, g.Start("B"), apperrors.ErrNotHost)
	assert.ErrorIs(t, g.Start("X"), apperrors.ErrNotInRoom)
	assert.Equal(t, StateLobby, g.State())

	require.NoError(t, g.Start("A"))
	assert.ErrorIs(t, g.Start("A"), apperrors.ErrGameAlreadyStarted)
}

func TestRequests_BeforeStart(t *testing.T) {
	t.Parallel()

	g := newGame(t, "A", "B")
	_, err := g.Play("A", 0, card.ColorNone)
	assert.ErrorIs(t, err, apperrors.ErrGameNotStarted)
	_, err = g.Draw("A")
	assert.ErrorIs(t, err, apperrors.ErrGameNotStarted)
}

func TestOutOfTurn_IsInert(t *testing.T) {
	t.Parallel()

	g := newGame(t, "A", "B", "C")
	require.NoError(t, g.Start("A"))
	before := card.Tally(g.AllCards())
	handB := append([]card.Card(nil), g.Player("B").Hand...)
	top, _ := g.TopCard()

	_, err := g.Play("B", 0, card.Red)
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)
	_, err = g.Draw("C")
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)
	_, err = g.Pass("B")
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)

	assert.Equal(t, "A", g.TurnHolder().ID)
	assert.Equal(t, handB, g.Player("B").Hand)
	newTop, _ := g.TopCard()
	assert.Equal(t, top, newTop)
	assert.Equal(t, before, card.Tally(g.AllCards()))
}

func TestPlay_Legality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hand    []card.Card
		index   int
		chosen  card.Color
		wantErr error
	}{
		{name: "same color", hand: []card.Card{red1, ylw9}, index: 0},
		{name: "same rank", hand: []card.Card{blue5, ylw9}, index: 0},
		{name: "wild with color", hand: []card.Card{wild, ylw9}, index: 0, chosen: card.Green},
		{name: "no match", hand: []card.Card{grn2, ylw9}, index: 0, wantErr: apperrors.ErrIllegalMove},
		{name: "wild without color", hand: []card.Card{wild, ylw9}, index: 0, wantErr: apperrors.ErrColorRequired},
		{name: "wild4 without color", hand: []card.Card{wild4, ylw9}, index: 0, wantErr: apperrors.ErrColorRequired},
		{name: "negative index", hand: []card.Card{red1}, index: -1, wantErr: apperrors.ErrInvalidCard},
		{name: "index past hand", hand: []card.Card{red1}, index: 1, wantErr: apperrors.ErrInvalidCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := forced(t, []string{"A", "B"},
				[][]card.Card{tt.hand, {grn2, grn2}},
				[]card.Card{ylw9, ylw9, ylw9, ylw9}, red5)
			before := card.Tally(g.AllCards())

			res, err := g.Play("A", tt.index, tt.chosen)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				assert.Equal(t, "A", g.TurnHolder().ID)
				assert.Len(t, g.Player("A").Hand, len(tt.hand))
				assert.Equal(t, card.Red, g.BoundColor())
			} else {
				require.NoError(t, err)
				assert.True(t, res.Played)
				assert.Equal(t, tt.hand[tt.index], res.Card)
				top, _ := g.TopCard()
				assert.Equal(t, tt.hand[tt.index], top)
			}
			assert.Equal(t, before, card.Tally(g.AllCards()))
		})
	}
}

func TestPlay_NumberAdvancesOnce(t *testing.T) {
	t.Parallel()

	g := forced(t, []string{"A", "B", "C"},
		[][]card.Card{{red1, ylw9}, {grn2}, {grn2}}, nil, red5)

	res, err := g.Play("A", 0, card.ColorNone)
	require.NoError(t, err)
	assert.Equal(t, "B", g.TurnHolder().ID)
	assert.Equal(t, []string{"A"}, res.Changed)
	assert.Empty(t, res.Victim)
	assert.Equal(t, card.Red, g.BoundColor())
}

func TestPlay_WildBindsChosenColor(t *testing.T) {
	t.Parallel()

	g := forced(t, []string{"A", "B"},
		[][]card.Card{{wild, ylw9}, {grn2}}, nil, red5)

	_, err := g.Play("A", 0, card.Green)
	require.NoError(t, err)
	assert.Equal(t, card.Green, g.BoundColor())
	assert.True(t, g.CanPlay(grn2), "green now playable")
	assert.False(t, g.CanPlay(red1))
}

func TestPlay_WinBeforeEffect(t *testing.T) {
	t.Parallel()

	skip := card.Card{Color: card.Red, Rank: card.RankSkip}
	g := forced(t, []string{"A", "B", "C"},
		[][]card.Card{{skip}, {grn2}, {grn2}}, []card.Card{ylw9}, red5)

	res, err := g.Play("A", 0, card.ColorNone)
	require.NoError(t, err)
	assert.Equal(t, "A", res.Winner)
	assert.Equal(t, StateFinished, g.State())
	assert.Equal(t, "A", g.Winner().ID)
	assert.Zero(t, g.TurnIndex(), "effect of winning card is not applied")

	// 结束后的请求一律拒绝
	_, err = g.Draw("B")
	assert.ErrorIs(t, err, apperrors.ErrGameNotStarted)
	_, err = g.Play("A", 0, card.ColorNone)
	assert.ErrorIs(t, err, apperrors.ErrGameNotStarted)
}

func TestPlay_WinWithDrawFourGivesNoPenalty(t *testing.T) {
	t.Parallel()

	g := forced(t, []string{"A", "B"},
		[][]card.Card{{wild4}, {grn2}}, []card.Card{ylw9, ylw9, ylw9, ylw9}, red5)

	res, err := g.Play("A", 0, card.Blue)
	require.NoError(t, err)
	assert.Equal(t, "A", res.Winner)
	assert.Empty(t, res.Victim)
	assert.Len(t, g.Player("B").Hand, 1)
}

func TestDraw_EndsTurn(t *testing.T) {
	t.Parallel()

	g := forced(t, []string{"A", "B", "C"},
		[][]card.Card{{grn2}, {grn2}, {grn2}}, []card.Card{blue7}, red5)

	res, err := g.Draw("A")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Drawn)
	assert.Equal(t, []string{"A"}, res.Changed)
	assert.Equal(t, []card.Card{grn2, blue7}, g.Player("A").Hand)
	assert.Equal(t, "B", g.TurnHolder().ID)

	// 过牌也摸一张
	_, err = g.Pass("B")
	require.Error(t, err, "deck is empty and discard holds only the top card")
	assert.ErrorIs(t, err, apperrors.ErrDeckExhausted)
	assert.Equal(t, "B", g.TurnHolder().ID, "failed draw changes nothing")
	assert.Len(t, g.Player("B").Hand, 1)
}

func TestDraw_Recycles(t *testing.T) {
	t.Parallel()

	g := forced(t, []string{"A", "B"},
		[][]card.Card{{red1, ylw9}, {grn2, grn2}}, nil, red5)

	_, err := g.Play("A", 0, card.ColorNone) // 弃牌堆: red5, red1
	require.NoError(t, err)

	_, err = g.Draw("B")
	require.NoError(t, err)
	assert.Equal(t, red5, g.Player("B").Hand[2], "only non-top discard is recycled")
	top, _ := g.TopCard()
	assert.Equal(t, red1, top)
	assert.Equal(t, 1, g.deck.DiscardCount())
}

// TestConservation 随机对局，每一步之后总牌数都是完整的一副
func TestConservation(t *testing.T) {
	t.Parallel()

	full := card.Tally(card.Build())
	for seed := range uint64(20) {
		g := New(card.NewRNG(seed, 99), MaxPlayers)
		for _, n := range []string{"A", "B", "C", "D"} {
			require.NoError(t, g.AddPlayer(n, n))
		}
		require.NoError(t, g.Start("A"))

		for step := 0; step < 2000 && g.State() == StatePlaying; step++ {
			p := g.TurnHolder()
			idx := -1
			for i, c := range p.Hand {
				if g.CanPlay(c) {
					idx = i
					break
				}
			}

			var err error
			if idx >= 0 {
				_, err = g.Play(p.ID, idx, card.Colors[step%len(card.Colors)])
			} else {
				_, err = g.Draw(p.ID)
			}
			if errors.Is(err, apperrors.ErrDeckExhausted) {
				break
			}
			require.NoError(t, err)
			require.Equal(t, full, card.Tally(g.AllCards()), "seed %d step %d", seed, step)

			if step == 40 && g.State() == StatePlaying {
				// 中途有人离开
				require.True(t, g.RemovePlayer(g.Players()[1].ID))
				require.Equal(t, full, card.Tally(g.AllCards()))
			}
		}
	}
}
