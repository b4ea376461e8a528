package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/uno-online/internal/game/card"
	"github.com/palemoky/uno-online/internal/game/engine"
	"github.com/palemoky/uno-online/internal/protocol"
)

func newPlaying(t *testing.T) *engine.Game {
	t.Helper()

	g := engine.New(card.NewRNG(1, 1), engine.MaxPlayers)
	require.NoError(t, g.AddPlayer("p1", "派大星"))
	require.NoError(t, g.AddPlayer("p2", "章鱼哥"))

	deck := card.NewDeckFrom(
		[]card.Card{{Color: card.Green, Rank: card.Rank1}},
		[]card.Card{{Color: card.Red, Rank: card.RankSkip}},
		card.NewRNG(1, 1))
	g.ForcePlaying([][]card.Card{
		{{Color: card.Red, Rank: card.Rank3}, {Rank: card.RankWild}},
		{{Color: card.Blue, Rank: card.Rank4}},
	}, deck, 1, engine.Backward, card.Red)
	return g
}

func TestSnapshot_Lobby(t *testing.T) {
	t.Parallel()

	g := engine.New(card.NewRNG(1, 1), engine.MaxPlayers)
	require.NoError(t, g.AddPlayer("p1", "派大星"))

	s := Snapshot("ABC123", g)
	assert.Equal(t, "lobby", s.State)
	assert.Nil(t, s.TopCard)
	assert.Empty(t, s.TurnHolder)
	require.Len(t, s.Players, 1)
	assert.True(t, s.Players[0].IsHost)
}

func TestSnapshot_Playing(t *testing.T) {
	t.Parallel()

	s := Snapshot("ABC123", newPlaying(t))
	assert.Equal(t, protocol.StatePayload{
		RoomCode: "ABC123",
		State:    "playing",
		Players: []protocol.PlayerInfo{
			{ID: "p1", Name: "派大星", CardCount: 2, IsHost: true},
			{ID: "p2", Name: "章鱼哥", CardCount: 1, OneLeft: true},
		},
		TurnHolder: "章鱼哥",
		TopCard:    &protocol.CardInfo{Color: "red", Rank: "skip"},
		BoundColor: "red",
		Direction:  "backward",
	}, s)
}

func TestStartedAndHand(t *testing.T) {
	t.Parallel()

	g := newPlaying(t)
	started := Started(g)
	assert.Equal(t, protocol.CardInfo{Color: "red", Rank: "skip"}, started.TopCard)
	assert.Equal(t, "章鱼哥", started.TurnHolder)
	assert.Len(t, started.Players, 2)

	hand := Hand(g.Player("p1"))
	assert.Equal(t, []protocol.CardInfo{
		{Color: "red", Rank: "3"},
		{Color: "none", Rank: "wild"},
	}, hand.Cards)
}

func TestAction(t *testing.T) {
	t.Parallel()

	g := newPlaying(t)
	red3 := card.Card{Color: card.Red, Rank: card.Rank3}

	tests := []struct {
		name string
		res  *engine.Result
		want protocol.ActionInfo
	}{
		{
			name: "play with penalty",
			res:  &engine.Result{ActorID: "p1", Card: red3, Played: true, Victim: "p2", Drawn: 2},
			want: protocol.ActionInfo{Player: "派大星", Kind: ActionPlay, Card: &protocol.CardInfo{Color: "red", Rank: "3"}, Victim: "章鱼哥", Drawn: 2},
		},
		{
			name: "draw hides the card",
			res:  &engine.Result{ActorID: "p2", Drawn: 1},
			want: protocol.ActionInfo{Player: "章鱼哥", Kind: ActionDraw, Drawn: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Action(g, tt.res))
		})
	}
}
