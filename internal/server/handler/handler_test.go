package handler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/uno-online/internal/game/room"
	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
	"github.com/palemoky/uno-online/internal/server/session"
	"github.com/palemoky/uno-online/internal/server/storage"
	"github.com/palemoky/uno-online/internal/testutil"
)

type fixture struct {
	h       *Handler
	server  *testutil.MockServer
	limiter *testutil.MockChatLimiter
	rooms   *room.RoomManager
}

func newFixture(t *testing.T, maintenance bool, lb *storage.LeaderboardManager) *fixture {
	t.Helper()
	server := new(testutil.MockServer)
	server.On("IsMaintenanceMode").Return(maintenance).Maybe()
	limiter := new(testutil.MockChatLimiter)

	rm := room.NewRoomManager(room.Options{Sessions: session.NewSessionManager(), Seed: 7})
	h := NewHandler(HandlerDeps{
		Server:      server,
		RoomManager: rm,
		ChatLimiter: limiter,
		Leaderboard: lb,
	})
	return &fixture{h: h, server: server, limiter: limiter, rooms: rm}
}

// errorCode 客户端最后收到的错误码
func errorCode(t *testing.T, c *testutil.SimpleClient) int {
	t.Helper()
	return testutil.Payload[protocol.ErrorPayload](t, testutil.LastOfType(t, c, protocol.MsgError)).Code
}

// createAndJoin 创建房间并让 guest 加入，返回房间号
func (f *fixture) createAndJoin(t *testing.T, host, guest *testutil.SimpleClient) string {
	t.Helper()
	f.h.Handle(host, codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{DisplayName: "A"}))
	created := testutil.Payload[protocol.RoomCreatedPayload](t, testutil.LastOfType(t, host, protocol.MsgRoomCreated))
	f.h.Handle(guest, codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: created.RoomCode, DisplayName: "B"}))
	require.Empty(t, guest.MessagesOfType(protocol.MsgError))
	return created.RoomCode
}

func TestHandle_UnknownType(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	c := testutil.NewSimpleClient("p1")
	f.h.Handle(c, &protocol.Message{Type: "bid"})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errorCode(t, c))
}

func TestHandle_Ping(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	c := testutil.NewSimpleClient("p1")
	f.h.Handle(c, codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 123}))

	pong := testutil.Payload[protocol.PongPayload](t, testutil.LastOfType(t, c, protocol.MsgPong))
	assert.Equal(t, int64(123), pong.ClientTimestamp)
	assert.Positive(t, pong.ServerTimestamp)
}

func TestHandle_RoomFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	host, guest := testutil.NewSimpleClient("p1"), testutil.NewSimpleClient("p2")
	code := f.createAndJoin(t, host, guest)

	joined := testutil.Payload[protocol.RoomJoinedPayload](t, testutil.LastOfType(t, host, protocol.MsgRoomJoined))
	assert.Equal(t, code, joined.RoomCode)
	assert.Len(t, joined.Players, 2)

	f.h.Handle(guest, codec.MustNewMessage(protocol.MsgStartGame, nil))
	assert.Equal(t, protocol.ErrCodeNotHost, errorCode(t, guest))

	f.h.Handle(host, codec.MustNewMessage(protocol.MsgStartGame, nil))
	assert.Len(t, host.MessagesOfType(protocol.MsgGameStarted), 1)
	assert.Len(t, guest.MessagesOfType(protocol.MsgYourHand), 1)

	// 还没轮到 guest
	guest.Reset()
	f.h.Handle(guest, codec.MustNewMessage(protocol.MsgDrawCard, nil))
	assert.Equal(t, protocol.ErrCodeNotYourTurn, errorCode(t, guest))
	f.h.Handle(guest, codec.MustNewMessage(protocol.MsgPlayCard, protocol.PlayCardPayload{HandIndex: 0}))
	assert.Equal(t, protocol.ErrCodeNotYourTurn, errorCode(t, guest))

	host.Reset()
	f.h.Handle(host, codec.MustNewMessage(protocol.MsgPass, nil))
	assert.Len(t, guest.MessagesOfType(protocol.MsgStateUpdated), 1)
	assert.Empty(t, guest.MessagesOfType(protocol.MsgYourHand), "only the drawer gets a new hand")
	assert.Len(t, host.MessagesOfType(protocol.MsgYourHand), 1)
}

func TestHandle_JoinErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	c := testutil.NewSimpleClient("p1")

	f.h.Handle(c, codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: "NOPE00", DisplayName: "A"}))
	assert.Equal(t, protocol.ErrCodeRoomNotFound, errorCode(t, c))

	f.h.Handle(c, &protocol.Message{Type: protocol.MsgJoinRoom, Payload: []byte(`{"room_code":`)})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errorCode(t, c))

	f.h.Handle(c, codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{DisplayName: "  "}))
	assert.Equal(t, protocol.ErrCodeInvalidName, errorCode(t, c))
}

func TestHandle_Maintenance(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true, nil)
	c := testutil.NewSimpleClient("p1")

	f.h.Handle(c, codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{DisplayName: "A"}))
	assert.Equal(t, protocol.ErrCodeServerMaintenance, errorCode(t, c))
	f.h.Handle(c, codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: "ABCDEF", DisplayName: "A"}))
	assert.Equal(t, protocol.ErrCodeServerMaintenance, errorCode(t, c))
	assert.Zero(t, f.rooms.RoomCount())
	f.server.AssertExpectations(t)
}

func TestHandle_Chat(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	host, guest := testutil.NewSimpleClient("p1"), testutil.NewSimpleClient("p2")
	f.createAndJoin(t, host, guest)

	f.limiter.On("AllowChat", "p1").Return(true, "").Once()
	f.h.Handle(host, codec.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{Text: "uno & <3"}))

	got := testutil.Payload[protocol.ChatMessagePayload](t, testutil.LastOfType(t, guest, protocol.MsgChatMessage))
	assert.Equal(t, "A", got.Sender)
	assert.Equal(t, "uno & <3", got.Text)
	f.limiter.AssertExpectations(t)
}

func TestHandle_ChatRateLimited(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	host, guest := testutil.NewSimpleClient("p1"), testutil.NewSimpleClient("p2")
	f.createAndJoin(t, host, guest)
	guest.Reset()

	f.limiter.On("AllowChat", "p1").Return(false, "太快了").Once()
	f.h.Handle(host, codec.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{Text: "spam"}))

	errPayload := testutil.Payload[protocol.ErrorPayload](t, testutil.LastOfType(t, host, protocol.MsgError))
	assert.Equal(t, protocol.ErrCodeRateLimit, errPayload.Code)
	assert.Equal(t, "太快了", errPayload.Message)
	assert.Empty(t, guest.MessagesOfType(protocol.MsgChatMessage))
	f.limiter.AssertExpectations(t)
}

func TestHandle_ChatOutsideRoom(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	c := testutil.NewSimpleClient("p1")
	f.limiter.On("AllowChat", "p1").Return(true, "")

	f.h.Handle(c, codec.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{Text: "hi"}))
	assert.Equal(t, protocol.ErrCodeNotInRoom, errorCode(t, c))
}

func TestOnDisconnect(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	host, guest := testutil.NewSimpleClient("p1"), testutil.NewSimpleClient("p2")
	code := f.createAndJoin(t, host, guest)
	host.Reset()

	f.limiter.On("RemoveClient", "p2").Return().Once()
	f.h.OnDisconnect(guest)

	roster := testutil.Payload[protocol.RosterUpdatedPayload](t, testutil.LastOfType(t, host, protocol.MsgRosterUpdated))
	assert.Equal(t, code, roster.RoomCode)
	assert.Len(t, roster.Players, 1)
	f.limiter.AssertExpectations(t)
}

func TestHandle_LeaveRoom(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	c := testutil.NewSimpleClient("p1")
	f.h.Handle(c, codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{DisplayName: "A"}))
	require.Equal(t, 1, f.rooms.RoomCount())

	f.h.Handle(c, codec.MustNewMessage(protocol.MsgLeaveRoom, nil))
	assert.Zero(t, f.rooms.RoomCount())
	// 不在房间中时离开什么也不做
	f.h.Handle(c, codec.MustNewMessage(protocol.MsgLeaveRoom, nil))
	assert.Empty(t, c.MessagesOfType(protocol.MsgError))
}

func TestHandle_Leaderboard(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	lb := storage.NewLeaderboardManager(rdb)
	require.NoError(t, lb.RecordGame(context.Background(), "A", []string{"A", "B"}))
	require.NoError(t, lb.RecordGame(context.Background(), "B", []string{"A", "B"}))
	require.NoError(t, lb.RecordGame(context.Background(), "A", []string{"A", "C"}))

	f := newFixture(t, false, lb)
	c := testutil.NewSimpleClient("p1")
	f.h.Handle(c, codec.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Limit: 2}))

	res := testutil.Payload[protocol.LeaderboardResultPayload](t, testutil.LastOfType(t, c, protocol.MsgLeaderboardResult))
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "A", res.Entries[0].PlayerName)
	assert.Equal(t, 2, res.Entries[0].Wins)
	assert.Equal(t, 3, res.Entries[0].Games)
	assert.Equal(t, 1, res.Entries[0].Rank)
	assert.Equal(t, "B", res.Entries[1].PlayerName)
}

func TestHandle_LeaderboardWithoutRedis(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, nil)
	c := testutil.NewSimpleClient("p1")
	f.h.Handle(c, codec.MustNewMessage(protocol.MsgGetLeaderboard, nil))

	res := testutil.Payload[protocol.LeaderboardResultPayload](t, testutil.LastOfType(t, c, protocol.MsgLeaderboardResult))
	assert.Empty(t, res.Entries)
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want int }{
		{0, defaultLeaderboardLimit},
		{-3, defaultLeaderboardLimit},
		{5, 5},
		{maxLeaderboardLimit, maxLeaderboardLimit},
		{maxLeaderboardLimit + 1, defaultLeaderboardLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampLimit(tt.in), "limit %d", tt.in)
	}
}
