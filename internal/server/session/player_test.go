package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_BindUnbind(t *testing.T) {
	t.Parallel()
	sm := NewSessionManager()

	assert.Empty(t, sm.RoomOf("p1"))
	_, ok := sm.GetSession("p1")
	assert.False(t, ok)

	sm.Bind("p1", "K3X9QZ", "派大星")
	s, ok := sm.GetSession("p1")
	require.True(t, ok)
	assert.Equal(t, "K3X9QZ", s.RoomCode)
	assert.Equal(t, "派大星", s.PlayerName)
	assert.False(t, s.JoinedAt.IsZero())
	assert.Equal(t, "K3X9QZ", sm.RoomOf("p1"))
	assert.Equal(t, 1, sm.Count())

	// 换房间时覆盖
	sm.Bind("p1", "AAAAAA", "派大星")
	assert.Equal(t, "AAAAAA", sm.RoomOf("p1"))
	assert.Equal(t, 1, sm.Count())

	sm.Unbind("p1")
	assert.Empty(t, sm.RoomOf("p1"))
	assert.Zero(t, sm.Count())

	// 重复删除不报错
	assert.NotPanics(t, func() { sm.Unbind("p1") })
}

func TestSessionManager_GetSessionReturnsCopy(t *testing.T) {
	t.Parallel()
	sm := NewSessionManager()
	sm.Bind("p1", "K3X9QZ", "派大星")

	s, _ := sm.GetSession("p1")
	s.RoomCode = "CHANGED"
	assert.Equal(t, "K3X9QZ", sm.RoomOf("p1"))
}

func TestSessionManager_Concurrent(t *testing.T) {
	t.Parallel()
	sm := NewSessionManager()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			id := fmt.Sprintf("p%d", i)
			sm.Bind(id, "ROOM01", id)
			_ = sm.RoomOf(id)
			if i%2 == 0 {
				sm.Unbind(id)
			}
		})
	}
	wg.Wait()
	assert.Equal(t, 25, sm.Count())
}
