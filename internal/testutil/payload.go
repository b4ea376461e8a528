//go:build !production

package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/palemoky/uno-online/internal/protocol"
	"github.com/palemoky/uno-online/internal/protocol/codec"
)

// Payload 解析消息的 payload，失败时终止测试
func Payload[T any](t testing.TB, msg *protocol.Message) *T {
	t.Helper()
	require.NotNil(t, msg)
	p, err := codec.ParsePayload[T](msg)
	require.NoError(t, err)
	return p
}

// LastOfType 最后一条指定类型的消息，失败时终止测试
func LastOfType(t testing.TB, c *SimpleClient, typ protocol.MessageType) *protocol.Message {
	t.Helper()
	msgs := c.MessagesOfType(typ)
	require.NotEmpty(t, msgs, "no %s message for %s", typ, c.ID)
	return msgs[len(msgs)-1]
}
