package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/uno-online/internal/protocol"
)

// Codec 连接上的帧编解码器
type Codec interface {
	Name() string
	// Binary 为 true 时使用二进制帧发送
	Binary() bool
	Encode(msg *protocol.Message) ([]byte, error)
	// Decode 返回的消息来自池，处理完后应调用 PutMessage
	Decode(data []byte) (*protocol.Message, error)
}

const (
	NameJSON     = "json"
	NameProtobuf = "protobuf"
)

var (
	JSON     Codec = jsonCodec{}
	Protobuf Codec = protobufCodec{}
)

// ForName 按名字选择编解码器，空字符串表示 JSON
func ForName(name string) (Codec, error) {
	switch name {
	case "", NameJSON:
		return JSON, nil
	case NameProtobuf, "pb":
		return Protobuf, nil
	default:
		return nil, fmt.Errorf("不支持的编码: %q", name)
	}
}

// --- JSON ---

type jsonCodec struct{}

func (jsonCodec) Name() string { return NameJSON }
func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Encode(msg *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	// 聊天内容原样转发，不转义 <>&
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msg); err != nil {
		return nil, fmt.Errorf("json 编码失败: %w", err)
	}
	return bytes.Clone(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func (jsonCodec) Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, fmt.Errorf("json 解码失败: %w", err)
	}
	if msg.Type == "" {
		PutMessage(msg)
		return nil, fmt.Errorf("消息缺少 type 字段")
	}
	return msg, nil
}

// --- Protobuf ---
//
// 信封是一个 google.protobuf.Struct：{"type": string, "payload": Value}

type protobufCodec struct{}

const (
	fieldType    = "type"
	fieldPayload = "payload"
)

func (protobufCodec) Name() string { return NameProtobuf }
func (protobufCodec) Binary() bool { return true }

func (protobufCodec) Encode(msg *protocol.Message) ([]byte, error) {
	envelope := &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldType: structpb.NewStringValue(string(msg.Type)),
	}}

	if len(msg.Payload) > 0 {
		payload := &structpb.Value{}
		if err := protojson.Unmarshal(msg.Payload, payload); err != nil {
			return nil, fmt.Errorf("payload 转换失败: %w", err)
		}
		envelope.Fields[fieldPayload] = payload
	}

	data, err := proto.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("protobuf 编码失败: %w", err)
	}
	return data, nil
}

func (protobufCodec) Decode(data []byte) (*protocol.Message, error) {
	envelope := &structpb.Struct{}
	if err := proto.Unmarshal(data, envelope); err != nil {
		return nil, fmt.Errorf("protobuf 解码失败: %w", err)
	}

	msgType := envelope.GetFields()[fieldType].GetStringValue()
	if msgType == "" {
		return nil, fmt.Errorf("消息缺少 type 字段")
	}

	msg := GetMessage()
	msg.Type = protocol.MessageType(msgType)
	if payload, ok := envelope.GetFields()[fieldPayload]; ok {
		raw, err := protojson.Marshal(payload)
		if err != nil {
			PutMessage(msg)
			return nil, fmt.Errorf("payload 转换失败: %w", err)
		}
		msg.Payload = raw
	}
	return msg, nil
}
