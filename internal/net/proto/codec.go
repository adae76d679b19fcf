package proto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec names accepted in the codec query parameter.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

var ErrMissingType = errors.New("message type missing")

// Codec converts envelopes to and from websocket frames.
type Codec interface {
	Name() string
	// Binary reports whether frames are sent as binary messages.
	Binary() bool
	Encode(env Envelope) ([]byte, error)
	Decode(data []byte) (Inbound, error)
}

// Inbound is a decoded client frame whose payload has not been bound yet.
type Inbound struct {
	Type    string
	payload []byte
	bind    func(data []byte, v any) error
}

// NewInbound builds a JSON inbound message, mostly for tests.
func NewInbound(messageType string, payload any) Inbound {
	in := Inbound{Type: messageType, bind: json.Unmarshal}
	if payload != nil {
		in.payload, _ = json.Marshal(payload)
	}
	return in
}

// Decode binds the payload into v. An absent payload leaves v untouched.
func (in Inbound) Decode(v any) error {
	if len(in.payload) == 0 || in.bind == nil {
		return nil
	}
	if err := in.bind(in.payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", in.Type, err)
	}
	return nil
}

// CodecByName returns the codec for name, defaulting to JSON.
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, true
	case CodecMsgpack:
		return MsgpackCodec{}, true
	default:
		return JSONCodec{}, false
	}
}

// JSONCodec sends envelopes as text frames.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

func (JSONCodec) Decode(data []byte) (Inbound, error) {
	var frame struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return Inbound{}, fmt.Errorf("decode json frame: %w", err)
	}
	if frame.Type == "" {
		return Inbound{}, ErrMissingType
	}
	return Inbound{Type: frame.Type, payload: frame.Payload, bind: json.Unmarshal}, nil
}

// MsgpackCodec sends envelopes as binary frames. Field names follow the
// json tags so both codecs share one schema.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return CodecMsgpack }

func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) Encode(env Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("encode msgpack frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec) Decode(data []byte) (Inbound, error) {
	var frame struct {
		Type    string             `msgpack:"type"`
		Payload msgpack.RawMessage `msgpack:"payload"`
	}
	if err := msgpack.Unmarshal(data, &frame); err != nil {
		return Inbound{}, fmt.Errorf("decode msgpack frame: %w", err)
	}
	if frame.Type == "" {
		return Inbound{}, ErrMissingType
	}
	return Inbound{Type: frame.Type, payload: frame.Payload, bind: unmarshalMsgpack}, nil
}

func unmarshalMsgpack(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
