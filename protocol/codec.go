package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrEmptyEnvelope = errors.New("protocol: empty envelope")
	ErrEmptyPayload  = errors.New("protocol: empty payload")
	ErrUnknownCodec  = errors.New("protocol: unknown codec")
)

// Codec selects the wire format of a connection. JSON travels as websocket
// text frames, msgpack as binary frames.
type Codec uint8

const (
	CodecJSON Codec = iota
	CodecMsgpack
)

func ParseCodec(s string) (Codec, error) {
	switch s {
	case "", "json":
		return CodecJSON, nil
	case "msgpack":
		return CodecMsgpack, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, s)
	}
}

func (c Codec) String() string {
	if c == CodecMsgpack {
		return "msgpack"
	}
	return "json"
}

func (c Codec) Encode(t string, payload any) ([]byte, error) {
	if c == CodecMsgpack {
		return EncodeBinary(t, payload)
	}
	return Encode(t, payload)
}

func (c Codec) Decode(b []byte) (Envelope, error) {
	if c == CodecMsgpack {
		return DecodeBinaryEnvelope(b)
	}
	return DecodeEnvelope(b)
}

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("protocol: encode envelope with empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("protocol: encode %q with nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal %q: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyEnvelope
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	return e, nil
}

// binaryEnvelope mirrors Envelope for msgpack; P holds raw msgpack bytes.
type binaryEnvelope struct {
	T string             `json:"t"`
	P msgpack.RawMessage `json:"p"`
}

func EncodeBinary(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("protocol: encode envelope with empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("protocol: encode %q with nil payload", t)
	}
	pb, err := marshalMsgpack(payload)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal %q: %w", t, err)
	}
	return marshalMsgpack(binaryEnvelope{T: t, P: pb})
}

func DecodeBinaryEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyEnvelope
	}
	var be binaryEnvelope
	if err := unmarshalMsgpack(b, &be); err != nil {
		return Envelope{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	return Envelope{T: be.T, P: json.RawMessage(be.P), Codec: CodecMsgpack}, nil
}

// DecodePayload decodes env.P into a zero T using the codec the envelope arrived with.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%w for type %q", ErrEmptyPayload, env.T)
	}
	var err error
	if env.Codec == CodecMsgpack {
		err = unmarshalMsgpack(env.P, &out)
	} else {
		err = json.Unmarshal(env.P, &out)
	}
	if err != nil {
		return out, fmt.Errorf("protocol: decode %q payload: %w", env.T, err)
	}
	return out, nil
}

// msgpack reuses the json tags so payload structs carry one set of names.
func marshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalMsgpack(b []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
