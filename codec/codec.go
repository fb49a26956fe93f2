// Package codec serializes and parses the RPC wire header.
//
// The framework treats the actual binary encoding as an external,
// schema-described serialization library (spec §1's "codec" collaborator);
// this package is this module's concrete stand-in for that collaborator,
// generalized from _examples/BX-D-mini-RPC/codec's Codec interface and its
// JSON/Binary implementations.
package codec

// CodecType selects which wire encoding a Header uses. It is carried
// alongside the header only for local bookkeeping (choosing which Codec to
// hand to protocol.ReadFrame/WriteFrame) — it is not itself part of the
// wire format spec.md defines.
type CodecType byte

const (
	CodecTypeJSON   CodecType = 0
	CodecTypeBinary CodecType = 1
)

// Header is the three-field header spec.md §3 requires: the service and
// method being invoked, and the number of payload bytes that follow it on
// the wire.
type Header struct {
	ServiceName string
	MethodName  string
	ArgsSize    uint32
}

// Codec serializes and parses a Header. Encoding must be deterministic:
// decode(encode(h)) == h for every Header, and args_size must always equal
// the number of payload bytes that immediately follow the header on the
// wire (spec.md §4.1's framing invariant).
type Codec interface {
	Encode(h *Header) ([]byte, error)
	Decode(data []byte, h *Header) error
	Type() CodecType
}

// GetCodec returns the Codec implementation for the given type, defaulting
// to the binary codec — the deterministic, compact encoding this module
// uses on the wire by default.
func GetCodec(t CodecType) Codec {
	if t == CodecTypeJSON {
		return &JSONCodec{}
	}
	return &BinaryCodec{}
}
