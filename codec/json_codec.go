package codec

import "encoding/json"

// JSONCodec uses the standard library's encoding/json to serialize the
// header. Human-readable and easy to debug against with a raw TCP client,
// at the cost of being larger on the wire than BinaryCodec.
type JSONCodec struct{}

func (c *JSONCodec) Encode(h *Header) ([]byte, error) {
	return json.Marshal(h)
}

func (c *JSONCodec) Decode(data []byte, h *Header) error {
	return json.Unmarshal(data, h)
}

func (c *JSONCodec) Type() CodecType {
	return CodecTypeJSON
}
