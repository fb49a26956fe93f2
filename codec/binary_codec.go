package codec

import (
	"encoding/binary"
	"fmt"
)

// BinaryCodec is a deterministic, compact binary encoding of Header:
//
//	2 bytes  ServiceName length (uint16, big-endian)
//	n bytes  ServiceName
//	2 bytes  MethodName length (uint16, big-endian)
//	n bytes  MethodName
//	4 bytes  ArgsSize (uint32, big-endian)
//
// Every multi-byte integer is big-endian, per spec.md §4.1's explicit
// interop requirement — unlike _examples/BX-D-mini-RPC/codec's BinaryCodec,
// which (like the rest of that teacher's protocol) relies on both peers
// sharing the host's native byte order.
type BinaryCodec struct{}

func (c *BinaryCodec) Encode(h *Header) ([]byte, error) {
	if len(h.ServiceName) > 0xFFFF || len(h.MethodName) > 0xFFFF {
		return nil, fmt.Errorf("codec: service/method name too long to encode")
	}

	total := 2 + len(h.ServiceName) + 2 + len(h.MethodName) + 4
	buf := make([]byte, total)

	offset := 0
	binary.BigEndian.PutUint16(buf[offset:offset+2], uint16(len(h.ServiceName)))
	offset += 2
	copy(buf[offset:offset+len(h.ServiceName)], h.ServiceName)
	offset += len(h.ServiceName)

	binary.BigEndian.PutUint16(buf[offset:offset+2], uint16(len(h.MethodName)))
	offset += 2
	copy(buf[offset:offset+len(h.MethodName)], h.MethodName)
	offset += len(h.MethodName)

	binary.BigEndian.PutUint32(buf[offset:offset+4], h.ArgsSize)

	return buf, nil
}

func (c *BinaryCodec) Decode(data []byte, h *Header) error {
	offset := 0

	if len(data) < offset+2 {
		return fmt.Errorf("codec: header too short for service name length")
	}
	svcLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
	offset += 2

	if len(data) < offset+svcLen {
		return fmt.Errorf("codec: header too short for service name")
	}
	h.ServiceName = string(data[offset : offset+svcLen])
	offset += svcLen

	if len(data) < offset+2 {
		return fmt.Errorf("codec: header too short for method name length")
	}
	methodLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
	offset += 2

	if len(data) < offset+methodLen {
		return fmt.Errorf("codec: header too short for method name")
	}
	h.MethodName = string(data[offset : offset+methodLen])
	offset += methodLen

	if len(data) < offset+4 {
		return fmt.Errorf("codec: header too short for args size")
	}
	h.ArgsSize = binary.BigEndian.Uint32(data[offset : offset+4])

	return nil
}

func (c *BinaryCodec) Type() CodecType {
	return CodecTypeBinary
}
