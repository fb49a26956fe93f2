// Package protocol implements the request frame described in spec.md §4.1
// and §6:
//
//	offset  size          field
//	0       4             header length H (uint32, big-endian)
//	4       H             encoded header {service_name, method_name, args_size}
//	4+H     args_size     encoded request (or response) payload
//
// Unlike _examples/BX-D-mini-RPC/protocol, which frames a fixed 14-byte
// magic/version/seq/bodyLen header, this module's header is the variable
// length, schema-described triple spec.md's data model names — so framing
// here delegates the header's own bytes to a pluggable codec.Codec
// (see package codec) and only owns the length-prefix layer around it.
package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Ph0m1/prpc/codec"
)

// lengthPrefixSize is the width of the frame's leading header-length field.
const lengthPrefixSize = 4

// WriteFrame encodes header with hc and writes the full frame — length
// prefix, encoded header, then payload — to w in a single call, matching
// spec.md §4.4 step 7's "write the entire send frame in one call."
func WriteFrame(w io.Writer, hc codec.Codec, header *codec.Header, payload []byte) error {
	header.ArgsSize = uint32(len(payload))

	headerBytes, err := hc.Encode(header)
	if err != nil {
		return fmt.Errorf("protocol: encode header: %w", err)
	}

	frame := make([]byte, lengthPrefixSize+len(headerBytes)+len(payload))
	binary.BigEndian.PutUint32(frame[:lengthPrefixSize], uint32(len(headerBytes)))
	copy(frame[lengthPrefixSize:], headerBytes)
	copy(frame[lengthPrefixSize+len(headerBytes):], payload)

	_, err = w.Write(frame)
	return err
}

// ReadFrame reads one complete frame from r: the 4-byte length prefix H,
// then exactly H bytes of header, then exactly ArgsSize bytes of payload.
//
// Every read uses io.ReadFull, so a connection that is closed mid-frame, or
// that advertises a length larger than what actually follows, surfaces as
// an error rather than a partial or hanging read — per spec.md §4.1, that
// error is the caller's signal to drop the connection without dispatching.
func ReadFrame(r io.Reader, hc codec.Codec) (*codec.Header, []byte, error) {
	var lenBuf [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, nil, fmt.Errorf("protocol: read header length: %w", err)
	}
	headerLen := binary.BigEndian.Uint32(lenBuf[:])

	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, nil, fmt.Errorf("protocol: read header: %w", err)
	}

	header := &codec.Header{}
	if err := hc.Decode(headerBytes, header); err != nil {
		return nil, nil, fmt.Errorf("protocol: decode header: %w", err)
	}

	payload := make([]byte, header.ArgsSize)
	if header.ArgsSize > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("protocol: read payload: %w", err)
		}
	}

	return header, payload, nil
}
