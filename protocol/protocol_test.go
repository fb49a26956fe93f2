package protocol

import (
	"bytes"
	"testing"

	"github.com/Ph0m1/prpc/codec"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	hc := codec.GetCodec(codec.CodecTypeBinary)
	header := &codec.Header{ServiceName: "UserServiceRpc", MethodName: "Login"}
	payload := []byte(`{"name":"alice","pwd":"secret"}`)

	var buf bytes.Buffer
	if err := WriteFrame(&buf, hc, header, payload); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	gotHeader, gotPayload, err := ReadFrame(&buf, hc)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	if gotHeader.ServiceName != header.ServiceName || gotHeader.MethodName != header.MethodName {
		t.Errorf("header mismatch: got %+v", gotHeader)
	}
	if gotHeader.ArgsSize != uint32(len(payload)) {
		t.Errorf("args_size mismatch: got %d, want %d", gotHeader.ArgsSize, len(payload))
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Errorf("payload mismatch: got %q, want %q", gotPayload, payload)
	}
}

func TestReadFrameZeroLengthPayload(t *testing.T) {
	hc := codec.GetCodec(codec.CodecTypeBinary)
	header := &codec.Header{ServiceName: "Arith", MethodName: "Ping"}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, hc, header, nil); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	gotHeader, gotPayload, err := ReadFrame(&buf, hc)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if gotHeader.ArgsSize != 0 {
		t.Errorf("expected args_size 0, got %d", gotHeader.ArgsSize)
	}
	if len(gotPayload) != 0 {
		t.Errorf("expected empty payload, got %d bytes", len(gotPayload))
	}
}

// TestReadFrameMalformedHeader reproduces spec.md §8 scenario 6: a frame
// claims a 9999-byte header but only 10 bytes actually follow. ReadFrame
// must report an error rather than block or panic, so the caller can close
// the connection and keep serving others.
func TestReadFrameMalformedHeader(t *testing.T) {
	hc := codec.GetCodec(codec.CodecTypeBinary)

	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x27, 0x0F}) // H = 9999, big-endian
	buf.Write(make([]byte, 10))

	if _, _, err := ReadFrame(&buf, hc); err == nil {
		t.Fatal("expected an error for a truncated malformed header")
	}
}

func TestReadFrameTruncatedLengthPrefix(t *testing.T) {
	hc := codec.GetCodec(codec.CodecTypeBinary)
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00})

	if _, _, err := ReadFrame(&buf, hc); err == nil {
		t.Fatal("expected an error for a truncated length prefix")
	}
}
