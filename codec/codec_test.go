package codec

import "testing"

func TestJSONCodecRoundTrip(t *testing.T) {
	orig := &Header{ServiceName: "UserServiceRpc", MethodName: "Login", ArgsSize: 42}

	c := &JSONCodec{}
	data, err := c.Encode(orig)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var got Header
	if err := c.Decode(data, &got); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != *orig {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, orig)
	}
}

func TestBinaryCodecRoundTrip(t *testing.T) {
	orig := &Header{ServiceName: "UserServiceRpc", MethodName: "Login", ArgsSize: 42}

	c := &BinaryCodec{}
	data, err := c.Encode(orig)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var got Header
	if err := c.Decode(data, &got); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != *orig {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, orig)
	}
}

func TestBinaryCodecEmptyFields(t *testing.T) {
	orig := &Header{}
	c := &BinaryCodec{}

	data, err := c.Encode(orig)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) != 8 {
		t.Fatalf("expected 8 bytes for an all-empty header, got %d", len(data))
	}

	var got Header
	if err := c.Decode(data, &got); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != *orig {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, orig)
	}
}

func TestBinaryCodecDecodeTruncated(t *testing.T) {
	c := &BinaryCodec{}
	var h Header
	if err := c.Decode([]byte{0x00, 0x05, 'h', 'i'}, &h); err == nil {
		t.Fatal("expected an error decoding a truncated header")
	}
}

func TestGetCodecDefaultsToBinary(t *testing.T) {
	if GetCodec(CodecTypeBinary).Type() != CodecTypeBinary {
		t.Errorf("expected binary codec")
	}
	if GetCodec(CodecTypeJSON).Type() != CodecTypeJSON {
		t.Errorf("expected json codec")
	}
	if GetCodec(CodecType(99)).Type() != CodecTypeBinary {
		t.Errorf("expected an unrecognized codec type to fall back to binary")
	}
}
