// Package message defines the capability every RPC request and response
// type must satisfy.
//
// The framework this module implements is modeled on Protocol Buffers: a
// service's method table carries a request and response *prototype* that
// the runtime clones with reflection (google::protobuf::Message::New())
// before parsing a wire payload into it. Go has no equivalent runtime
// prototype registry, so Message plays the role a generated protobuf
// message plays — something the codec can marshal and unmarshal — and
// service.MethodDescriptor carries a plain factory closure in place of the
// reflective New().
package message

// Message is implemented by every request and response type exchanged over
// an RPC connection.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}
