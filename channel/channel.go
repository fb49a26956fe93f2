// Package channel implements the caller side of the framework:
// Channel.CallMethod resolves a service/method to an endpoint through a
// registry client, reuses or opens a pooled connection, and drives one
// request/response exchange over it.
//
// Grounded step for step on _examples/original_source/src/channel.cc's
// Pchannel::CallMethod: serialize request, build the header, resolve
// "ip:port" from the method's znode, reuse or dial a pooled socket, apply
// the controller's timeout, write the frame, read the response, and
// invalidate the pooled connection on any I/O error. The Go shape of the
// connection map is carried over from _examples/BX-D-mini-RPC/client/client.go.
package channel

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Ph0m1/prpc/codec"
	"github.com/Ph0m1/prpc/controller"
	"github.com/Ph0m1/prpc/message"
	"github.com/Ph0m1/prpc/perr"
	"github.com/Ph0m1/prpc/protocol"
	"github.com/Ph0m1/prpc/service"
)

// maxResponseSize bounds a single response read, per spec.md §4.1/§9's
// documented 1024-byte response cap (an explicit protocol limitation, not a
// buffer the caller is expected to grow).
const maxResponseSize = 1024

// Resolver looks up the "ip:port" endpoint registered for a service/method
// pair. *registry.Client satisfies this; tests substitute a fake so they
// don't need a live ZooKeeper ensemble.
type Resolver interface {
	ResolveMethod(serviceName, methodName string) (string, error)
}

// Channel is the caller-side entry point for invoking a remote method. A
// Channel is safe for concurrent use by multiple goroutines.
type Channel struct {
	reg   Resolver
	codec codec.Codec

	mu    sync.Mutex
	conns map[string]net.Conn
}

// New returns a Channel that resolves endpoints through reg and frames
// requests with the binary codec.
func New(reg Resolver) *Channel {
	return &Channel{
		reg:   reg,
		codec: codec.GetCodec(codec.CodecTypeBinary),
		conns: make(map[string]net.Conn),
	}
}

// CallMethod resolves method's endpoint, sends request, and decodes the
// reply into response. Any failure is reported through ctrl.SetFailed
// rather than as a returned error, matching the google.protobuf.RpcChannel
// contract the original Pchannel::CallMethod implements; done, if non-nil,
// is invoked only after a successful response is decoded.
func (c *Channel) CallMethod(desc *service.Descriptor, method *service.MethodDescriptor, ctrl *controller.Controller, request, response message.Message, done func()) {
	argsBytes, err := request.Marshal()
	if err != nil {
		ctrl.SetFailed(fmt.Sprintf("serialize request error: %v", err))
		return
	}

	endpoint, err := c.reg.ResolveMethod(desc.Name, method.Name)
	if err != nil || endpoint == "" {
		ctrl.SetFailed(fmt.Sprintf("%s/%s is not registered: %v", desc.Name, method.Name, err))
		return
	}

	conn, err := c.connFor(endpoint)
	if err != nil {
		ctrl.SetFailed(fmt.Sprintf("connect to %s error: %v", endpoint, err))
		return
	}

	deadline := time.Now().Add(time.Duration(ctrl.TimeoutMs()) * time.Millisecond)
	conn.SetDeadline(deadline)

	header := &codec.Header{ServiceName: desc.Name, MethodName: method.Name}
	if err := protocol.WriteFrame(conn, c.codec, header, argsBytes); err != nil {
		c.drop(endpoint, conn)
		ctrl.SetFailed(fmt.Sprintf("send error: %v", err))
		return
	}

	respBytes := make([]byte, maxResponseSize)
	n, err := conn.Read(respBytes)
	if err != nil || n == 0 {
		c.drop(endpoint, conn)
		if isTimeout(err) {
			ctrl.SetFailed("recv timeout")
		} else {
			ctrl.SetFailed(fmt.Sprintf("recv error: %v", err))
		}
		return
	}

	if err := response.Unmarshal(respBytes[:n]); err != nil {
		c.drop(endpoint, conn)
		ctrl.SetFailed(fmt.Sprintf("parse response error: %v", err))
		return
	}

	if done != nil {
		done()
	}
}

// connFor returns a pooled connection for endpoint, dialing a new one if
// none is pooled yet. The map is only ever touched while holding mu; the
// dial itself happens outside the lock so one slow dial cannot stall every
// other call.
func (c *Channel) connFor(endpoint string) (net.Conn, error) {
	c.mu.Lock()
	if conn, ok := c.conns[endpoint]; ok {
		c.mu.Unlock()
		return conn, nil
	}
	c.mu.Unlock()

	conn, err := net.Dial("tcp", endpoint)
	if err != nil {
		return nil, perr.Wrap(perr.NetworkError, err, "channel: dial "+endpoint)
	}

	c.mu.Lock()
	if existing, ok := c.conns[endpoint]; ok {
		c.mu.Unlock()
		conn.Close()
		return existing, nil
	}
	c.conns[endpoint] = conn
	c.mu.Unlock()

	return conn, nil
}

// drop closes conn and evicts it from the pool if it is still the pooled
// entry for endpoint, so a later call dials fresh rather than reusing a
// connection that just failed.
func (c *Channel) drop(endpoint string, conn net.Conn) {
	c.mu.Lock()
	if c.conns[endpoint] == conn {
		delete(c.conns, endpoint)
	}
	c.mu.Unlock()
	conn.Close()
}

// Close closes every pooled connection. Intended for test teardown and
// graceful caller shutdown.
func (c *Channel) Close() {
	c.mu.Lock()
	conns := make([]net.Conn, 0, len(c.conns))
	for endpoint, conn := range c.conns {
		conns = append(conns, conn)
		delete(c.conns, endpoint)
	}
	c.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
