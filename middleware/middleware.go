// Package middleware implements the provider's request pipeline: a chain
// of wrappers around the business dispatch step, applied once per decoded
// frame before the service/method is invoked.
//
// Grounded on _examples/BX-D-mini-RPC/middleware/middleware.go for the
// Chain/HandlerFunc shape, generalized from that teacher's
// message.RPCMessage (a single self-describing envelope with a combined
// "Service.Method" string) to this module's split codec.Header/payload
// pair, since spec.md's wire format keeps service name, method name, and
// payload as three separate fields rather than one joined string.
package middleware

import (
	"context"

	"github.com/Ph0m1/prpc/codec"
)

// Request is what a middleware sees before the business dispatch step
// decodes the payload into a concrete request message.
type Request struct {
	Header  *codec.Header
	Payload []byte
}

// Response is what the business dispatch step (or an earlier middleware
// short-circuiting the chain) produces.
type Response struct {
	Payload []byte
	Err     string
}

// HandlerFunc processes one decoded request frame and produces a response.
type HandlerFunc func(ctx context.Context, req *Request) *Response

// Middleware wraps a HandlerFunc with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares into a single Middleware applying them in the
// order given: Chain(A, B)(handler) runs A.before, B.before, handler,
// B.after, A.after.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
