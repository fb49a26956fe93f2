package middleware

import (
	"context"
	"time"
)

// Timeout fails a request that has not produced a response within d,
// carried over from
// _examples/BX-D-mini-RPC/middleware/timeout_middleware.go with the
// RPCMessage-specific request/response types swapped for this module's
// Request/Response.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) *Response {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			done := make(chan *Response, 1)
			go func() {
				done <- next(ctx, req)
			}()

			select {
			case resp := <-done:
				return resp
			case <-ctx.Done():
				return &Response{Err: "request timed out"}
			}
		}
	}
}
