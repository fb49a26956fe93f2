package middleware

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimit rejects requests once the token bucket (rate per second, burst
// capacity) is exhausted. Carried over unchanged from
// _examples/BX-D-mini-RPC/middleware/rate_limit_middleware.go's use of
// golang.org/x/time/rate — only the request/response types changed.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) *Response {
			if !limiter.Allow() {
				return &Response{Err: "rate limit exceeded"}
			}
			return next(ctx, req)
		}
	}
}
