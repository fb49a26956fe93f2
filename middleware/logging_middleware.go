package middleware

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Logging logs each request's service/method, duration, and any business
// error, via logrus — grounded on
// _examples/BX-D-mini-RPC/middleware/logging_middleware.go's stdlib-log
// version, moved onto this module's shared logrus usage (see DESIGN.md).
func Logging() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) *Response {
			start := time.Now()
			resp := next(ctx, req)
			entry := logrus.WithFields(logrus.Fields{
				"service":  req.Header.ServiceName,
				"method":   req.Header.MethodName,
				"duration": time.Since(start),
			})
			if resp.Err != "" {
				entry.WithField("error", resp.Err).Warn("request failed")
			} else {
				entry.Debug("request handled")
			}
			return resp
		}
	}
}
