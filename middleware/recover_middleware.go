package middleware

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Recover turns a panicking business handler into a business-level error
// response instead of taking down the worker goroutine running it. The
// teacher has no equivalent (its businessHandler never panics in practice,
// and a panic there would just kill that request's goroutine); this is
// added because the provider's businessHandler runs user-supplied
// Service.CallMethod implementations the framework cannot trust not to
// panic.
func Recover() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (resp *Response) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithFields(logrus.Fields{
						"service": req.Header.ServiceName,
						"method":  req.Header.MethodName,
						"panic":   r,
					}).Error("recovered panic in handler")
					resp = &Response{Err: fmt.Sprintf("internal error: %v", r)}
				}
			}()
			return next(ctx, req)
		}
	}
}
