// interceptors - серверные gRPC-интерсепторы служебного listener'а
// post-comment-service (health/reflection).
package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// WithTimeout навешивает таймаут d на контекст unary-вызова, если дедлайна ещё нет.
//
//  1. d <= 0 - handler вызывается с исходным ctx;
//  2. deadline уже задан - не трогаем;
//  3. иначе context.WithTimeout(ctx, d) с гарантированным cancel().
func WithTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if d <= 0 {
			return handler(ctx, req)
		}

		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}

		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		return handler(ctx, req)
	}
}
