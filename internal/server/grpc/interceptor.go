package grpc

import (
	"context"
	"path"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

// RequestIDFromContext returns the id assigned by requestIDInterceptor.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestIDInterceptor takes the caller's x-request-id or makes one up,
// stores it in the context and echoes it in the response header.
func (s *GRPCServer) requestIDInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.RequestIDHeaderName); len(values) > 0 {
			id = values[0]
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	_ = grpc.SetHeader(ctx, metadata.Pairs(common.RequestIDHeaderName, id))
	return handler(context.WithValue(ctx, requestIDKey, id), req)
}

// observeInterceptor logs each call and records it in the metrics.
func (s *GRPCServer) observeInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	method := path.Base(info.FullMethod)
	code := status.Code(err)
	if s.metrics != nil {
		s.metrics.Observe(method, code.String(), elapsed)
	}

	args := []any{"method", method, "code", code.String(), "duration", elapsed, "request_id", RequestIDFromContext(ctx)}
	if err != nil {
		s.logger.Warn(ctx, "request failed", append(args, "error", status.Convert(err).Message())...)
	} else {
		s.logger.Info(ctx, "request served", args...)
	}
	return resp, err
}
