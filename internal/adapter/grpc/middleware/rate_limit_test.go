package middleware

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"user-crud-console/pkg/ratelimit"
)

const healthCheck = "/grpc.health.v1.Health/Check"

func setupTestLimiter(t *testing.T, rps float64, burst int) *ratelimit.Limiter {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})

	l, err := ratelimit.New(client, ratelimit.Config{RequestsPerSecond: rps, BurstCapacity: burst}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return l
}

func mockHandler(ctx context.Context, req any) (any, error) {
	return "success", nil
}

func peerContext(t *testing.T, hostport string) context.Context {
	addr, err := net.ResolveTCPAddr("tcp", hostport)
	require.NoError(t, err)
	return peer.NewContext(context.Background(), &peer.Peer{Addr: addr})
}

func TestRateLimit_WithinLimit(t *testing.T) {
	interceptor := RateLimit(setupTestLimiter(t, 1, 10), zaptest.NewLogger(t))
	ctx := peerContext(t, "127.0.0.1:12345")
	info := &grpc.UnaryServerInfo{FullMethod: healthCheck}

	for i := 0; i < 5; i++ {
		resp, err := interceptor(ctx, nil, info, mockHandler)
		require.NoError(t, err)
		assert.Equal(t, "success", resp)
	}
}

func TestRateLimit_ExceedLimit(t *testing.T) {
	interceptor := RateLimit(setupTestLimiter(t, 0.001, 3), zaptest.NewLogger(t))
	ctx := peerContext(t, "127.0.0.1:12345")
	info := &grpc.UnaryServerInfo{FullMethod: healthCheck}

	for i := 0; i < 3; i++ {
		_, err := interceptor(ctx, nil, info, mockHandler)
		require.NoError(t, err)
	}

	resp, err := interceptor(ctx, nil, info, mockHandler)
	require.Error(t, err)
	assert.Nil(t, resp)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.ResourceExhausted, st.Code())
	assert.Contains(t, st.Message(), "rate limit exceeded")
}

func TestRateLimit_NilLimiter(t *testing.T) {
	interceptor := RateLimit(nil, zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: healthCheck}

	for i := 0; i < 20; i++ {
		resp, err := interceptor(context.Background(), nil, info, mockHandler)
		require.NoError(t, err)
		assert.Equal(t, "success", resp)
	}
}

func TestRateLimit_DifferentIPs(t *testing.T) {
	interceptor := RateLimit(setupTestLimiter(t, 0.001, 1), zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: healthCheck}

	ctx1 := peerContext(t, "127.0.0.1:12345")
	ctx2 := peerContext(t, "127.0.0.2:12345")

	_, err := interceptor(ctx1, nil, info, mockHandler)
	require.NoError(t, err)
	_, err = interceptor(ctx1, nil, info, mockHandler)
	require.Error(t, err)

	_, err = interceptor(ctx2, nil, info, mockHandler)
	require.NoError(t, err)
}

func TestRateLimit_DifferentMethods(t *testing.T) {
	interceptor := RateLimit(setupTestLimiter(t, 0.001, 1), zaptest.NewLogger(t))
	ctx := peerContext(t, "127.0.0.1:12345")

	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: healthCheck}, mockHandler)
	require.NoError(t, err)
	_, err = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/List"}, mockHandler)
	require.NoError(t, err)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{
			name: "x-forwarded-for wins",
			ctx:  metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-forwarded-for", "203.0.113.1", "x-real-ip", "203.0.113.2")),
			want: "203.0.113.1",
		},
		{
			name: "x-real-ip",
			ctx:  metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "203.0.113.2")),
			want: "203.0.113.2",
		},
		{
			name: "peer address",
			ctx:  peerContext(t, "10.0.0.1:4000"),
			want: "10.0.0.1:4000",
		},
		{
			name: "unknown",
			ctx:  context.Background(),
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clientIP(tt.ctx))
		})
	}
}
