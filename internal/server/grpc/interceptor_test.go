package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer(secret string) *GRPCServer {
	return NewGRPCServer("", nopLogger{}, &fakeUsers{}, &fakeFacade{}, secret)
}

func TestInterceptor_PublicMethodsSkipToken(t *testing.T) {
	s := newTestServer("secret")

	for _, m := range []string{api.MethodSignIn, api.MethodRefresh, api.MethodPing} {
		info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(m)}
		called := false
		_, err := s.accessTokenInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			called = true
			return "ok", nil
		})
		require.NoError(t, err)
		assert.True(t, called, m)
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(api.MethodListTodos)}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "missing token", status.Convert(err).Message())
}

func TestInterceptor_InvalidAndExpiredToken(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(api.MethodListTodos)}

	expired, err := auth.GenerateToken("u1", []byte("secret"), -time.Minute)
	require.NoError(t, err)

	for _, tok := range []string{"not-a-valid-jwt", expired} {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, tok))
		_, err := s.accessTokenInterceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			t.Fatal("handler should not be called for invalid token")
			return nil, nil
		})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	}
}

func TestInterceptor_ValidToken_SetsUserID(t *testing.T) {
	s := newTestServer("super-secret")

	token, err := auth.GenerateToken("user-123", []byte("super-secret"), time.Hour)
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(api.MethodCreateTodo)}

	var got string
	resp, err := s.accessTokenInterceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = auth.ContextResolver{}.CurrentUserID(ctx)
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "user-123", got)
}

type recordingLogger struct {
	nopLogger
	level string
}

func (r *recordingLogger) Info(context.Context, string, ...any)  { r.level = "info" }
func (r *recordingLogger) Warn(context.Context, string, ...any)  { r.level = "warn" }
func (r *recordingLogger) Error(context.Context, string, ...any) { r.level = "error" }

func TestLoggingInterceptor_LevelByCode(t *testing.T) {
	rl := &recordingLogger{}
	s := &GRPCServer{logger: rl}
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(api.MethodPing)}

	cases := []struct {
		err  error
		want string
	}{
		{nil, "info"},
		{status.Error(codes.NotFound, "x"), "warn"},
		{status.Error(codes.Internal, "x"), "error"},
	}
	for _, c := range cases {
		_, err := s.loggingInterceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
			return nil, c.err
		})
		assert.Equal(t, c.err, err)
		assert.Equal(t, c.want, rl.level)
	}
}
