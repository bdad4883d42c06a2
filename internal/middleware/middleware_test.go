package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitpocket/internal/auth"
	"github.com/mmynk/splitpocket/internal/models"
	"github.com/mmynk/splitpocket/pkg/api"
	"github.com/mmynk/splitpocket/pkg/api/apiconnect"
)

// whoami echoes the session it was called with.
type whoami struct {
	apiconnect.UnimplementedAuthServiceHandler
}

func (whoami) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s, _ := auth.SessionFrom(ctx)
	return connect.NewResponse(&api.RegisterResponse{User: &api.User{ID: s.UserID}}), nil
}

func (whoami) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	s, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: &api.User{ID: s.UserID, Email: s.Email}}), nil
}

func setupTestServer(t *testing.T) (apiconnect.AuthServiceClient, *Metrics, *auth.JWTManager) {
	t.Helper()

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	metrics := NewMetrics(prometheus.NewRegistry())

	path, handler := apiconnect.NewAuthServiceHandler(whoami{}, connect.WithInterceptors(
		metrics,
		NewAuthInterceptor(jwtManager, apiconnect.AuthServiceRegisterProcedure),
		LoggingInterceptor(),
	))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL), metrics, jwtManager
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthInterceptor(t *testing.T) {
	ctx := context.Background()
	client, metrics, jwtManager := setupTestServer(t)

	token, err := jwtManager.Generate(&models.User{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	t.Run("public procedure without token", func(t *testing.T) {
		resp, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{}))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.User.ID)
	})

	t.Run("public procedure with token", func(t *testing.T) {
		resp, err := client.Register(ctx, withToken(&api.RegisterRequest{}, token))
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.Msg.User.ID)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := client.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, "garbage"))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("valid token", func(t *testing.T) {
		resp, err := client.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, token))
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.Msg.User.ID)
		assert.Equal(t, "u1@example.com", resp.Msg.User.Email)
	})

	t.Run("metrics", func(t *testing.T) {
		get := apiconnect.AuthServiceGetCurrentUserProcedure
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues(get, connect.CodeUnauthenticated.String())))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(get, "ok")))
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues(apiconnect.AuthServiceRegisterProcedure, "ok")))
	})
}
