package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitpocket/internal/auth"
	"github.com/mmynk/splitpocket/internal/middleware"
	"github.com/mmynk/splitpocket/internal/notify"
	"github.com/mmynk/splitpocket/internal/storage"
	"github.com/mmynk/splitpocket/internal/storage/sqlite"
	"github.com/mmynk/splitpocket/internal/watch"
	"github.com/mmynk/splitpocket/pkg/api"
	"github.com/mmynk/splitpocket/pkg/api/apiconnect"
)

type testEnv struct {
	auth     apiconnect.AuthServiceClient
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
	store    storage.Store
}

// setupTestServer serves all three services against a temp database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	base, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	broker := notify.NewMemoryBroker()
	store := storage.WithNotifications(base, broker)
	watcher := watch.NewWatcher(store, broker)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	interceptors := connect.WithInterceptors(
		middleware.NewAuthInterceptor(jwtManager, PublicProcedures...),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, watcher), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, watcher), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		broker.Close()
		base.Close()
	})

	return &testEnv{
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		store:    store,
	}
}

// register creates an account and returns its token and user ID.
func (e *testEnv) register(t *testing.T, email string) (string, string) {
	t.Helper()

	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:    email,
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg.Token, resp.Msg.User.ID
}

func (e *testEnv) createGroup(t *testing.T, token, name string, members ...string) *api.Group {
	t.Helper()

	resp, err := e.groups.CreateGroup(context.Background(), authed(&api.CreateGroupRequest{
		Name:      name,
		MemberIDs: members,
	}, token))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func authed[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}
