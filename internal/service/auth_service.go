package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpocket/internal/auth"
	"github.com/mmynk/splitpocket/internal/models"
	"github.com/mmynk/splitpocket/internal/storage"
	"github.com/mmynk/splitpocket/internal/validation"
	"github.com/mmynk/splitpocket/pkg/api"
	"github.com/mmynk/splitpocket/pkg/api/apiconnect"
)

// PublicProcedures can be called without a session.
var PublicProcedures = []string{
	apiconnect.AuthServiceRegisterProcedure,
	apiconnect.AuthServiceLoginProcedure,
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	apiconnect.UnimplementedAuthServiceHandler
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account. The account has no username until
// CompleteProfile is called.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, toConnectError("Register", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Logout ends the caller's session. Tokens are stateless, so the client
// discards its token; the server only records the event.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("Logout", err)
	}

	s.logger.Info("Logout request", "user_id", sess.UserID)
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentUser returns the caller's profile and whether it still needs a username.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("GetCurrentUser", err)
	}

	user, err := s.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, toConnectError("GetCurrentUser", err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{
		User:         toAPIUser(user),
		NeedsProfile: user.NeedsProfile(),
	}), nil
}

// CompleteProfile sets the caller's username and optional avatar and default currency.
func (s *AuthService) CompleteProfile(ctx context.Context, req *connect.Request[api.CompleteProfileRequest]) (*connect.Response[api.CompleteProfileResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("CompleteProfile", err)
	}

	username, err := validation.Username(req.Msg.Username)
	if err != nil {
		return nil, toConnectError("CompleteProfile", err)
	}

	user, err := s.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, toConnectError("CompleteProfile", err)
	}

	user.Username = username
	if avatar := strings.TrimSpace(req.Msg.AvatarURL); avatar != "" {
		user.AvatarURL = avatar
	}
	if currency := strings.TrimSpace(req.Msg.DefaultCurrency); currency != "" {
		user.DefaultCurrency = currency
	}
	if user.DefaultCurrency == "" {
		user.DefaultCurrency = models.DefaultCurrency
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, toConnectError("CompleteProfile", err)
	}

	s.logger.Info("Profile completed", "user_id", user.ID, "username", user.Username)
	return connect.NewResponse(&api.CompleteProfileResponse{User: toAPIUser(user)}), nil
}

// ListUsers returns every user except the caller, for picking group members.
func (s *AuthService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, toConnectError("ListUsers", err)
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, toConnectError("ListUsers", err)
	}

	out := make([]*api.User, 0, len(users))
	for _, u := range users {
		if u.ID != sess.UserID {
			out = append(out, toAPIUser(u))
		}
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}
