package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/internal/policy"
	"github.com/mmynk/tripwiser/internal/storage"
	"github.com/mmynk/tripwiser/pkg/api"
	"github.com/mmynk/tripwiser/pkg/api/apiconnect"
)

// UserService implements the UserService RPC interface.
type UserService struct {
	users  storage.UserStore
	access *Access
	logger *slog.Logger
}

var _ apiconnect.UserServiceHandler = (*UserService)(nil)

// NewUserService creates a UserService.
func NewUserService(users storage.UserStore, access *Access, logger *slog.Logger) *UserService {
	return &UserService{users: users, access: access, logger: logger}
}

// GetProfile returns the profile of req.UserID, which defaults to the caller.
func (s *UserService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	userID := req.Msg.UserID
	if userID == "" {
		userID = callerFrom(ctx).UserID
	}
	s.logger.Info("GetProfile request", "user_id", userID)

	if _, err := s.access.authorizeUser(ctx, policy.Profiles, policy.Read, userID); err != nil {
		return nil, toConnectError(err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("GetProfile failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetProfileResponse{User: toAPIUser(user)}), nil
}

// UpdateProfile changes the caller's display name.
func (s *UserService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	userID := req.Msg.UserID
	if userID == "" {
		userID = callerFrom(ctx).UserID
	}
	s.logger.Info("UpdateProfile request", "user_id", userID)

	if _, err := s.access.authorizeUser(ctx, policy.Profiles, policy.Update, userID); err != nil {
		return nil, toConnectError(err)
	}
	displayName, err := required("display name", req.Msg.DisplayName)
	if err != nil {
		return nil, toConnectError(err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	user.DisplayName = displayName
	if err := s.users.UpdateUser(ctx, user); err != nil {
		s.logger.Error("UpdateProfile failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Profile updated", "user_id", userID)
	return connect.NewResponse(&api.UpdateProfileResponse{User: toAPIUser(user)}), nil
}
