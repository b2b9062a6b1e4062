package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/pkg/api"
)

// UserServiceName is the fully-qualified name of the UserService.
const UserServiceName = "tripwiser.v1.UserService"

// Procedure paths of the UserService.
const (
	UserServiceGetProfileProcedure    = "/tripwiser.v1.UserService/GetProfile"
	UserServiceUpdateProfileProcedure = "/tripwiser.v1.UserService/UpdateProfile"
)

// UserServiceHandler serves the tripwiser.v1.UserService: profile reads and writes.
type UserServiceHandler interface {
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + UserServiceName + "/", route(map[string]http.Handler{
		UserServiceGetProfileProcedure:    connect.NewUnaryHandler(UserServiceGetProfileProcedure, svc.GetProfile, opts...),
		UserServiceUpdateProfileProcedure: connect.NewUnaryHandler(UserServiceUpdateProfileProcedure, svc.UpdateProfile, opts...),
	})
}

// UserServiceClient is a client for the tripwiser.v1.UserService.
type UserServiceClient struct {
	getProfile    *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
	updateProfile *connect.Client[api.UpdateProfileRequest, api.UpdateProfileResponse]
}

// NewUserServiceClient constructs a client for the tripwiser.v1.UserService. baseURL is
// the server root, e.g. http://localhost:8080.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *UserServiceClient {
	opts = clientOptions(opts)
	baseURL = trimSlash(baseURL)
	return &UserServiceClient{
		getProfile:    connect.NewClient[api.GetProfileRequest, api.GetProfileResponse](httpClient, baseURL+UserServiceGetProfileProcedure, opts...),
		updateProfile: connect.NewClient[api.UpdateProfileRequest, api.UpdateProfileResponse](httpClient, baseURL+UserServiceUpdateProfileProcedure, opts...),
	}
}

// GetProfile calls tripwiser.v1.UserService.GetProfile.
func (c *UserServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

// UpdateProfile calls tripwiser.v1.UserService.UpdateProfile.
func (c *UserServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

// UnimplementedUserServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedUserServiceHandler struct{}

func (UnimplementedUserServiceHandler) GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return nil, unimplemented(UserServiceGetProfileProcedure)
}

func (UnimplementedUserServiceHandler) UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	return nil, unimplemented(UserServiceUpdateProfileProcedure)
}
