package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/pkg/api"
)

// TripServiceName is the fully-qualified name of the TripService.
const TripServiceName = "tripwiser.v1.TripService"

// Procedure paths of the TripService.
const (
	TripServiceCreateTripProcedure      = "/tripwiser.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure         = "/tripwiser.v1.TripService/GetTrip"
	TripServiceListTripsProcedure       = "/tripwiser.v1.TripService/ListTrips"
	TripServiceUpdateTripProcedure      = "/tripwiser.v1.TripService/UpdateTrip"
	TripServiceDeleteTripProcedure      = "/tripwiser.v1.TripService/DeleteTrip"
	TripServiceInviteMemberProcedure    = "/tripwiser.v1.TripService/InviteMember"
	TripServiceRevokeInviteProcedure    = "/tripwiser.v1.TripService/RevokeInvite"
	TripServiceJoinTripProcedure        = "/tripwiser.v1.TripService/JoinTrip"
	TripServiceListMembersProcedure     = "/tripwiser.v1.TripService/ListMembers"
	TripServiceUpdateMemberProcedure    = "/tripwiser.v1.TripService/UpdateMember"
	TripServiceListMembershipsProcedure = "/tripwiser.v1.TripService/ListMemberships"
	TripServiceListActivityProcedure    = "/tripwiser.v1.TripService/ListActivity"
)

// TripServiceHandler serves the tripwiser.v1.TripService: trips, invitations, members and the activity log.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	InviteMember(context.Context, *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.InviteMemberResponse], error)
	RevokeInvite(context.Context, *connect.Request[api.RevokeInviteRequest]) (*connect.Response[api.RevokeInviteResponse], error)
	JoinTrip(context.Context, *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	UpdateMember(context.Context, *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error)
	ListMemberships(context.Context, *connect.Request[api.ListMembershipsRequest]) (*connect.Response[api.ListMembershipsResponse], error)
	ListActivity(context.Context, *connect.Request[api.ListActivityRequest]) (*connect.Response[api.ListActivityResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + TripServiceName + "/", route(map[string]http.Handler{
		TripServiceCreateTripProcedure:      connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...),
		TripServiceGetTripProcedure:         connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...),
		TripServiceListTripsProcedure:       connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...),
		TripServiceUpdateTripProcedure:      connect.NewUnaryHandler(TripServiceUpdateTripProcedure, svc.UpdateTrip, opts...),
		TripServiceDeleteTripProcedure:      connect.NewUnaryHandler(TripServiceDeleteTripProcedure, svc.DeleteTrip, opts...),
		TripServiceInviteMemberProcedure:    connect.NewUnaryHandler(TripServiceInviteMemberProcedure, svc.InviteMember, opts...),
		TripServiceRevokeInviteProcedure:    connect.NewUnaryHandler(TripServiceRevokeInviteProcedure, svc.RevokeInvite, opts...),
		TripServiceJoinTripProcedure:        connect.NewUnaryHandler(TripServiceJoinTripProcedure, svc.JoinTrip, opts...),
		TripServiceListMembersProcedure:     connect.NewUnaryHandler(TripServiceListMembersProcedure, svc.ListMembers, opts...),
		TripServiceUpdateMemberProcedure:    connect.NewUnaryHandler(TripServiceUpdateMemberProcedure, svc.UpdateMember, opts...),
		TripServiceListMembershipsProcedure: connect.NewUnaryHandler(TripServiceListMembershipsProcedure, svc.ListMemberships, opts...),
		TripServiceListActivityProcedure:    connect.NewUnaryHandler(TripServiceListActivityProcedure, svc.ListActivity, opts...),
	})
}

// TripServiceClient is a client for the tripwiser.v1.TripService.
type TripServiceClient struct {
	createTrip      *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	getTrip         *connect.Client[api.GetTripRequest, api.GetTripResponse]
	listTrips       *connect.Client[api.ListTripsRequest, api.ListTripsResponse]
	updateTrip      *connect.Client[api.UpdateTripRequest, api.UpdateTripResponse]
	deleteTrip      *connect.Client[api.DeleteTripRequest, api.DeleteTripResponse]
	inviteMember    *connect.Client[api.InviteMemberRequest, api.InviteMemberResponse]
	revokeInvite    *connect.Client[api.RevokeInviteRequest, api.RevokeInviteResponse]
	joinTrip        *connect.Client[api.JoinTripRequest, api.JoinTripResponse]
	listMembers     *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	updateMember    *connect.Client[api.UpdateMemberRequest, api.UpdateMemberResponse]
	listMemberships *connect.Client[api.ListMembershipsRequest, api.ListMembershipsResponse]
	listActivity    *connect.Client[api.ListActivityRequest, api.ListActivityResponse]
}

// NewTripServiceClient constructs a client for the tripwiser.v1.TripService. baseURL is
// the server root, e.g. http://localhost:8080.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TripServiceClient {
	opts = clientOptions(opts)
	baseURL = trimSlash(baseURL)
	return &TripServiceClient{
		createTrip:      connect.NewClient[api.CreateTripRequest, api.CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		getTrip:         connect.NewClient[api.GetTripRequest, api.GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		listTrips:       connect.NewClient[api.ListTripsRequest, api.ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, opts...),
		updateTrip:      connect.NewClient[api.UpdateTripRequest, api.UpdateTripResponse](httpClient, baseURL+TripServiceUpdateTripProcedure, opts...),
		deleteTrip:      connect.NewClient[api.DeleteTripRequest, api.DeleteTripResponse](httpClient, baseURL+TripServiceDeleteTripProcedure, opts...),
		inviteMember:    connect.NewClient[api.InviteMemberRequest, api.InviteMemberResponse](httpClient, baseURL+TripServiceInviteMemberProcedure, opts...),
		revokeInvite:    connect.NewClient[api.RevokeInviteRequest, api.RevokeInviteResponse](httpClient, baseURL+TripServiceRevokeInviteProcedure, opts...),
		joinTrip:        connect.NewClient[api.JoinTripRequest, api.JoinTripResponse](httpClient, baseURL+TripServiceJoinTripProcedure, opts...),
		listMembers:     connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+TripServiceListMembersProcedure, opts...),
		updateMember:    connect.NewClient[api.UpdateMemberRequest, api.UpdateMemberResponse](httpClient, baseURL+TripServiceUpdateMemberProcedure, opts...),
		listMemberships: connect.NewClient[api.ListMembershipsRequest, api.ListMembershipsResponse](httpClient, baseURL+TripServiceListMembershipsProcedure, opts...),
		listActivity:    connect.NewClient[api.ListActivityRequest, api.ListActivityResponse](httpClient, baseURL+TripServiceListActivityProcedure, opts...),
	}
}

// CreateTrip calls tripwiser.v1.TripService.CreateTrip.
func (c *TripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

// GetTrip calls tripwiser.v1.TripService.GetTrip.
func (c *TripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

// ListTrips calls tripwiser.v1.TripService.ListTrips.
func (c *TripServiceClient) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

// UpdateTrip calls tripwiser.v1.TripService.UpdateTrip.
func (c *TripServiceClient) UpdateTrip(ctx context.Context, req *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	return c.updateTrip.CallUnary(ctx, req)
}

// DeleteTrip calls tripwiser.v1.TripService.DeleteTrip.
func (c *TripServiceClient) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return c.deleteTrip.CallUnary(ctx, req)
}

// InviteMember calls tripwiser.v1.TripService.InviteMember.
func (c *TripServiceClient) InviteMember(ctx context.Context, req *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.InviteMemberResponse], error) {
	return c.inviteMember.CallUnary(ctx, req)
}

// RevokeInvite calls tripwiser.v1.TripService.RevokeInvite.
func (c *TripServiceClient) RevokeInvite(ctx context.Context, req *connect.Request[api.RevokeInviteRequest]) (*connect.Response[api.RevokeInviteResponse], error) {
	return c.revokeInvite.CallUnary(ctx, req)
}

// JoinTrip calls tripwiser.v1.TripService.JoinTrip.
func (c *TripServiceClient) JoinTrip(ctx context.Context, req *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error) {
	return c.joinTrip.CallUnary(ctx, req)
}

// ListMembers calls tripwiser.v1.TripService.ListMembers.
func (c *TripServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

// UpdateMember calls tripwiser.v1.TripService.UpdateMember.
func (c *TripServiceClient) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	return c.updateMember.CallUnary(ctx, req)
}

// ListMemberships calls tripwiser.v1.TripService.ListMemberships.
func (c *TripServiceClient) ListMemberships(ctx context.Context, req *connect.Request[api.ListMembershipsRequest]) (*connect.Response[api.ListMembershipsResponse], error) {
	return c.listMemberships.CallUnary(ctx, req)
}

// ListActivity calls tripwiser.v1.TripService.ListActivity.
func (c *TripServiceClient) ListActivity(ctx context.Context, req *connect.Request[api.ListActivityRequest]) (*connect.Response[api.ListActivityResponse], error) {
	return c.listActivity.CallUnary(ctx, req)
}

// UnimplementedTripServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedTripServiceHandler struct{}

func (UnimplementedTripServiceHandler) CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return nil, unimplemented(TripServiceCreateTripProcedure)
}

func (UnimplementedTripServiceHandler) GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return nil, unimplemented(TripServiceGetTripProcedure)
}

func (UnimplementedTripServiceHandler) ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return nil, unimplemented(TripServiceListTripsProcedure)
}

func (UnimplementedTripServiceHandler) UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	return nil, unimplemented(TripServiceUpdateTripProcedure)
}

func (UnimplementedTripServiceHandler) DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return nil, unimplemented(TripServiceDeleteTripProcedure)
}

func (UnimplementedTripServiceHandler) InviteMember(context.Context, *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.InviteMemberResponse], error) {
	return nil, unimplemented(TripServiceInviteMemberProcedure)
}

func (UnimplementedTripServiceHandler) RevokeInvite(context.Context, *connect.Request[api.RevokeInviteRequest]) (*connect.Response[api.RevokeInviteResponse], error) {
	return nil, unimplemented(TripServiceRevokeInviteProcedure)
}

func (UnimplementedTripServiceHandler) JoinTrip(context.Context, *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error) {
	return nil, unimplemented(TripServiceJoinTripProcedure)
}

func (UnimplementedTripServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, unimplemented(TripServiceListMembersProcedure)
}

func (UnimplementedTripServiceHandler) UpdateMember(context.Context, *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	return nil, unimplemented(TripServiceUpdateMemberProcedure)
}

func (UnimplementedTripServiceHandler) ListMemberships(context.Context, *connect.Request[api.ListMembershipsRequest]) (*connect.Response[api.ListMembershipsResponse], error) {
	return nil, unimplemented(TripServiceListMembershipsProcedure)
}

func (UnimplementedTripServiceHandler) ListActivity(context.Context, *connect.Request[api.ListActivityRequest]) (*connect.Response[api.ListActivityResponse], error) {
	return nil, unimplemented(TripServiceListActivityProcedure)
}
