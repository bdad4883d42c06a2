package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpocket/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "splitpocket.v1.GroupService"

// These constants are the fully-qualified names of the RPCs defined in this
// service. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	// GroupServiceCreateGroupProcedure is the fully-qualified name of the GroupService's CreateGroup RPC.
	GroupServiceCreateGroupProcedure = "/splitpocket.v1.GroupService/CreateGroup"
	// GroupServiceGetGroupProcedure is the fully-qualified name of the GroupService's GetGroup RPC.
	GroupServiceGetGroupProcedure = "/splitpocket.v1.GroupService/GetGroup"
	// GroupServiceListMyGroupsProcedure is the fully-qualified name of the GroupService's ListMyGroups RPC.
	GroupServiceListMyGroupsProcedure = "/splitpocket.v1.GroupService/ListMyGroups"
	// GroupServiceAddMembersProcedure is the fully-qualified name of the GroupService's AddMembers RPC.
	GroupServiceAddMembersProcedure = "/splitpocket.v1.GroupService/AddMembers"
	// GroupServiceGetBalanceSummaryProcedure is the fully-qualified name of the GroupService's GetBalanceSummary RPC.
	GroupServiceGetBalanceSummaryProcedure = "/splitpocket.v1.GroupService/GetBalanceSummary"
	// GroupServiceWatchBalancesProcedure is the fully-qualified name of the GroupService's WatchBalances RPC.
	GroupServiceWatchBalancesProcedure = "/splitpocket.v1.GroupService/WatchBalances"
)

// GroupServiceClient is a client for the splitpocket.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	GetBalanceSummary(context.Context, *connect.Request[api.GetBalanceSummaryRequest]) (*connect.Response[api.GetBalanceSummaryResponse], error)
	WatchBalances(context.Context, *connect.Request[api.WatchBalancesRequest]) (*connect.ServerStreamForClient[api.WatchBalancesResponse], error)
}

// NewGroupServiceClient constructs a client for the splitpocket.v1.GroupService service.
//
// The URL supplied here should be the base URL for the server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &groupServiceClient{
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](
			httpClient,
			baseURL+GroupServiceCreateGroupProcedure,
			connect.WithClientOptions(opts...),
		),
		getGroup: connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](
			httpClient,
			baseURL+GroupServiceGetGroupProcedure,
			connect.WithClientOptions(opts...),
		),
		listMyGroups: connect.NewClient[api.ListMyGroupsRequest, api.ListMyGroupsResponse](
			httpClient,
			baseURL+GroupServiceListMyGroupsProcedure,
			connect.WithClientOptions(opts...),
		),
		addMembers: connect.NewClient[api.AddMembersRequest, api.AddMembersResponse](
			httpClient,
			baseURL+GroupServiceAddMembersProcedure,
			connect.WithClientOptions(opts...),
		),
		getBalanceSummary: connect.NewClient[api.GetBalanceSummaryRequest, api.GetBalanceSummaryResponse](
			httpClient,
			baseURL+GroupServiceGetBalanceSummaryProcedure,
			connect.WithClientOptions(opts...),
		),
		watchBalances: connect.NewClient[api.WatchBalancesRequest, api.WatchBalancesResponse](
			httpClient,
			baseURL+GroupServiceWatchBalancesProcedure,
			connect.WithClientOptions(opts...),
		),
	}
}

// groupServiceClient implements GroupServiceClient.
type groupServiceClient struct {
	createGroup       *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup          *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listMyGroups      *connect.Client[api.ListMyGroupsRequest, api.ListMyGroupsResponse]
	addMembers        *connect.Client[api.AddMembersRequest, api.AddMembersResponse]
	getBalanceSummary *connect.Client[api.GetBalanceSummaryRequest, api.GetBalanceSummaryResponse]
	watchBalances     *connect.Client[api.WatchBalancesRequest, api.WatchBalancesResponse]
}

// CreateGroup calls splitpocket.v1.GroupService.CreateGroup.
func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

// GetGroup calls splitpocket.v1.GroupService.GetGroup.
func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

// ListMyGroups calls splitpocket.v1.GroupService.ListMyGroups.
func (c *groupServiceClient) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	return c.listMyGroups.CallUnary(ctx, req)
}

// AddMembers calls splitpocket.v1.GroupService.AddMembers.
func (c *groupServiceClient) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

// GetBalanceSummary calls splitpocket.v1.GroupService.GetBalanceSummary.
func (c *groupServiceClient) GetBalanceSummary(ctx context.Context, req *connect.Request[api.GetBalanceSummaryRequest]) (*connect.Response[api.GetBalanceSummaryResponse], error) {
	return c.getBalanceSummary.CallUnary(ctx, req)
}

// WatchBalances calls splitpocket.v1.GroupService.WatchBalances.
func (c *groupServiceClient) WatchBalances(ctx context.Context, req *connect.Request[api.WatchBalancesRequest]) (*connect.ServerStreamForClient[api.WatchBalancesResponse], error) {
	return c.watchBalances.CallServerStream(ctx, req)
}

// GroupServiceHandler is an implementation of the splitpocket.v1.GroupService service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	GetBalanceSummary(context.Context, *connect.Request[api.GetBalanceSummaryRequest]) (*connect.Response[api.GetBalanceSummaryResponse], error)
	WatchBalances(context.Context, *connect.Request[api.WatchBalancesRequest], *connect.ServerStream[api.WatchBalancesResponse]) error
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	groupServiceCreateGroupHandler := connect.NewUnaryHandler(
		GroupServiceCreateGroupProcedure,
		svc.CreateGroup,
		connect.WithHandlerOptions(opts...),
	)
	groupServiceGetGroupHandler := connect.NewUnaryHandler(
		GroupServiceGetGroupProcedure,
		svc.GetGroup,
		connect.WithHandlerOptions(opts...),
	)
	groupServiceListMyGroupsHandler := connect.NewUnaryHandler(
		GroupServiceListMyGroupsProcedure,
		svc.ListMyGroups,
		connect.WithHandlerOptions(opts...),
	)
	groupServiceAddMembersHandler := connect.NewUnaryHandler(
		GroupServiceAddMembersProcedure,
		svc.AddMembers,
		connect.WithHandlerOptions(opts...),
	)
	groupServiceGetBalanceSummaryHandler := connect.NewUnaryHandler(
		GroupServiceGetBalanceSummaryProcedure,
		svc.GetBalanceSummary,
		connect.WithHandlerOptions(opts...),
	)
	groupServiceWatchBalancesHandler := connect.NewServerStreamHandler(
		GroupServiceWatchBalancesProcedure,
		svc.WatchBalances,
		connect.WithHandlerOptions(opts...),
	)
	return "/splitpocket.v1.GroupService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			groupServiceCreateGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			groupServiceGetGroupHandler.ServeHTTP(w, r)
		case GroupServiceListMyGroupsProcedure:
			groupServiceListMyGroupsHandler.ServeHTTP(w, r)
		case GroupServiceAddMembersProcedure:
			groupServiceAddMembersHandler.ServeHTTP(w, r)
		case GroupServiceGetBalanceSummaryProcedure:
			groupServiceGetBalanceSummaryHandler.ServeHTTP(w, r)
		case GroupServiceWatchBalancesProcedure:
			groupServiceWatchBalancesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.GroupService.CreateGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.GroupService.GetGroup is not implemented"))
}

func (UnimplementedGroupServiceHandler) ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.GroupService.ListMyGroups is not implemented"))
}

func (UnimplementedGroupServiceHandler) AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.GroupService.AddMembers is not implemented"))
}

func (UnimplementedGroupServiceHandler) GetBalanceSummary(context.Context, *connect.Request[api.GetBalanceSummaryRequest]) (*connect.Response[api.GetBalanceSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.GroupService.GetBalanceSummary is not implemented"))
}

func (UnimplementedGroupServiceHandler) WatchBalances(context.Context, *connect.Request[api.WatchBalancesRequest], *connect.ServerStream[api.WatchBalancesResponse]) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New("splitpocket.v1.GroupService.WatchBalances is not implemented"))
}
