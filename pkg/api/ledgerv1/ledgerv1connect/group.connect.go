package ledgerv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/chopbill/pkg/api/ledgerv1"
)

// GroupServiceName is the fully-qualified name of the GroupService.
const GroupServiceName = "chopbill.ledger.v1.GroupService"

// Procedure paths of the GroupService.
const (
	GroupServiceCreateGroupProcedure  = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceListGroupsProcedure   = "/" + GroupServiceName + "/ListGroups"
	GroupServiceAddMemberProcedure    = "/" + GroupServiceName + "/AddMember"
	GroupServiceRemoveMemberProcedure = "/" + GroupServiceName + "/RemoveMember"
	GroupServiceDeleteGroupProcedure  = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceCreateInviteProcedure = "/" + GroupServiceName + "/CreateInvite"
	GroupServiceGetInviteProcedure    = "/" + GroupServiceName + "/GetInvite"
	GroupServiceAcceptInviteProcedure = "/" + GroupServiceName + "/AcceptInvite"
)

// GroupServiceClient is a client for the GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[ledgerv1.CreateGroupRequest]) (*connect.Response[ledgerv1.CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ledgerv1.ListGroupsRequest]) (*connect.Response[ledgerv1.ListGroupsResponse], error)
	AddMember(context.Context, *connect.Request[ledgerv1.AddMemberRequest]) (*connect.Response[ledgerv1.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[ledgerv1.RemoveMemberRequest]) (*connect.Response[ledgerv1.RemoveMemberResponse], error)
	DeleteGroup(context.Context, *connect.Request[ledgerv1.DeleteGroupRequest]) (*connect.Response[ledgerv1.DeleteGroupResponse], error)
	CreateInvite(context.Context, *connect.Request[ledgerv1.CreateInviteRequest]) (*connect.Response[ledgerv1.CreateInviteResponse], error)
	GetInvite(context.Context, *connect.Request[ledgerv1.GetInviteRequest]) (*connect.Response[ledgerv1.GetInviteResponse], error)
	AcceptInvite(context.Context, *connect.Request[ledgerv1.AcceptInviteRequest]) (*connect.Response[ledgerv1.AcceptInviteResponse], error)
}

// NewGroupServiceClient constructs a client for the GroupService. baseURL is the server
// root, for example http://localhost:8080.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:  connect.NewClient[ledgerv1.CreateGroupRequest, ledgerv1.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		listGroups:   connect.NewClient[ledgerv1.ListGroupsRequest, ledgerv1.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		addMember:    connect.NewClient[ledgerv1.AddMemberRequest, ledgerv1.AddMemberResponse](httpClient, baseURL+GroupServiceAddMemberProcedure, opts...),
		removeMember: connect.NewClient[ledgerv1.RemoveMemberRequest, ledgerv1.RemoveMemberResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
		deleteGroup:  connect.NewClient[ledgerv1.DeleteGroupRequest, ledgerv1.DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		createInvite: connect.NewClient[ledgerv1.CreateInviteRequest, ledgerv1.CreateInviteResponse](httpClient, baseURL+GroupServiceCreateInviteProcedure, opts...),
		getInvite:    connect.NewClient[ledgerv1.GetInviteRequest, ledgerv1.GetInviteResponse](httpClient, baseURL+GroupServiceGetInviteProcedure, opts...),
		acceptInvite: connect.NewClient[ledgerv1.AcceptInviteRequest, ledgerv1.AcceptInviteResponse](httpClient, baseURL+GroupServiceAcceptInviteProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup  *connect.Client[ledgerv1.CreateGroupRequest, ledgerv1.CreateGroupResponse]
	listGroups   *connect.Client[ledgerv1.ListGroupsRequest, ledgerv1.ListGroupsResponse]
	addMember    *connect.Client[ledgerv1.AddMemberRequest, ledgerv1.AddMemberResponse]
	removeMember *connect.Client[ledgerv1.RemoveMemberRequest, ledgerv1.RemoveMemberResponse]
	deleteGroup  *connect.Client[ledgerv1.DeleteGroupRequest, ledgerv1.DeleteGroupResponse]
	createInvite *connect.Client[ledgerv1.CreateInviteRequest, ledgerv1.CreateInviteResponse]
	getInvite    *connect.Client[ledgerv1.GetInviteRequest, ledgerv1.GetInviteResponse]
	acceptInvite *connect.Client[ledgerv1.AcceptInviteRequest, ledgerv1.AcceptInviteResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[ledgerv1.CreateGroupRequest]) (*connect.Response[ledgerv1.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ledgerv1.ListGroupsRequest]) (*connect.Response[ledgerv1.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMember(ctx context.Context, req *connect.Request[ledgerv1.AddMemberRequest]) (*connect.Response[ledgerv1.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[ledgerv1.RemoveMemberRequest]) (*connect.Response[ledgerv1.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[ledgerv1.DeleteGroupRequest]) (*connect.Response[ledgerv1.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) CreateInvite(ctx context.Context, req *connect.Request[ledgerv1.CreateInviteRequest]) (*connect.Response[ledgerv1.CreateInviteResponse], error) {
	return c.createInvite.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetInvite(ctx context.Context, req *connect.Request[ledgerv1.GetInviteRequest]) (*connect.Response[ledgerv1.GetInviteResponse], error) {
	return c.getInvite.CallUnary(ctx, req)
}

func (c *groupServiceClient) AcceptInvite(ctx context.Context, req *connect.Request[ledgerv1.AcceptInviteRequest]) (*connect.Response[ledgerv1.AcceptInviteResponse], error) {
	return c.acceptInvite.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the server side of the GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[ledgerv1.CreateGroupRequest]) (*connect.Response[ledgerv1.CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ledgerv1.ListGroupsRequest]) (*connect.Response[ledgerv1.ListGroupsResponse], error)
	AddMember(context.Context, *connect.Request[ledgerv1.AddMemberRequest]) (*connect.Response[ledgerv1.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[ledgerv1.RemoveMemberRequest]) (*connect.Response[ledgerv1.RemoveMemberResponse], error)
	DeleteGroup(context.Context, *connect.Request[ledgerv1.DeleteGroupRequest]) (*connect.Response[ledgerv1.DeleteGroupResponse], error)
	CreateInvite(context.Context, *connect.Request[ledgerv1.CreateInviteRequest]) (*connect.Response[ledgerv1.CreateInviteResponse], error)
	GetInvite(context.Context, *connect.Request[ledgerv1.GetInviteRequest]) (*connect.Response[ledgerv1.GetInviteResponse], error)
	AcceptInvite(context.Context, *connect.Request[ledgerv1.AcceptInviteRequest]) (*connect.Response[ledgerv1.AcceptInviteResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for svc. It returns the path to mount
// it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createGroupHandler := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	listGroupsHandler := connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...)
	addMemberHandler := connect.NewUnaryHandler(GroupServiceAddMemberProcedure, svc.AddMember, opts...)
	removeMemberHandler := connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...)
	deleteGroupHandler := connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...)
	createInviteHandler := connect.NewUnaryHandler(GroupServiceCreateInviteProcedure, svc.CreateInvite, opts...)
	getInviteHandler := connect.NewUnaryHandler(GroupServiceGetInviteProcedure, svc.GetInvite, opts...)
	acceptInviteHandler := connect.NewUnaryHandler(GroupServiceAcceptInviteProcedure, svc.AcceptInvite, opts...)
	return "/" + GroupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroupHandler.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			listGroupsHandler.ServeHTTP(w, r)
		case GroupServiceAddMemberProcedure:
			addMemberHandler.ServeHTTP(w, r)
		case GroupServiceRemoveMemberProcedure:
			removeMemberHandler.ServeHTTP(w, r)
		case GroupServiceDeleteGroupProcedure:
			deleteGroupHandler.ServeHTTP(w, r)
		case GroupServiceCreateInviteProcedure:
			createInviteHandler.ServeHTTP(w, r)
		case GroupServiceGetInviteProcedure:
			getInviteHandler.ServeHTTP(w, r)
		case GroupServiceAcceptInviteProcedure:
			acceptInviteHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
