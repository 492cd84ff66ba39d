package ledgerv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/chopbill/pkg/api/ledgerv1"
)

// UserServiceName is the fully-qualified name of the UserService.
const UserServiceName = "chopbill.ledger.v1.UserService"

// Procedure paths of the UserService.
const (
	UserServiceCreateUserProcedure = "/" + UserServiceName + "/CreateUser"
	UserServiceGetUserProcedure    = "/" + UserServiceName + "/GetUser"
	UserServiceDeleteUserProcedure = "/" + UserServiceName + "/DeleteUser"
)

// UserServiceClient is a client for the UserService.
type UserServiceClient interface {
	CreateUser(context.Context, *connect.Request[ledgerv1.CreateUserRequest]) (*connect.Response[ledgerv1.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[ledgerv1.GetUserRequest]) (*connect.Response[ledgerv1.GetUserResponse], error)
	DeleteUser(context.Context, *connect.Request[ledgerv1.DeleteUserRequest]) (*connect.Response[ledgerv1.DeleteUserResponse], error)
}

// NewUserServiceClient constructs a client for the UserService. baseURL is the server
// root, for example http://localhost:8080.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	opts = clientOptions(opts)
	return &userServiceClient{
		createUser: connect.NewClient[ledgerv1.CreateUserRequest, ledgerv1.CreateUserResponse](httpClient, baseURL+UserServiceCreateUserProcedure, opts...),
		getUser:    connect.NewClient[ledgerv1.GetUserRequest, ledgerv1.GetUserResponse](httpClient, baseURL+UserServiceGetUserProcedure, opts...),
		deleteUser: connect.NewClient[ledgerv1.DeleteUserRequest, ledgerv1.DeleteUserResponse](httpClient, baseURL+UserServiceDeleteUserProcedure, opts...),
	}
}

type userServiceClient struct {
	createUser *connect.Client[ledgerv1.CreateUserRequest, ledgerv1.CreateUserResponse]
	getUser    *connect.Client[ledgerv1.GetUserRequest, ledgerv1.GetUserResponse]
	deleteUser *connect.Client[ledgerv1.DeleteUserRequest, ledgerv1.DeleteUserResponse]
}

func (c *userServiceClient) CreateUser(ctx context.Context, req *connect.Request[ledgerv1.CreateUserRequest]) (*connect.Response[ledgerv1.CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *userServiceClient) GetUser(ctx context.Context, req *connect.Request[ledgerv1.GetUserRequest]) (*connect.Response[ledgerv1.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *userServiceClient) DeleteUser(ctx context.Context, req *connect.Request[ledgerv1.DeleteUserRequest]) (*connect.Response[ledgerv1.DeleteUserResponse], error) {
	return c.deleteUser.CallUnary(ctx, req)
}

// UserServiceHandler is implemented by the server side of the UserService.
type UserServiceHandler interface {
	CreateUser(context.Context, *connect.Request[ledgerv1.CreateUserRequest]) (*connect.Response[ledgerv1.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[ledgerv1.GetUserRequest]) (*connect.Response[ledgerv1.GetUserResponse], error)
	DeleteUser(context.Context, *connect.Request[ledgerv1.DeleteUserRequest]) (*connect.Response[ledgerv1.DeleteUserResponse], error)
}

// NewUserServiceHandler builds an HTTP handler for svc. It returns the path to mount
// it on.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createUserHandler := connect.NewUnaryHandler(UserServiceCreateUserProcedure, svc.CreateUser, opts...)
	getUserHandler := connect.NewUnaryHandler(UserServiceGetUserProcedure, svc.GetUser, opts...)
	deleteUserHandler := connect.NewUnaryHandler(UserServiceDeleteUserProcedure, svc.DeleteUser, opts...)
	return "/" + UserServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UserServiceCreateUserProcedure:
			createUserHandler.ServeHTTP(w, r)
		case UserServiceGetUserProcedure:
			getUserHandler.ServeHTTP(w, r)
		case UserServiceDeleteUserProcedure:
			deleteUserHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
