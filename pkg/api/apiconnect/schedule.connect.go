package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/pkg/api"
)

// ScheduleServiceName is the fully-qualified name of the ScheduleService.
const ScheduleServiceName = "tripwiser.v1.ScheduleService"

// Procedure paths of the ScheduleService.
const (
	ScheduleServiceCreateItemProcedure = "/tripwiser.v1.ScheduleService/CreateItem"
	ScheduleServiceGetItemProcedure    = "/tripwiser.v1.ScheduleService/GetItem"
	ScheduleServiceListItemsProcedure  = "/tripwiser.v1.ScheduleService/ListItems"
	ScheduleServiceUpdateItemProcedure = "/tripwiser.v1.ScheduleService/UpdateItem"
	ScheduleServiceDeleteItemProcedure = "/tripwiser.v1.ScheduleService/DeleteItem"
	ScheduleServiceWatchItemsProcedure = "/tripwiser.v1.ScheduleService/WatchItems"
)

// ScheduleServiceHandler serves the tripwiser.v1.ScheduleService: the trip itinerary.
type ScheduleServiceHandler interface {
	CreateItem(context.Context, *connect.Request[api.CreateItemRequest]) (*connect.Response[api.CreateItemResponse], error)
	GetItem(context.Context, *connect.Request[api.GetItemRequest]) (*connect.Response[api.GetItemResponse], error)
	ListItems(context.Context, *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error)
	DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error)
	WatchItems(context.Context, *connect.Request[api.WatchItemsRequest], *connect.ServerStream[api.WatchItemsResponse]) error
}

// NewScheduleServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewScheduleServiceHandler(svc ScheduleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ScheduleServiceName + "/", route(map[string]http.Handler{
		ScheduleServiceCreateItemProcedure: connect.NewUnaryHandler(ScheduleServiceCreateItemProcedure, svc.CreateItem, opts...),
		ScheduleServiceGetItemProcedure:    connect.NewUnaryHandler(ScheduleServiceGetItemProcedure, svc.GetItem, opts...),
		ScheduleServiceListItemsProcedure:  connect.NewUnaryHandler(ScheduleServiceListItemsProcedure, svc.ListItems, opts...),
		ScheduleServiceUpdateItemProcedure: connect.NewUnaryHandler(ScheduleServiceUpdateItemProcedure, svc.UpdateItem, opts...),
		ScheduleServiceDeleteItemProcedure: connect.NewUnaryHandler(ScheduleServiceDeleteItemProcedure, svc.DeleteItem, opts...),
		ScheduleServiceWatchItemsProcedure: connect.NewServerStreamHandler(ScheduleServiceWatchItemsProcedure, svc.WatchItems, opts...),
	})
}

// ScheduleServiceClient is a client for the tripwiser.v1.ScheduleService.
type ScheduleServiceClient struct {
	createItem *connect.Client[api.CreateItemRequest, api.CreateItemResponse]
	getItem    *connect.Client[api.GetItemRequest, api.GetItemResponse]
	listItems  *connect.Client[api.ListItemsRequest, api.ListItemsResponse]
	updateItem *connect.Client[api.UpdateItemRequest, api.UpdateItemResponse]
	deleteItem *connect.Client[api.DeleteItemRequest, api.DeleteItemResponse]
	watchItems *connect.Client[api.WatchItemsRequest, api.WatchItemsResponse]
}

// NewScheduleServiceClient constructs a client for the tripwiser.v1.ScheduleService. baseURL is
// the server root, e.g. http://localhost:8080.
func NewScheduleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ScheduleServiceClient {
	opts = clientOptions(opts)
	baseURL = trimSlash(baseURL)
	return &ScheduleServiceClient{
		createItem: connect.NewClient[api.CreateItemRequest, api.CreateItemResponse](httpClient, baseURL+ScheduleServiceCreateItemProcedure, opts...),
		getItem:    connect.NewClient[api.GetItemRequest, api.GetItemResponse](httpClient, baseURL+ScheduleServiceGetItemProcedure, opts...),
		listItems:  connect.NewClient[api.ListItemsRequest, api.ListItemsResponse](httpClient, baseURL+ScheduleServiceListItemsProcedure, opts...),
		updateItem: connect.NewClient[api.UpdateItemRequest, api.UpdateItemResponse](httpClient, baseURL+ScheduleServiceUpdateItemProcedure, opts...),
		deleteItem: connect.NewClient[api.DeleteItemRequest, api.DeleteItemResponse](httpClient, baseURL+ScheduleServiceDeleteItemProcedure, opts...),
		watchItems: connect.NewClient[api.WatchItemsRequest, api.WatchItemsResponse](httpClient, baseURL+ScheduleServiceWatchItemsProcedure, opts...),
	}
}

// CreateItem calls tripwiser.v1.ScheduleService.CreateItem.
func (c *ScheduleServiceClient) CreateItem(ctx context.Context, req *connect.Request[api.CreateItemRequest]) (*connect.Response[api.CreateItemResponse], error) {
	return c.createItem.CallUnary(ctx, req)
}

// GetItem calls tripwiser.v1.ScheduleService.GetItem.
func (c *ScheduleServiceClient) GetItem(ctx context.Context, req *connect.Request[api.GetItemRequest]) (*connect.Response[api.GetItemResponse], error) {
	return c.getItem.CallUnary(ctx, req)
}

// ListItems calls tripwiser.v1.ScheduleService.ListItems.
func (c *ScheduleServiceClient) ListItems(ctx context.Context, req *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error) {
	return c.listItems.CallUnary(ctx, req)
}

// UpdateItem calls tripwiser.v1.ScheduleService.UpdateItem.
func (c *ScheduleServiceClient) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

// DeleteItem calls tripwiser.v1.ScheduleService.DeleteItem.
func (c *ScheduleServiceClient) DeleteItem(ctx context.Context, req *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	return c.deleteItem.CallUnary(ctx, req)
}

// WatchItems calls tripwiser.v1.ScheduleService.WatchItems.
func (c *ScheduleServiceClient) WatchItems(ctx context.Context, req *connect.Request[api.WatchItemsRequest]) (*connect.ServerStreamForClient[api.WatchItemsResponse], error) {
	return c.watchItems.CallServerStream(ctx, req)
}

// UnimplementedScheduleServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedScheduleServiceHandler struct{}

func (UnimplementedScheduleServiceHandler) CreateItem(context.Context, *connect.Request[api.CreateItemRequest]) (*connect.Response[api.CreateItemResponse], error) {
	return nil, unimplemented(ScheduleServiceCreateItemProcedure)
}

func (UnimplementedScheduleServiceHandler) GetItem(context.Context, *connect.Request[api.GetItemRequest]) (*connect.Response[api.GetItemResponse], error) {
	return nil, unimplemented(ScheduleServiceGetItemProcedure)
}

func (UnimplementedScheduleServiceHandler) ListItems(context.Context, *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error) {
	return nil, unimplemented(ScheduleServiceListItemsProcedure)
}

func (UnimplementedScheduleServiceHandler) UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	return nil, unimplemented(ScheduleServiceUpdateItemProcedure)
}

func (UnimplementedScheduleServiceHandler) DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	return nil, unimplemented(ScheduleServiceDeleteItemProcedure)
}

func (UnimplementedScheduleServiceHandler) WatchItems(context.Context, *connect.Request[api.WatchItemsRequest], *connect.ServerStream[api.WatchItemsResponse]) error {
	return unimplemented(ScheduleServiceWatchItemsProcedure)
}
