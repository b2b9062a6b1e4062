package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/internal/models"
	"github.com/mmynk/tripwiser/internal/policy"
	"github.com/mmynk/tripwiser/internal/storage"
	"github.com/mmynk/tripwiser/internal/watch"
	"github.com/mmynk/tripwiser/pkg/api"
	"github.com/mmynk/tripwiser/pkg/api/apiconnect"
)

// palette holds the theme colours assigned to items created without one.
var palette = []string{
	"#F87171", "#FB923C", "#FBBF24", "#A3E635", "#34D399",
	"#22D3EE", "#60A5FA", "#A78BFA", "#F472B6", "#94A3B8",
}

func randomColor() string {
	return palette[rand.IntN(len(palette))]
}

// ScheduleService implements the ScheduleService RPC interface.
type ScheduleService struct {
	store  storage.Store
	access *Access
	broker *watch.Broker
	logger *slog.Logger
}

var _ apiconnect.ScheduleServiceHandler = (*ScheduleService)(nil)

// NewScheduleService creates a ScheduleService.
func NewScheduleService(store storage.Store, access *Access, broker *watch.Broker, logger *slog.Logger) *ScheduleService {
	return &ScheduleService{store: store, access: access, broker: broker, logger: logger}
}

// CreateItem adds an item to the trip's schedule.
func (s *ScheduleService) CreateItem(ctx context.Context, req *connect.Request[api.CreateItemRequest]) (*connect.Response[api.CreateItemResponse], error) {
	s.logger.Info("CreateItem request received", "trip_id", req.Msg.TripID)

	scope, err := s.access.authorize(ctx, policy.Schedule, policy.Create, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	item := &models.ScheduleItem{TripID: scope.Trip.ID, CreatedBy: scope.Caller.UserID}
	if err := applyItemInput(item, req.Msg.Item); err != nil {
		return nil, toConnectError(err)
	}
	if item.Color == "" {
		item.Color = randomColor()
	}

	entry := newLog(item.TripID, models.LogSchedule, models.ActionCreate, item.Title, string(item.Category), scope.Caller.UserID)
	if err := s.store.CreateScheduleItem(ctx, item, entry); err != nil {
		s.logger.Error("CreateItem failed", "trip_id", item.TripID, "error", err)
		return nil, toConnectError(err)
	}
	s.broker.Publish(event(item.TripID, watch.EntitySchedule, models.ActionCreate, item.ID))

	s.logger.Info("Schedule item created", "trip_id", item.TripID, "item_id", item.ID)
	return connect.NewResponse(&api.CreateItemResponse{Item: toAPIScheduleItem(item)}), nil
}

// GetItem retrieves one schedule item.
func (s *ScheduleService) GetItem(ctx context.Context, req *connect.Request[api.GetItemRequest]) (*connect.Response[api.GetItemResponse], error) {
	scope, err := s.access.authorize(ctx, policy.Schedule, policy.Read, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	item, err := s.store.GetScheduleItem(ctx, scope.Trip.ID, req.Msg.ItemID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetItemResponse{Item: toAPIScheduleItem(item)}), nil
}

// ListItems returns the schedule ordered by date, then start time,
// optionally narrowed to one category or one day.
func (s *ScheduleService) ListItems(ctx context.Context, req *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error) {
	scope, err := s.access.authorize(ctx, policy.Schedule, policy.List, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	filter := storage.ScheduleFilter{Category: models.Category(req.Msg.Category), Date: req.Msg.Date}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, toConnectError(invalidf("unknown category %q", filter.Category))
	}
	if filter.Date != "" {
		if err := validateDate("date", filter.Date); err != nil {
			return nil, toConnectError(err)
		}
	}

	items, err := s.store.ListScheduleItems(ctx, scope.Trip.ID, filter)
	if err != nil {
		s.logger.Error("ListItems failed", "trip_id", scope.Trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("ListItems successful", "trip_id", scope.Trip.ID, "count", len(items))
	return connect.NewResponse(&api.ListItemsResponse{Items: toAPIScheduleItems(items)}), nil
}

// UpdateItem replaces an item's content. An empty colour keeps the current one.
func (s *ScheduleService) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	s.logger.Info("UpdateItem request received", "trip_id", req.Msg.TripID, "item_id", req.Msg.ItemID)

	scope, err := s.access.authorize(ctx, policy.Schedule, policy.Update, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	item, err := s.store.GetScheduleItem(ctx, scope.Trip.ID, req.Msg.ItemID)
	if err != nil {
		return nil, toConnectError(err)
	}
	color := item.Color
	if err := applyItemInput(item, req.Msg.Item); err != nil {
		return nil, toConnectError(err)
	}
	if item.Color == "" {
		item.Color = color
	}

	entry := newLog(item.TripID, models.LogSchedule, models.ActionUpdate, item.Title, string(item.Category), scope.Caller.UserID)
	if err := s.store.UpdateScheduleItem(ctx, item, entry); err != nil {
		s.logger.Error("UpdateItem failed", "item_id", item.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.broker.Publish(event(item.TripID, watch.EntitySchedule, models.ActionUpdate, item.ID))

	return connect.NewResponse(&api.UpdateItemResponse{Item: toAPIScheduleItem(item)}), nil
}

// DeleteItem removes an item, logging a snapshot of it first.
func (s *ScheduleService) DeleteItem(ctx context.Context, req *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	s.logger.Info("DeleteItem request received", "trip_id", req.Msg.TripID, "item_id", req.Msg.ItemID)

	scope, err := s.access.authorize(ctx, policy.Schedule, policy.Delete, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	item, err := s.store.GetScheduleItem(ctx, scope.Trip.ID, req.Msg.ItemID)
	if err != nil {
		return nil, toConnectError(err)
	}

	entry := newLog(item.TripID, models.LogSchedule, models.ActionDelete, item.Title, snapshot(toAPIScheduleItem(item)), scope.Caller.UserID)
	if err := s.store.DeleteScheduleItem(ctx, item.TripID, item.ID, entry); err != nil {
		s.logger.Error("DeleteItem failed", "item_id", item.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.broker.Publish(event(item.TripID, watch.EntitySchedule, models.ActionDelete, item.ID))

	s.logger.Info("Schedule item deleted", "trip_id", item.TripID, "item_id", item.ID)
	return connect.NewResponse(&api.DeleteItemResponse{}), nil
}

// WatchItems streams the full schedule, once on subscribe and again after
// every change to it. Access is re-checked before each snapshot, so the
// stream ends once the caller loses access or the trip is deleted.
func (s *ScheduleService) WatchItems(ctx context.Context, req *connect.Request[api.WatchItemsRequest], stream *connect.ServerStream[api.WatchItemsResponse]) error {
	s.logger.Info("WatchItems stream opened", "trip_id", req.Msg.TripID)

	send := func() error {
		scope, err := s.access.authorize(ctx, policy.Schedule, policy.List, req.Msg.TripID, "")
		if err != nil {
			return toConnectError(err)
		}
		items, err := s.store.ListScheduleItems(ctx, scope.Trip.ID, storage.ScheduleFilter{})
		if err != nil {
			return toConnectError(err)
		}
		return stream.Send(&api.WatchItemsResponse{Items: toAPIScheduleItems(items)})
	}

	err := streamSnapshots(ctx, s.broker, req.Msg.TripID,
		[]string{watch.EntitySchedule, watch.EntityTrip, watch.EntityMember}, send)
	s.logger.Info("WatchItems stream closed", "trip_id", req.Msg.TripID, "error", err)
	return err
}

// applyItemInput validates in and copies it onto item.
func applyItemInput(item *models.ScheduleItem, in *api.ScheduleItemInput) error {
	if in == nil {
		return invalidf("item is required")
	}

	category := models.Category(in.Category)
	if !category.Valid() {
		return invalidf("unknown category %q", in.Category)
	}
	title, err := required("title", in.Title)
	if err != nil {
		return err
	}
	if err := validateDate("date", in.Date); err != nil {
		return err
	}
	if err := validateTime("start time", in.StartTime); err != nil {
		return err
	}
	if err := validateTime("end time", in.EndTime); err != nil {
		return err
	}
	if in.EndDate != "" {
		if err := validateDateRange(in.Date, in.EndDate); err != nil {
			return err
		}
	}

	var flight *models.FlightDetails
	switch {
	case category == models.CategoryFlight && in.Flight == nil:
		return invalidf("flight items need flight details")
	case in.Flight != nil && category != models.CategoryFlight:
		return invalidf("flight details are only allowed on flight items")
	case in.Flight != nil:
		if flight, err = flightDetails(in.Flight); err != nil {
			return err
		}
	}

	item.Category = category
	item.Title = title
	item.Date = in.Date
	item.StartTime = in.StartTime
	item.EndDate = in.EndDate
	item.EndTime = in.EndTime
	item.Notes = in.Notes
	item.LocationURL = in.LocationURL
	item.Participants = uniqueIDs(in.Participants)
	item.Color = in.Color
	item.Flight = flight
	return nil
}

func flightDetails(in *api.FlightDetails) (*models.FlightDetails, error) {
	number, err := required("flight number", in.FlightNumber)
	if err != nil {
		return nil, err
	}
	origin, err := required("origin", in.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := required("destination", in.Destination)
	if err != nil {
		return nil, err
	}
	status := models.FlightStatus(in.Status)
	if status == "" {
		status = models.FlightScheduled
	}
	if !status.Valid() {
		return nil, invalidf("unknown flight status %q", in.Status)
	}
	if err := validateTime("departure time", in.DepartureTime); err != nil {
		return nil, fmt.Errorf("flight %s: %w", number, err)
	}
	if err := validateTime("arrival time", in.ArrivalTime); err != nil {
		return nil, fmt.Errorf("flight %s: %w", number, err)
	}

	return &models.FlightDetails{
		FlightNumber:     number,
		Origin:           origin,
		Destination:      destination,
		DepartureTime:    in.DepartureTime,
		ArrivalTime:      in.ArrivalTime,
		Seat:             in.Seat,
		Gate:             in.Gate,
		Terminal:         in.Terminal,
		BookingReference: in.BookingReference,
		Status:           status,
	}, nil
}
