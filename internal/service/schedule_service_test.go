package service

import (
	"context"
	"encoding/json"
	"slices"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/pkg/api"
)

func (e *testEnv) addItem(t *testing.T, u testUser, tripID string, in *api.ScheduleItemInput) *api.ScheduleItem {
	t.Helper()
	resp, err := e.schedule(u).CreateItem(context.Background(), connect.NewRequest(&api.CreateItemRequest{
		TripID: tripID,
		Item:   in,
	}))
	if err != nil {
		t.Fatalf("CreateItem(%s) failed: %v", in.Title, err)
	}
	return resp.Msg.Item
}

func itemTitles(items []*api.ScheduleItem) []string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return titles
}

func TestCreateItem(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "alice@example.com", "Alice")
	trip := env.createTrip(t, alice)

	item := env.addItem(t, alice, trip.ID, &api.ScheduleItemInput{
		Category:     "sightseeing",
		Title:        "Fushimi Inari",
		Date:         "2026-04-02",
		StartTime:    "07:30",
		LocationURL:  "https://maps.example.com/inari",
		Participants: []string{alice.ID, alice.ID},
	})

	if item.ID == "" || item.CreatedBy != alice.ID {
		t.Errorf("unexpected item: %+v", item)
	}
	if !slices.Contains(palette, item.Color) {
		t.Errorf("expected a palette colour, got %q", item.Color)
	}
	if len(item.Participants) != 1 {
		t.Errorf("participants should be deduplicated: %v", item.Participants)
	}

	got, err := env.schedule(alice).GetItem(context.Background(), connect.NewRequest(&api.GetItemRequest{TripID: trip.ID, ItemID: item.ID}))
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Msg.Item.Title != "Fushimi Inari" || got.Msg.Item.StartTime != "07:30" {
		t.Errorf("unexpected stored item: %+v", got.Msg.Item)
	}
}

func TestCreateItem_Flight(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	trip := env.createTrip(t, alice)

	_, err := env.schedule(alice).CreateItem(ctx, connect.NewRequest(&api.CreateItemRequest{
		TripID: trip.ID,
		Item:   &api.ScheduleItemInput{Category: "flight", Title: "To Osaka", Date: "2026-04-01"},
	}))
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = env.schedule(alice).CreateItem(ctx, connect.NewRequest(&api.CreateItemRequest{
		TripID: trip.ID,
		Item: &api.ScheduleItemInput{
			Category: "hotel", Title: "Ryokan", Date: "2026-04-01",
			Flight: &api.FlightDetails{FlightNumber: "NH1", Origin: "HND", Destination: "KIX"},
		},
	}))
	wantCode(t, err, connect.CodeInvalidArgument)

	item := env.addItem(t, alice, trip.ID, &api.ScheduleItemInput{
		Category: "flight",
		Title:    "To Osaka",
		Date:     "2026-04-01",
		Flight: &api.FlightDetails{
			FlightNumber:  "NH1",
			Origin:        "HND",
			Destination:   "KIX",
			DepartureTime: "08:00",
			ArrivalTime:   "09:15",
			Seat:          "12A",
		},
	})
	if item.Flight == nil {
		t.Fatal("expected flight details")
	}
	if item.Flight.Status != "scheduled" || item.Flight.Seat != "12A" {
		t.Errorf("unexpected flight details: %+v", item.Flight)
	}
}

func TestCreateItem_Validation(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "alice@example.com", "Alice")
	trip := env.createTrip(t, alice)

	tests := []struct {
		name string
		in   *api.ScheduleItemInput
	}{
		{"missing input", nil},
		{"unknown category", &api.ScheduleItemInput{Category: "party", Title: "x", Date: "2026-04-01"}},
		{"missing title", &api.ScheduleItemInput{Category: "food", Date: "2026-04-01"}},
		{"bad date", &api.ScheduleItemInput{Category: "food", Title: "x", Date: "tomorrow"}},
		{"bad start time", &api.ScheduleItemInput{Category: "food", Title: "x", Date: "2026-04-01", StartTime: "25:00"}},
		{"end before start", &api.ScheduleItemInput{Category: "hotel", Title: "x", Date: "2026-04-03", EndDate: "2026-04-01"}},
		{"bad flight status", &api.ScheduleItemInput{Category: "flight", Title: "x", Date: "2026-04-01",
			Flight: &api.FlightDetails{FlightNumber: "NH1", Origin: "HND", Destination: "KIX", Status: "lost"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.schedule(alice).CreateItem(context.Background(), connect.NewRequest(&api.CreateItemRequest{
				TripID: trip.ID,
				Item:   tt.in,
			}))
			wantCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestListItems(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	trip := env.createTrip(t, alice)

	env.addItem(t, alice, trip.ID, &api.ScheduleItemInput{Category: "food", Title: "Dinner", Date: "2026-04-02", StartTime: "19:00"})
	env.addItem(t, alice, trip.ID, &api.ScheduleItemInput{Category: "hotel", Title: "Check in", Date: "2026-04-01", StartTime: "15:00"})
	env.addItem(t, alice, trip.ID, &api.ScheduleItemInput{Category: "food", Title: "Breakfast", Date: "2026-04-02", StartTime: "08:00"})
	env.addItem(t, alice, trip.ID, &api.ScheduleItemInput{Category: "sightseeing", Title: "Temple", Date: "2026-04-02", StartTime: "10:00"})

	tests := []struct {
		name string
		req  *api.ListItemsRequest
		want []string
	}{
		{"all", &api.ListItemsRequest{TripID: trip.ID}, []string{"Check in", "Breakfast", "Temple", "Dinner"}},
		{"by category", &api.ListItemsRequest{TripID: trip.ID, Category: "food"}, []string{"Breakfast", "Dinner"}},
		{"by date", &api.ListItemsRequest{TripID: trip.ID, Date: "2026-04-01"}, []string{"Check in"}},
		{"both", &api.ListItemsRequest{TripID: trip.ID, Category: "hotel", Date: "2026-04-02"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.schedule(alice).ListItems(ctx, connect.NewRequest(tt.req))
			if err != nil {
				t.Fatalf("ListItems failed: %v", err)
			}
			if got := itemTitles(resp.Msg.Items); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	_, err := env.schedule(alice).ListItems(ctx, connect.NewRequest(&api.ListItemsRequest{TripID: trip.ID, Category: "party"}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestUpdateAndDeleteItem(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	carol := env.register(t, "carol@example.com", "Carol")
	trip := env.createTrip(t, alice, "bob@example.com")

	item := env.addItem(t, alice, trip.ID, &api.ScheduleItemInput{Category: "food", Title: "Lunch", Date: "2026-04-03", Color: "#000000"})

	// Invitees may edit the schedule before joining.
	updated, err := env.schedule(bob).UpdateItem(ctx, connect.NewRequest(&api.UpdateItemRequest{
		TripID: trip.ID,
		ItemID: item.ID,
		Item:   &api.ScheduleItemInput{Category: "food", Title: "Late lunch", Date: "2026-04-03", StartTime: "14:00"},
	}))
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Msg.Item.Title != "Late lunch" || updated.Msg.Item.Color != "#000000" {
		t.Errorf("unexpected update result: %+v", updated.Msg.Item)
	}

	_, err = env.schedule(carol).DeleteItem(ctx, connect.NewRequest(&api.DeleteItemRequest{TripID: trip.ID, ItemID: item.ID}))
	wantCode(t, err, connect.CodePermissionDenied)

	if _, err := env.schedule(alice).DeleteItem(ctx, connect.NewRequest(&api.DeleteItemRequest{TripID: trip.ID, ItemID: item.ID})); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}

	_, err = env.schedule(alice).GetItem(ctx, connect.NewRequest(&api.GetItemRequest{TripID: trip.ID, ItemID: item.ID}))
	wantCode(t, err, connect.CodeNotFound)

	activity, err := env.trips(alice).ListActivity(ctx, connect.NewRequest(&api.ListActivityRequest{TripID: trip.ID, Limit: 1}))
	if err != nil {
		t.Fatalf("ListActivity failed: %v", err)
	}
	entry := activity.Msg.Entries[0]
	if entry.Category != "schedule" || entry.Action != "delete" {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
	var snap api.ScheduleItem
	if err := json.Unmarshal([]byte(entry.Details), &snap); err != nil {
		t.Fatalf("details is not an item snapshot: %v (%s)", err, entry.Details)
	}
	if snap.ID != item.ID || snap.Title != "Late lunch" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestWatchItems(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "alice@example.com", "Alice")
	trip := env.createTrip(t, alice)
	env.addItem(t, alice, trip.ID, &api.ScheduleItemInput{Category: "food", Title: "Dinner", Date: "2026-04-02"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := env.schedule(alice).WatchItems(ctx, connect.NewRequest(&api.WatchItemsRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("WatchItems failed: %v", err)
	}
	defer stream.Close()

	if !stream.Receive() {
		t.Fatalf("expected initial snapshot: %v", stream.Err())
	}
	if got := itemTitles(stream.Msg().Items); !slices.Equal(got, []string{"Dinner"}) {
		t.Errorf("initial snapshot: %v", got)
	}

	env.addItem(t, alice, trip.ID, &api.ScheduleItemInput{Category: "hotel", Title: "Check in", Date: "2026-04-01"})

	if !stream.Receive() {
		t.Fatalf("expected updated snapshot: %v", stream.Err())
	}
	if got := itemTitles(stream.Msg().Items); !slices.Equal(got, []string{"Check in", "Dinner"}) {
		t.Errorf("updated snapshot: %v", got)
	}

	// Deleting the trip ends the stream.
	if _, err := env.trips(alice).DeleteTrip(context.Background(), connect.NewRequest(&api.DeleteTripRequest{TripID: trip.ID})); err != nil {
		t.Fatalf("DeleteTrip failed: %v", err)
	}
	for stream.Receive() {
	}
	wantCode(t, stream.Err(), connect.CodeNotFound)
}
