package service

import (
	"github.com/mmynk/tripwiser/internal/models"
	"github.com/mmynk/tripwiser/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPITrip(t *models.Trip, pending bool) *api.Trip {
	return &api.Trip{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		Title:         t.Title,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		BaseCurrency:  t.BaseCurrency,
		AllowedEmails: nonNil(t.AllowedEmails),
		CreatedAt:     t.CreatedAt,
		Pending:       pending,
	}
}

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{
		TripID:   m.TripID,
		UserID:   m.UserID,
		Email:    m.Email,
		Role:     string(m.Role),
		Nickname: m.Nickname,
		JoinedAt: m.JoinedAt,
	}
}

func toAPIMembers(ms []*models.Member) []*api.Member {
	out := make([]*api.Member, len(ms))
	for i, m := range ms {
		out[i] = toAPIMember(m)
	}
	return out
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:         t.ID,
		TripID:     t.TripID,
		Kind:       string(t.Kind),
		Title:      t.Title,
		Amount:     t.Amount,
		Currency:   t.Currency,
		PaidBy:     t.PaidBy,
		SplitAmong: nonNil(t.SplitAmong),
		CreatedBy:  t.CreatedBy,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func toAPIScheduleItem(it *models.ScheduleItem) *api.ScheduleItem {
	out := &api.ScheduleItem{
		ID:           it.ID,
		TripID:       it.TripID,
		Category:     string(it.Category),
		Title:        it.Title,
		Date:         it.Date,
		StartTime:    it.StartTime,
		EndDate:      it.EndDate,
		EndTime:      it.EndTime,
		Notes:        it.Notes,
		LocationURL:  it.LocationURL,
		Participants: nonNil(it.Participants),
		Color:        it.Color,
		CreatedBy:    it.CreatedBy,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
	if f := it.Flight; f != nil {
		out.Flight = &api.FlightDetails{
			FlightNumber:     f.FlightNumber,
			Origin:           f.Origin,
			Destination:      f.Destination,
			DepartureTime:    f.DepartureTime,
			ArrivalTime:      f.ArrivalTime,
			Seat:             f.Seat,
			Gate:             f.Gate,
			Terminal:         f.Terminal,
			BookingReference: f.BookingReference,
			Status:           string(f.Status),
		}
	}
	return out
}

func toAPIScheduleItems(items []*models.ScheduleItem) []*api.ScheduleItem {
	out := make([]*api.ScheduleItem, len(items))
	for i, it := range items {
		out[i] = toAPIScheduleItem(it)
	}
	return out
}

func toAPILogEntry(e *models.LogEntry) *api.LogEntry {
	return &api.LogEntry{
		ID:        e.ID,
		TripID:    e.TripID,
		Category:  string(e.Category),
		Action:    string(e.Action),
		Title:     e.Title,
		Details:   e.Details,
		ActorID:   e.ActorID,
		CreatedAt: e.CreatedAt,
	}
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
