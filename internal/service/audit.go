package service

import (
	"encoding/json"
	"log/slog"

	"github.com/mmynk/tripwiser/internal/models"
	"github.com/mmynk/tripwiser/internal/watch"
)

// newLog builds an activity entry for a mutation by actorID.
func newLog(tripID string, category models.LogCategory, action models.LogAction, title, details, actorID string) *models.LogEntry {
	return &models.LogEntry{
		TripID:   tripID,
		Category: category,
		Action:   action,
		Title:    title,
		Details:  details,
		ActorID:  actorID,
	}
}

// snapshot encodes v as the details of a delete entry so the removed
// document can be reconstructed from the log.
func snapshot(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode audit snapshot", "error", err)
		return ""
	}
	return string(data)
}

func event(tripID, entity string, action models.LogAction, id string) watch.Event {
	return watch.NewEvent(tripID, entity, string(action), id)
}
