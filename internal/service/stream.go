package service

import (
	"context"
	"slices"

	"github.com/mmynk/tripwiser/internal/watch"
)

// streamSnapshots sends a snapshot right away and again after every event
// for tripID whose entity is in entities. Events that pile up while a
// snapshot is being sent collapse into one recompute. It returns nil when
// ctx ends or the subscription closes, and the first send error otherwise.
func streamSnapshots(ctx context.Context, broker *watch.Broker, tripID string, entities []string, send func() error) error {
	// Subscribe before the first snapshot so no change falls in between.
	sub := broker.Subscribe(ctx, tripID)
	defer sub.Close()

	if err := send(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			relevant := slices.Contains(entities, ev.Entity)
		drain:
			for {
				select {
				case ev, ok := <-sub.C():
					if !ok {
						return nil
					}
					relevant = relevant || slices.Contains(entities, ev.Entity)
				default:
					break drain
				}
			}
			if !relevant {
				continue
			}
			if err := send(); err != nil {
				return err
			}
		}
	}
}
