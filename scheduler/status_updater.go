package scheduler

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	config "github.com/gitbyjay25/nss-portal-backend/config"
	models "github.com/gitbyjay25/nss-portal-backend/models"
)

// SweepInterval is how often event statuses are re-evaluated.
const SweepInterval = 60 * time.Second

// StatusUpdater advances event lifecycle statuses based on wall-clock time
// versus the stored schedule. Tick is callable directly (tests, the manual
// admin endpoint); Start runs it once immediately and then on a fixed
// interval until the context is cancelled.
type StatusUpdater struct {
	cfg *config.Config
	now func() time.Time
}

func NewStatusUpdater(cfg *config.Config) *StatusUpdater {
	return &StatusUpdater{cfg: cfg, now: time.Now}
}

// Start blocks; run it in its own goroutine.
func (s *StatusUpdater) Start(ctx context.Context) {
	if _, err := s.Tick(ctx); err != nil {
		log.Printf("status sweep failed: %v", err)
	}

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				// next tick retries
				log.Printf("status sweep failed: %v", err)
			}
		}
	}
}

// Tick scans active events and applies any due transitions. It returns how
// many events changed status. Each transition is a conditional update so a
// concurrent admin edit cannot be silently overwritten.
func (s *StatusUpdater) Tick(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	col := s.cfg.Collection("events")
	now := s.now()

	cursor, err := col.Find(ctx, bson.M{
		"status": bson.M{"$in": []string{models.StatusUpcoming, models.StatusOngoing}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	transitioned := 0
	for cursor.Next(ctx) {
		var ev models.Event
		if err := cursor.Decode(&ev); err != nil {
			log.Printf("status sweep: decode event: %v", err)
			continue
		}

		next := models.DeriveStatus(ev.Status, ev.StartAt(), ev.EndAt(), now)
		if next == ev.Status {
			continue
		}

		notif := models.EventNotification{
			Kind:      "status_change",
			Message:   "Event moved from " + ev.Status + " to " + next,
			CreatedAt: now,
		}
		// guard on the status we read so a racing edit wins
		res, err := col.UpdateOne(ctx,
			bson.M{"_id": ev.ID, "status": ev.Status},
			bson.M{
				"$set":  bson.M{"status": next, "updated_at": now},
				"$push": bson.M{"notifications": notif},
			})
		if err != nil {
			log.Printf("status sweep: update event %s: %v", ev.ID.Hex(), err)
			continue
		}
		if res.ModifiedCount > 0 {
			transitioned++
			log.Printf("event %s: %s -> %s", ev.ID.Hex(), ev.Status, next)
		}
	}
	if err := cursor.Err(); err != nil {
		return transitioned, err
	}
	return transitioned, nil
}
