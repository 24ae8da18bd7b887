package jobs

import (
	"context"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepBatch = 100

type OrphanQueue interface {
	ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]models.OrphanedObject, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type ObjectDestroyer interface {
	Destroy(ctx context.Context, key string) error
}

// OrphanSweeper deletes uploads that were replaced more than grace ago.
type OrphanSweeper struct {
	queue   OrphanQueue
	objects ObjectDestroyer
	grace   time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewOrphanSweeper(queue OrphanQueue, objects ObjectDestroyer, grace time.Duration, logger *zap.Logger) *OrphanSweeper {
	return &OrphanSweeper{queue: queue, objects: objects, grace: grace, logger: logger, now: time.Now}
}

// Sweep runs one batch and reports how many objects were removed. An object
// that fails to delete stays queued for the next run.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	orphans, err := s.queue.ListOlderThan(ctx, s.now().Add(-s.grace), sweepBatch)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, o := range orphans {
		if err := s.objects.Destroy(ctx, o.ObjectKey); err != nil {
			s.logger.Warn("orphan destroy failed", zap.String("key", o.ObjectKey), zap.Error(err))
			continue
		}
		if err := s.queue.Remove(ctx, o.ID); err != nil {
			s.logger.Warn("orphan dequeue failed", zap.String("key", o.ObjectKey), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *OrphanSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.logger.Debug("running job: orphan sweep")
	removed, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("orphan sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("orphaned uploads removed", zap.Int("count", removed))
	}
}

// Schedule registers the sweep on c using a standard five-field cron spec.
func (s *OrphanSweeper) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, s.run)
}
