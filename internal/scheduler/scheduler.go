package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

// Source answers whether content exists for today before any fan-out.
type Source interface {
	TodayVideo(ctx context.Context) (domain.Video, error)
}

// Directory lists subscribers due at an exact "HH:mm".
type Directory interface {
	ListDueActive(ctx context.Context, notifyTime string) ([]int64, error)
}

// Dispatcher runs one subscriber's delivery. delivery.Engine implements it.
type Dispatcher interface {
	Deliver(ctx context.Context, chatID int64)
}

// Scheduler drives the periodic notification check. Every tick it matches
// the current wall-clock "HH:mm" against subscriber preferences and fans
// out one delivery per due subscriber.
type Scheduler struct {
	source   Source
	dir      Directory
	dispatch Dispatcher
	loc      *time.Location
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time // overridable in tests
}

func New(source Source, dir Directory, dispatch Dispatcher, loc *time.Location, interval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		source:   source,
		dir:      dir,
		dispatch: dispatch,
		loc:      loc,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Run ticks until ctx is canceled. A failed tick never stops the loop.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick performs one scheduling cycle. The time match is exact by the
// minute: a tick delayed past a subscriber's minute skips them for the
// day, which the sub-minute tick interval is meant to prevent.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().In(s.loc)
	hhmm := now.Format("15:04")

	// Cheap gate: no content today means no per-subscriber work at all.
	if _, err := s.source.TodayVideo(ctx); err != nil {
		if errors.Is(err, domain.ErrNoVideoToday) {
			s.log.Debug("no video scheduled for today", zap.String("now", hhmm))
		} else {
			s.log.Error("schedule source failed", zap.Error(err))
		}
		return
	}

	ids, err := s.dir.ListDueActive(ctx, hhmm)
	if err != nil {
		s.log.Error("ListDueActive failed", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		return
	}

	s.log.Info("dispatching due notifications",
		zap.String("now", hhmm),
		zap.Int("subscribers", len(ids)),
	)
	// Fire-and-forget: one subscriber's slow or failing delivery must not
	// delay the others or the next tick.
	for _, id := range ids {
		go s.dispatch.Deliver(ctx, id)
	}
}
