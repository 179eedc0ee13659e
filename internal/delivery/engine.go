// Package delivery implements per-subscriber video delivery: the ledger
// gate, the send, the idempotent mark, and the deferred follow-up prompt.
package delivery

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

// Source supplies today's scheduled video.
type Source interface {
	TodayVideo(ctx context.Context) (domain.Video, error)
}

// Transport sends messages to a chat. Implementations classify permanent
// failures by wrapping domain.ErrRecipientGone.
type Transport interface {
	SendVideo(chatID int64, v domain.Video) error
	SendFollowUp(chatID int64, v domain.Video) error
}

// Store is the slice of the repository the engine needs.
type Store interface {
	WasSentToday(ctx context.Context, chatID int64, date string) (bool, error)
	MarkSent(ctx context.Context, chatID int64, date string) error
	Deactivate(ctx context.Context, chatID int64) error
}

// Engine delivers today's video to one subscriber at a time. The scheduler
// runs one Deliver per due subscriber concurrently; within a subscriber the
// steps are strictly sequential.
type Engine struct {
	source    Source
	transport Transport
	store     Store
	timers    *TimerRegistry
	feedback  *FeedbackState
	buffer    time.Duration // added to the video duration before the follow-up fires
	log       *zap.Logger
}

func NewEngine(
	source Source,
	transport Transport,
	store Store,
	timers *TimerRegistry,
	feedback *FeedbackState,
	buffer time.Duration,
	log *zap.Logger,
) *Engine {
	return &Engine{
		source:    source,
		transport: transport,
		store:     store,
		timers:    timers,
		feedback:  feedback,
		buffer:    buffer,
		log:       log,
	}
}

// Deliver runs the full delivery sequence for one subscriber. All failures
// are logged and contained here. There is no retry beyond the natural one:
// a subscriber never marked sent stays due on the next qualifying tick.
func (e *Engine) Deliver(ctx context.Context, chatID int64) {
	video, err := e.source.TodayVideo(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoVideoToday) {
			e.log.Debug("no video for today", zap.Int64("chat_id", chatID))
		} else {
			e.log.Error("today video fetch failed", zap.Error(err), zap.Int64("chat_id", chatID))
		}
		return
	}

	sent, err := e.store.WasSentToday(ctx, chatID, video.Date)
	if err != nil {
		e.log.Error("ledger check failed", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}
	if sent {
		return
	}

	if err := e.transport.SendVideo(chatID, video); err != nil {
		if errors.Is(err, domain.ErrRecipientGone) {
			if derr := e.store.Deactivate(ctx, chatID); derr != nil {
				e.log.Error("deactivate failed", zap.Error(derr), zap.Int64("chat_id", chatID))
				return
			}
			e.log.Info("subscriber unreachable, deactivated", zap.Int64("chat_id", chatID))
			return
		}
		e.log.Error("send failed", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}

	// Marked only after a confirmed send; a crash in between re-sends
	// rather than silently skips.
	if err := e.store.MarkSent(ctx, chatID, video.Date); err != nil {
		e.log.Error("mark sent failed", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}

	dur, err := domain.ParseVideoDuration(video.Duration)
	if err != nil || dur <= 0 {
		e.log.Warn("unusable duration, skipping follow-up",
			zap.Int64("chat_id", chatID),
			zap.String("duration", video.Duration),
			zap.Error(err),
		)
		return
	}

	v := video
	e.timers.Schedule(chatID, dur+e.buffer, func() { e.followUp(chatID, v) })
	e.log.Debug("follow-up scheduled",
		zap.Int64("chat_id", chatID),
		zap.Duration("delay", dur+e.buffer),
	)
}

// followUp fires after the estimated video end: it prompts for a rating and
// a comment and flags the subscriber as awaiting feedback.
func (e *Engine) followUp(chatID int64, v domain.Video) {
	if err := e.transport.SendFollowUp(chatID, v); err != nil {
		e.log.Error("follow-up send failed", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}
	e.feedback.Set(chatID, Awaiting{VideoURL: v.URL, Date: v.Date})
}
