package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/olboyarshinova/daily-exersises-bot/internal/delivery"
	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
	"github.com/olboyarshinova/daily-exersises-bot/internal/store"
)

// Pending state keys used in conversational flows.
const pendingName = "await_name_text"

// Schedule is the slice of the sheet adapter the command layer needs.
type Schedule interface {
	TodayVideo(ctx context.Context) (domain.Video, error)
	ListVideos(ctx context.Context) ([]domain.Video, error)
	AppendFeedback(ctx context.Context, name, videoURL, text string) error
}

// Router wires Telegram updates to handlers. It owns the registration
// pending-state map and consumes the awaiting-feedback state the delivery
// engine produces.
type Router struct {
	client   *Client
	log      *zap.Logger
	repo     store.Repo
	schedule Schedule
	feedback *delivery.FeedbackState
	loc      *time.Location

	mu    sync.RWMutex
	state map[int64]string // chatID -> pending state
}

func NewRouter(client *Client, log *zap.Logger, repo store.Repo, schedule Schedule, feedback *delivery.FeedbackState, loc *time.Location) *Router {
	return &Router{
		client:   client,
		log:      log,
		repo:     repo,
		schedule: schedule,
		feedback: feedback,
		loc:      loc,
		state:    make(map[int64]string),
	}
}

func (r *Router) setPending(chatID int64, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = s
}

func (r *Router) getPending(chatID int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[chatID]
}

func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// today returns the current "DD.MM" key in the bot's timezone.
func (r *Router) today() string {
	return domain.DayKey(time.Now().In(r.loc))
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, msg.Chat.ID)
		case strings.HasPrefix(text, "/settime"):
			r.handleSetTime(ctx, msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(text, "/settime")))
		case strings.HasPrefix(text, "/today"):
			r.handleToday(ctx, msg.Chat.ID)
		case strings.HasPrefix(text, "/list"):
			r.handleList(ctx, msg.Chat.ID)
		case strings.HasPrefix(text, "/stats"):
			r.handleStats(ctx, msg.Chat.ID)
		case strings.HasPrefix(text, "/help"):
			r.client.sendText(msg.Chat.ID, helpText)
		default:
			r.handleFreeForm(ctx, msg)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if strings.HasPrefix(cb.Data, "rate:") {
			r.handleRating(ctx, cb)
			return
		}
		// Unknown callback — ignore silently.
	}
}
