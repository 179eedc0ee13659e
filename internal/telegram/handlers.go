package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

// --- Registration flow ---

// handleStart asks for a name; the answer finishes registration in
// handleName. Re-running /start re-registers and re-enables delivery.
func (r *Router) handleStart(ctx context.Context, chatID int64) {
	r.setPending(chatID, pendingName)
	r.client.sendText(chatID, askNameText)
}

func (r *Router) handleName(ctx context.Context, msg *tgbotapi.Message, name string) {
	chatID := msg.Chat.ID
	sub := &domain.Subscriber{
		ChatID:    chatID,
		FirstName: name,
	}
	if msg.From != nil {
		sub.Username = msg.From.UserName
		sub.LastName = msg.From.LastName
	}

	if err := r.repo.UpsertSubscriber(ctx, sub); err != nil {
		r.log.Error("upsert subscriber failed", zap.Error(err), zap.Int64("chat_id", chatID))
		r.client.sendText(chatID, profileErrText)
		return
	}
	// A fresh registration may receive today's video again, even if an
	// earlier delivery under stale state already happened.
	if err := r.repo.ResetForToday(ctx, chatID, r.today()); err != nil {
		r.log.Error("reset for today failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
	r.client.sendText(chatID, fmt.Sprintf(welcomeFmt, name))
}

// --- Settings ---

func (r *Router) handleSetTime(ctx context.Context, chatID int64, arg string) {
	if arg == "" {
		r.client.sendText(chatID, settimeUsageText)
		return
	}
	notifyTime, err := domain.NormalizeNotifyTime(arg)
	if err != nil {
		r.client.sendText(chatID, settimeBadText)
		return
	}
	if err := r.repo.SetNotifyTime(ctx, chatID, notifyTime); err != nil {
		r.log.Error("set notify time failed", zap.Error(err), zap.Int64("chat_id", chatID))
		r.client.sendText(chatID, profileErrText)
		return
	}
	r.client.sendText(chatID, fmt.Sprintf(settimeOKFmt, notifyTime))
}

// --- On-demand queries ---

func (r *Router) handleToday(ctx context.Context, chatID int64) {
	v, err := r.schedule.TodayVideo(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoVideoToday) {
			r.client.sendText(chatID, noVideoTodayText)
			return
		}
		r.log.Error("today video fetch failed", zap.Error(err))
		r.client.sendText(chatID, sourceDownText)
		return
	}
	if err := r.client.SendVideo(chatID, v); err != nil {
		r.log.Error("send today video failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (r *Router) handleList(ctx context.Context, chatID int64) {
	videos, err := r.schedule.ListVideos(ctx)
	if err != nil {
		r.log.Error("list videos failed", zap.Error(err))
		r.client.sendText(chatID, sourceDownText)
		return
	}
	r.client.sendMarkdown(chatID, formatVideoTable(videos))
}

func (r *Router) handleStats(ctx context.Context, chatID int64) {
	st, err := r.repo.Stats(ctx, r.today())
	if err != nil {
		r.log.Error("stats failed", zap.Error(err))
		r.client.sendText(chatID, sourceDownText)
		return
	}
	r.client.sendText(chatID, fmt.Sprintf(statsFmt,
		st.TotalUsers, st.ActiveUsers, st.InactiveUsers, st.ReceivedToday))
}

// --- Free-form text: name replies and feedback comments ---

func (r *Router) handleFreeForm(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if r.getPending(chatID) == pendingName {
		r.clearPending(chatID)
		r.handleName(ctx, msg, text)
		return
	}

	if awaiting, ok := r.feedback.Get(chatID); ok {
		r.saveFeedback(ctx, chatID, awaiting.VideoURL, text, thanksText)
		return
	}
	// No pending flow: ignore free-form message.
}

// --- Rating callback ---

func (r *Router) handleRating(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	awaiting, ok := r.feedback.Get(chatID)
	if !ok {
		// Awaiting state is in-memory; a restart (or an old keyboard) makes
		// the rating stale.
		r.client.answerCallback(cb.ID, ratingStaleText)
		return
	}

	rating, err := strconv.Atoi(strings.TrimPrefix(cb.Data, "rate:"))
	if err != nil || rating < 1 || rating > 5 {
		r.client.answerCallback(cb.ID, "")
		return
	}

	r.saveFeedback(ctx, chatID, awaiting.VideoURL, fmt.Sprintf("оценка: %d", rating), "")
	r.client.answerCallback(cb.ID, ratingThanksText)
}

// saveFeedback appends one feedback row to the sheet and clears the
// awaiting state. confirmText, when non-empty, is sent to the chat.
func (r *Router) saveFeedback(ctx context.Context, chatID int64, videoURL, text, confirmText string) {
	name := ""
	if sub, err := r.repo.GetSubscriber(ctx, chatID); err == nil {
		name = sub.DisplayName()
	}
	if err := r.schedule.AppendFeedback(ctx, name, videoURL, text); err != nil {
		r.log.Error("append feedback failed", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}
	r.feedback.Clear(chatID)
	if confirmText != "" {
		r.client.sendText(chatID, confirmText)
	}
}
