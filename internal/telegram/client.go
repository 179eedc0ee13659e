package telegram

import (
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

// Client wraps the Bot API and classifies send failures, so callers can
// distinguish a gone recipient from a transient hiccup with errors.Is
// instead of matching description strings.
type Client struct {
	bot *tgbotapi.BotAPI
	log *zap.Logger
}

func NewClient(token string, log *zap.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	return &Client{bot: bot, log: log}, nil
}

// SetCommands publishes the bot command menu.
func (c *Client) SetCommands() error {
	_, err := c.bot.Request(tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Запустить/обновить бота"},
		tgbotapi.BotCommand{Command: "settime", Description: "Установить время уведомлений"},
		tgbotapi.BotCommand{Command: "today", Description: "Получить сегодняшнее видео"},
		tgbotapi.BotCommand{Command: "list", Description: "Список всех видео"},
		tgbotapi.BotCommand{Command: "stats", Description: "Статистика подписчиков"},
		tgbotapi.BotCommand{Command: "help", Description: "Помощь"},
	))
	return err
}

// UpdatesChan starts long polling and returns the update channel.
func (c *Client) UpdatesChan(timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	return c.bot.GetUpdatesChan(u)
}

// SendVideo delivers today's video card to the chat.
func (c *Client) SendVideo(chatID int64, v domain.Video) error {
	_, err := c.bot.Send(tgbotapi.NewMessage(chatID, videoText(v)))
	return classify(err)
}

// SendFollowUp sends the post-video prompt with the rating keyboard.
func (c *Client) SendFollowUp(chatID int64, v domain.Video) error {
	msg := tgbotapi.NewMessage(chatID, followUpText)
	msg.ReplyMarkup = ratingKeyboard()
	_, err := c.bot.Send(msg)
	return classify(err)
}

func (c *Client) sendText(chatID int64, text string) {
	if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		c.log.Warn("send text failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (c *Client) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.bot.Send(msg); err != nil {
		c.log.Warn("send markdown failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (c *Client) answerCallback(id, text string) {
	if _, err := c.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		c.log.Warn("answer callback failed", zap.Error(err))
	}
}

// classify maps a 403 from the Bot API (the user blocked the bot or the
// chat is gone) to domain.ErrRecipientGone; anything else passes through
// as a transient failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden {
		return fmt.Errorf("%w: %s", domain.ErrRecipientGone, apiErr.Message)
	}
	return err
}
