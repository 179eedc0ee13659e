package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

// UI texts in Russian
const (
	askNameText = "Привет! Как тебя зовут?"
	welcomeFmt  = "Приятно познакомиться, %s! Бот запущен.\n" +
		"Используй /settime HH:mm для настройки времени уведомлений. Время по умолчанию — 07:00."
	settimeUsageText = "Укажи /settime вместе со временем в формате \"HH:mm\", например, \"/settime 09:00\"."
	settimeBadText   = "Неправильный формат времени. Используй формат HH:mm, например, 09:00 или 16:20."
	settimeOKFmt     = "Время уведомлений изменено на %s."
	noVideoTodayText = "На сегодня видео не найдено."
	sourceDownText   = "Данные не получены. Попробуй позже."
	followUpText     = "Видео закончилось. Оцени тренировку и напиши свой комментарий:"
	thanksText       = "Спасибо за комментарий!"
	ratingThanksText = "Спасибо за оценку!"
	ratingStaleText  = "Эта оценка уже неактуальна."
	profileErrText   = "Ошибка при регистрации. Попробуй ещё раз позже."
	helpText         = "Доступные команды:\n" +
		"/start — запустить/обновить бота\n" +
		"/settime HH:mm — установить время уведомлений\n" +
		"/today — получить сегодняшнее видео\n" +
		"/list — список всех видео\n" +
		"/stats — статистика подписчиков\n" +
		"/help — показать это сообщение"
	statsFmt = "Статистика:\n" +
		"• Всего подписчиков: %d\n" +
		"• Активных: %d\n" +
		"• Неактивных: %d\n" +
		"• Получили видео сегодня: %d"
)

// videoText renders the daily video card.
func videoText(v domain.Video) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Сегодняшнее видео: %s\n", v.URL)
	if v.Category != "" {
		fmt.Fprintf(&b, "Направление: %s\n", v.Category)
	}
	if v.Author != "" {
		fmt.Fprintf(&b, "Автор: %s\n", v.Author)
	}
	if v.Duration != "" {
		fmt.Fprintf(&b, "Время: %s\n", v.Duration)
	}
	if v.Level > 0 {
		fmt.Fprintf(&b, "Уровень: %d\n", v.Level)
	}
	if v.Comment != "" {
		fmt.Fprintf(&b, "Комментарий: %s\n", v.Comment)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatVideoTable builds the monospace /list table (date, duration, category).
func formatVideoTable(videos []domain.Video) string {
	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString("| Дата  | Время    |   Направление   |\n")
	b.WriteString("|-------|----------|-----------------|\n")
	for _, v := range videos {
		fmt.Fprintf(&b, "| %-5s | %-8s | %-15s |\n", v.Date, v.Duration, v.Category)
	}
	b.WriteString("```")
	return b.String()
}

// ratingKeyboard is the 1–5 inline keyboard attached to the follow-up prompt.
func ratingKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 5)
	for i := 1; i <= 5; i++ {
		label := fmt.Sprintf("%d", i)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("rate:%d", i)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
}
