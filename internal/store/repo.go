package store

import (
	"context"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

// Repo defines storage operations for the subscriber directory and the
// delivery ledger.
type Repo interface {
	// Directory.
	UpsertSubscriber(ctx context.Context, s *domain.Subscriber) error
	GetSubscriber(ctx context.Context, chatID int64) (*domain.Subscriber, error)
	ListDueActive(ctx context.Context, notifyTime string) ([]int64, error)
	SetNotifyTime(ctx context.Context, chatID int64, notifyTime string) error
	Deactivate(ctx context.Context, chatID int64) error

	// Ledger. date is the "DD.MM" day key.
	WasSentToday(ctx context.Context, chatID int64, date string) (bool, error)
	MarkSent(ctx context.Context, chatID int64, date string) error
	ResetForToday(ctx context.Context, chatID int64, date string) error

	Stats(ctx context.Context, date string) (domain.Stats, error)
	Close() error
}
