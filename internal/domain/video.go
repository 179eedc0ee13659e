package domain

import (
	"errors"
	"time"
)

var (
	// ErrNoVideoToday is returned by the schedule source when no row
	// matches today's date. Callers treat it as a normal outcome.
	ErrNoVideoToday = errors.New("no video scheduled for today")

	// ErrRecipientGone marks a permanent transport failure: the recipient
	// blocked the bot or the chat no longer exists. The delivery engine
	// deactivates the subscriber on it.
	ErrRecipientGone = errors.New("recipient unreachable")
)

// Video is one row of the exercise schedule sheet. The sheet is read-only
// to the bot; rows are re-fetched on every tick.
type Video struct {
	Date     string // "DD.MM", current year implied
	Author   string
	Duration string // raw cell: "MM:SS", "H:MM:SS" or "<N> минут"
	Category string
	Level    int
	URL      string
	Comment  string
}

// DayKey formats t as the "DD.MM" key used in the sheet's date column and
// in the delivery ledger.
func DayKey(t time.Time) string {
	return t.Format("02.01")
}
