package domain

import "time"

// DefaultNotifyTime is assigned to new subscribers until they run /settime.
const DefaultNotifyTime = "07:00"

// Subscriber represents a registered chat and its notification settings.
type Subscriber struct {
	ChatID     int64
	Username   string
	FirstName  string
	LastName   string
	NotifyTime string // "HH:mm", zero-padded; the scheduler matches it by exact string equality
	Active     bool
	CreatedAt  time.Time // UTC
}

// DisplayName returns the best available human name for the subscriber.
func (s *Subscriber) DisplayName() string {
	if s.FirstName != "" {
		return s.FirstName
	}
	if s.Username != "" {
		return "@" + s.Username
	}
	return ""
}

// Stats is an aggregate snapshot over the subscriber directory and the
// delivery ledger, shown by the /stats command.
type Stats struct {
	TotalUsers    int
	ActiveUsers   int
	InactiveUsers int
	ReceivedToday int
}
