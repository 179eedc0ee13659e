package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyDuration   = errors.New("empty duration")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidTime     = errors.New("invalid time of day")
)

// The sheet is hand-filled, so the duration column is free-text:
// "12 минут" alongside "05:30" and "1:02:03".
var minutesRe = regexp.MustCompile(`(?i)^(\d+)\s*минут(ы)?$`)

// ParseVideoDuration parses a duration cell. Accepted shapes:
// "<N> минут"/"<N> минуты" (case-insensitive), "MM:SS", "H:MM:SS".
// Anything else is ErrInvalidDuration. Field values are not range-checked
// beyond being integers; "90:00" means ninety minutes.
func ParseVideoDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyDuration
	}

	if m := minutesRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, s)
		}
		return time.Duration(n) * time.Minute, nil
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		mm, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		ss, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil || mm < 0 || ss < 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, s)
		}
		return time.Duration(mm*60+ss) * time.Second, nil
	case 3:
		h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		mm, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		ss, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil || h < 0 || mm < 0 || ss < 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, s)
		}
		return time.Duration(h*3600+mm*60+ss) * time.Second, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, s)
}

// NormalizeNotifyTime validates a user-entered "HH:mm" string and returns
// it zero-padded. Padding matters: ListDueActive matches the stored value
// against time.Now().Format("15:04") by exact string equality.
func NormalizeNotifyTime(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %s", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", fmt.Errorf("%w: %s", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return "", fmt.Errorf("%w: %s", ErrInvalidTime, s)
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}
