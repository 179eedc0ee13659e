package delivery

import (
	"sync"
	"time"
)

// TimerRegistry holds at most one pending deferred action per chat.
// Scheduling for a chat that already has a pending timer cancels the old
// timer first, so only the most recent action can fire. Timers are not
// persisted: a restart drops them all.
type TimerRegistry struct {
	mu     sync.Mutex
	timers map[int64]*time.Timer
}

func NewTimerRegistry() *TimerRegistry {
	return &TimerRegistry{timers: make(map[int64]*time.Timer)}
}

// Schedule installs fn to run once after delay, replacing any pending
// timer for chatID.
func (r *TimerRegistry) Schedule(chatID int64, delay time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[chatID]; ok {
		t.Stop()
	}
	r.timers[chatID] = time.AfterFunc(delay, fn)
}

// StopAll cancels every pending timer. Called on shutdown.
func (r *TimerRegistry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

// pending reports whether a timer is registered for chatID. Test helper.
func (r *TimerRegistry) pending(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[chatID]
	return ok
}
