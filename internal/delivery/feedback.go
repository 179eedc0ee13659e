package delivery

import "sync"

// Awaiting identifies the video a subscriber is expected to rate or comment on.
type Awaiting struct {
	VideoURL string
	Date     string // "DD.MM"
}

// FeedbackState is the transient "awaiting feedback" map. The delivery
// engine sets an entry when the follow-up prompt goes out; the command
// layer consumes it when the subscriber replies. In-memory only.
type FeedbackState struct {
	mu sync.RWMutex
	m  map[int64]Awaiting
}

func NewFeedbackState() *FeedbackState {
	return &FeedbackState{m: make(map[int64]Awaiting)}
}

// Set records that chatID owes feedback for the given video, replacing any
// previous entry.
func (f *FeedbackState) Set(chatID int64, a Awaiting) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[chatID] = a
}

// Get returns the pending feedback subject for chatID, if any.
func (f *FeedbackState) Get(chatID int64) (Awaiting, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	a, ok := f.m[chatID]
	return a, ok
}

// Clear removes the entry for chatID.
func (f *FeedbackState) Clear(chatID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, chatID)
}
