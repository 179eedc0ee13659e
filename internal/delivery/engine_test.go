package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

type fakeSource struct {
	video domain.Video
	err   error
}

func (f *fakeSource) TodayVideo(context.Context) (domain.Video, error) {
	return f.video, f.err
}

type fakeStore struct {
	mu          sync.Mutex
	sent        map[string]bool
	markCalls   int
	deactivated []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{sent: make(map[string]bool)}
}

func ledgerKey(chatID int64, date string) string {
	return fmt.Sprintf("%d/%s", chatID, date)
}

func (f *fakeStore) WasSentToday(_ context.Context, chatID int64, date string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[ledgerKey(chatID, date)], nil
}

func (f *fakeStore) MarkSent(_ context.Context, chatID int64, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	f.sent[ledgerKey(chatID, date)] = true
	return nil
}

func (f *fakeStore) Deactivate(_ context.Context, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated = append(f.deactivated, chatID)
	return nil
}

type fakeTransport struct {
	mu        sync.Mutex
	videos    []int64
	followUps []int64
	sendErr   error
}

func (f *fakeTransport) SendVideo(chatID int64, _ domain.Video) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos = append(f.videos, chatID)
	return nil
}

func (f *fakeTransport) SendFollowUp(chatID int64, _ domain.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followUps = append(f.followUps, chatID)
	return nil
}

func (f *fakeTransport) videoCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.videos)
}

var testVideo = domain.Video{
	Date:     "05.01",
	Duration: "02:00",
	Category: "Кардио",
	URL:      "https://example.com/v",
}

func newTestEngine(src *fakeSource, tr *fakeTransport, st *fakeStore) (*Engine, *TimerRegistry, *FeedbackState) {
	timers := NewTimerRegistry()
	feedback := NewFeedbackState()
	e := NewEngine(src, tr, st, timers, feedback, time.Minute, zap.NewNop())
	return e, timers, feedback
}

func TestDeliverSendsMarksAndSchedules(t *testing.T) {
	src := &fakeSource{video: testVideo}
	tr := &fakeTransport{}
	st := newFakeStore()
	e, timers, _ := newTestEngine(src, tr, st)

	e.Deliver(context.Background(), 1)

	if tr.videoCount() != 1 {
		t.Fatalf("want 1 send, got %d", tr.videoCount())
	}
	if !st.sent[ledgerKey(1, "05.01")] {
		t.Fatal("ledger must be marked after the send")
	}
	if !timers.pending(1) {
		t.Fatal("a follow-up timer must be registered for a parseable duration")
	}
}

func TestDeliverSkipsWhenAlreadySent(t *testing.T) {
	src := &fakeSource{video: testVideo}
	tr := &fakeTransport{}
	st := newFakeStore()
	st.sent[ledgerKey(1, "05.01")] = true
	e, timers, _ := newTestEngine(src, tr, st)

	e.Deliver(context.Background(), 1)
	e.Deliver(context.Background(), 1)

	if tr.videoCount() != 0 {
		t.Fatalf("already-sent subscriber must not be messaged, got %d sends", tr.videoCount())
	}
	if st.markCalls != 0 {
		t.Fatalf("no extra mark calls expected, got %d", st.markCalls)
	}
	if timers.pending(1) {
		t.Fatal("no follow-up without a send")
	}
}

func TestDeliverPermanentFailureDeactivates(t *testing.T) {
	src := &fakeSource{video: testVideo}
	tr := &fakeTransport{sendErr: fmt.Errorf("telegram: %w", domain.ErrRecipientGone)}
	st := newFakeStore()
	e, timers, _ := newTestEngine(src, tr, st)

	e.Deliver(context.Background(), 7)

	if len(st.deactivated) != 1 || st.deactivated[0] != 7 {
		t.Fatalf("subscriber must be deactivated, got %v", st.deactivated)
	}
	if st.markCalls != 0 {
		t.Fatal("failed send must not be marked")
	}
	if timers.pending(7) {
		t.Fatal("failed send must not schedule a follow-up")
	}
}

func TestDeliverTransientFailureLeavesLedgerEmpty(t *testing.T) {
	src := &fakeSource{video: testVideo}
	tr := &fakeTransport{sendErr: errors.New("timeout")}
	st := newFakeStore()
	e, timers, _ := newTestEngine(src, tr, st)

	e.Deliver(context.Background(), 7)

	if len(st.deactivated) != 0 {
		t.Fatalf("transient failure must not deactivate, got %v", st.deactivated)
	}
	if st.markCalls != 0 {
		t.Fatal("failed send must not be marked; next tick retries naturally")
	}
	if timers.pending(7) {
		t.Fatal("no follow-up after a failed send")
	}
}

func TestDeliverBadDurationSkipsFollowUp(t *testing.T) {
	video := testVideo
	video.Duration = "garbage"
	src := &fakeSource{video: video}
	tr := &fakeTransport{}
	st := newFakeStore()
	e, timers, _ := newTestEngine(src, tr, st)

	e.Deliver(context.Background(), 3)

	if tr.videoCount() != 1 {
		t.Fatal("the base video is still delivered")
	}
	if !st.sent[ledgerKey(3, "05.01")] {
		t.Fatal("ledger must be marked")
	}
	if timers.pending(3) {
		t.Fatal("unparseable duration must not schedule a follow-up")
	}
}

func TestDeliverNoVideoToday(t *testing.T) {
	src := &fakeSource{err: domain.ErrNoVideoToday}
	tr := &fakeTransport{}
	st := newFakeStore()
	e, _, _ := newTestEngine(src, tr, st)

	e.Deliver(context.Background(), 1)

	if tr.videoCount() != 0 || st.markCalls != 0 {
		t.Fatal("nothing may happen when there is no video today")
	}
}

func TestFollowUpPromptsAndFlagsFeedback(t *testing.T) {
	src := &fakeSource{video: testVideo}
	tr := &fakeTransport{}
	st := newFakeStore()
	e, _, feedback := newTestEngine(src, tr, st)

	e.followUp(5, testVideo)

	tr.mu.Lock()
	followUps := len(tr.followUps)
	tr.mu.Unlock()
	if followUps != 1 {
		t.Fatalf("want 1 follow-up, got %d", followUps)
	}
	a, ok := feedback.Get(5)
	if !ok {
		t.Fatal("awaiting-feedback state must be set")
	}
	if a.VideoURL != testVideo.URL || a.Date != testVideo.Date {
		t.Fatalf("awaiting = %+v, want url %q date %q", a, testVideo.URL, testVideo.Date)
	}
}

func TestFollowUpTimingEndToEnd(t *testing.T) {
	// Fire the deferred action with a millisecond delay instead of waiting
	// out a real video duration.
	src := &fakeSource{video: testVideo}
	tr := &fakeTransport{}
	st := newFakeStore()
	e, timers, feedback := newTestEngine(src, tr, st)

	v := testVideo
	timers.Schedule(9, 20*time.Millisecond, func() { e.followUp(9, v) })
	time.Sleep(100 * time.Millisecond)

	if _, ok := feedback.Get(9); !ok {
		t.Fatal("feedback state must be set after the deferred action fires")
	}
}
