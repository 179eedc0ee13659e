package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestMarkSentIdempotent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.MarkSent(ctx, 42, "05.01"); err != nil {
		t.Fatalf("first MarkSent: %v", err)
	}
	if err := repo.MarkSent(ctx, 42, "05.01"); err != nil {
		t.Fatalf("second MarkSent must be a no-op, got: %v", err)
	}

	var n int
	if err := repo.db.QueryRow(
		`SELECT COUNT(*) FROM sent_videos WHERE chat_id = 42 AND date = '05.01'`,
	).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("want exactly 1 ledger record, got %d", n)
	}

	sent, err := repo.WasSentToday(ctx, 42, "05.01")
	if err != nil || !sent {
		t.Fatalf("WasSentToday = %v, %v; want true, nil", sent, err)
	}
}

func TestResetForToday(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.MarkSent(ctx, 7, "05.01"); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	if err := repo.ResetForToday(ctx, 7, "05.01"); err != nil {
		t.Fatalf("ResetForToday: %v", err)
	}
	sent, err := repo.WasSentToday(ctx, 7, "05.01")
	if err != nil {
		t.Fatalf("WasSentToday: %v", err)
	}
	if sent {
		t.Fatal("record must be gone after ResetForToday")
	}
}

func TestListDueActiveExcludesInactive(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, s := range []domain.Subscriber{
		{ChatID: 1, NotifyTime: "08:00"},
		{ChatID: 2, NotifyTime: "08:00"},
		{ChatID: 3, NotifyTime: "09:30"},
	} {
		sub := s
		if err := repo.UpsertSubscriber(ctx, &sub); err != nil {
			t.Fatalf("upsert %d: %v", s.ChatID, err)
		}
	}
	if err := repo.Deactivate(ctx, 2); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	// Deactivate is idempotent.
	if err := repo.Deactivate(ctx, 2); err != nil {
		t.Fatalf("second deactivate: %v", err)
	}

	ids, err := repo.ListDueActive(ctx, "08:00")
	if err != nil {
		t.Fatalf("ListDueActive: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("want [1], got %v", ids)
	}

	// No match for a time nobody configured.
	ids, err = repo.ListDueActive(ctx, "08:01")
	if err != nil {
		t.Fatalf("ListDueActive: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("want no due subscribers at 08:01, got %v", ids)
	}
}

func TestUpsertPreservesNotifyTime(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.UpsertSubscriber(ctx, &domain.Subscriber{ChatID: 10, FirstName: "Оля"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.SetNotifyTime(ctx, 10, "09:30"); err != nil {
		t.Fatalf("SetNotifyTime: %v", err)
	}

	// Re-registration must keep the chosen time and reactivate.
	if err := repo.Deactivate(ctx, 10); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := repo.UpsertSubscriber(ctx, &domain.Subscriber{ChatID: 10, FirstName: "Ольга"}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	s, err := repo.GetSubscriber(ctx, 10)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.NotifyTime != "09:30" {
		t.Fatalf("notify time = %q, want 09:30", s.NotifyTime)
	}
	if !s.Active {
		t.Fatal("re-registration must reactivate the subscriber")
	}
	if s.FirstName != "Ольга" {
		t.Fatalf("first name = %q, want Ольга", s.FirstName)
	}
}

func TestSetNotifyTimeCreatesSubscriber(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.SetNotifyTime(ctx, 55, "16:20"); err != nil {
		t.Fatalf("SetNotifyTime: %v", err)
	}
	s, err := repo.GetSubscriber(ctx, 55)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.NotifyTime != "16:20" || !s.Active {
		t.Fatalf("got %+v, want active subscriber at 16:20", s)
	}
}

func TestStats(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		if err := repo.UpsertSubscriber(ctx, &domain.Subscriber{ChatID: id}); err != nil {
			t.Fatalf("upsert %d: %v", id, err)
		}
	}
	if err := repo.Deactivate(ctx, 3); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := repo.MarkSent(ctx, 1, "05.01"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := repo.MarkSent(ctx, 2, "04.01"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	st, err := repo.Stats(ctx, "05.01")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := domain.Stats{TotalUsers: 3, ActiveUsers: 2, InactiveUsers: 1, ReceivedToday: 1}
	if st != want {
		t.Fatalf("Stats = %+v, want %+v", st, want)
	}
}
