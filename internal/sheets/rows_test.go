package sheets

import (
	"testing"
)

func sheetFixture() [][]interface{} {
	return [][]interface{}{
		{"Дата", "Автор", "x", "x", "Время", "Направление", "Уровень", "Ссылка", "Комментарий"},
		{"04.01", "Анна", "", "", "10 минут", "Растяжка", "2", "https://example.com/a"},
		{"05.01", "Борис", "", "", "05:30", "Кардио", "3", "https://example.com/b", "новое"},
		{"05.01", "Вера", "", "", "1:02:03", "Йога", "1", "https://example.com/dup"},
	}
}

func TestFindByDateFirstMatchWins(t *testing.T) {
	v, ok := findByDate(sheetFixture(), "05.01")
	if !ok {
		t.Fatal("expected a match for 05.01")
	}
	if v.URL != "https://example.com/b" {
		t.Fatalf("first matching row must win, got %q", v.URL)
	}
	if v.Duration != "05:30" || v.Category != "Кардио" || v.Level != 3 {
		t.Fatalf("unexpected row mapping: %+v", v)
	}
}

func TestFindByDateNoMatch(t *testing.T) {
	if _, ok := findByDate(sheetFixture(), "06.01"); ok {
		t.Fatal("no row is dated 06.01")
	}
	// Header-only and empty sheets have no data rows.
	if _, ok := findByDate(sheetFixture()[:1], "04.01"); ok {
		t.Fatal("header row must not be matched")
	}
	if _, ok := findByDate(nil, "04.01"); ok {
		t.Fatal("empty sheet must not match")
	}
}

func TestRowToVideoShortRow(t *testing.T) {
	// Trailing cells are omitted by the API for short rows.
	v := rowToVideo([]interface{}{"04.01", "Анна"})
	if v.Date != "04.01" || v.Author != "Анна" {
		t.Fatalf("unexpected mapping: %+v", v)
	}
	if v.Duration != "" || v.URL != "" || v.Level != 0 {
		t.Fatalf("missing cells must be empty: %+v", v)
	}
}

func TestParseRowsSkipsHeader(t *testing.T) {
	videos := parseRows(sheetFixture())
	if len(videos) != 3 {
		t.Fatalf("want 3 videos, got %d", len(videos))
	}
	if videos[0].Date != "04.01" {
		t.Fatalf("first video date = %q, want 04.01", videos[0].Date)
	}
}
