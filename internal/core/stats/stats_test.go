package stats

import (
	"testing"
	"time"

	"github.com/librisys/library-client/internal/core/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func returned(r domain.BorrowRecord, at time.Time) domain.BorrowRecord {
	r.ReturnDate = &at
	return r
}

func TestRoleBreakdown(t *testing.T) {
	users := []domain.User{
		{Role: "Admin"},
		{Role: "admin"},
		{Role: "ADMIN"},
		{Role: "user"},
		{Role: ""},
	}
	admins, members := RoleBreakdown(users)
	if admins != 3 {
		t.Fatalf("admins = %d, want 3", admins)
	}
	if members != 2 {
		t.Fatalf("members = %d, want 2", members)
	}
	if admins+members != len(users) {
		t.Fatalf("breakdown does not partition: %d + %d != %d", admins, members, len(users))
	}
}

func TestRoleBreakdown_Empty(t *testing.T) {
	admins, members := RoleBreakdown(nil)
	if admins != 0 || members != 0 {
		t.Fatalf("got %d/%d, want 0/0", admins, members)
	}
}

func TestTotalStock(t *testing.T) {
	books := []domain.Book{
		{Quantity: 3},
		{Quantity: 0},
		{Quantity: -2},
		{Quantity: 5},
	}
	if got := TotalStock(books); got != 8 {
		t.Fatalf("TotalStock = %d, want 8", got)
	}
}

func TestActiveBorrowCount_PartitionsRecords(t *testing.T) {
	now := day("2026-03-10")
	records := []domain.BorrowRecord{
		{BookID: "1"},
		returned(domain.BorrowRecord{BookID: "2"}, now),
		{BookID: "3"},
		returned(domain.BorrowRecord{BookID: "4"}, now),
	}
	active := ActiveBorrowCount(records)
	if active != 2 {
		t.Fatalf("active = %d, want 2", active)
	}
	closed := 0
	for _, r := range records {
		if !r.Active() {
			closed++
		}
	}
	if active+closed != len(records) {
		t.Fatalf("active %d + closed %d != %d", active, closed, len(records))
	}
}

func TestOverdueCount(t *testing.T) {
	records := []domain.BorrowRecord{
		{BookID: "1", DueDate: day("2026-03-05")},
		{BookID: "2", DueDate: day("2026-03-15")},
		returned(domain.BorrowRecord{BookID: "3", DueDate: day("2026-03-01")}, day("2026-03-02")),
		{BookID: "4"}, // no due date, never overdue
	}
	if got := OverdueCount(records, day("2026-03-10")); got != 1 {
		t.Fatalf("overdue at 03-10 = %d, want 1", got)
	}
	if got := OverdueCount(records, day("2026-03-20")); got != 2 {
		t.Fatalf("overdue at 03-20 = %d, want 2", got)
	}
}

func TestOverdueCount_MonotonicInTime(t *testing.T) {
	records := []domain.BorrowRecord{
		{BookID: "1", DueDate: day("2026-03-03")},
		{BookID: "2", DueDate: day("2026-03-07")},
		{BookID: "3", DueDate: day("2026-03-11")},
	}
	prev := 0
	for d := day("2026-03-01"); d.Before(day("2026-03-20")); d = d.AddDate(0, 0, 1) {
		got := OverdueCount(records, d)
		if got < prev {
			t.Fatalf("overdue count decreased from %d to %d at %s", prev, got, d)
		}
		prev = got
	}
}

func TestDueTodayCount(t *testing.T) {
	records := []domain.BorrowRecord{
		{BookID: "1", DueDate: day("2026-03-10").Add(9 * time.Hour)},
		{BookID: "2", DueDate: day("2026-03-10").Add(23 * time.Hour)},
		{BookID: "3", DueDate: day("2026-03-11")},
		returned(domain.BorrowRecord{BookID: "4", DueDate: day("2026-03-10")}, day("2026-03-09")),
	}
	if got := DueTodayCount(records, day("2026-03-10").Add(14*time.Hour)); got != 2 {
		t.Fatalf("due today = %d, want 2", got)
	}
}

func TestTopBorrowed(t *testing.T) {
	books := []domain.Book{
		{ID: "a", Title: "Alpha"},
		{ID: "b", Title: "Beta"},
		{ID: "c", Title: "Gamma"},
	}
	records := []domain.BorrowRecord{
		{BookID: "b"}, {BookID: "b"}, {BookID: "b"},
		{BookID: "a"}, {BookID: "a"},
		{BookID: "gone"}, {BookID: "gone"},
		{BookID: "c"},
	}
	top := TopBorrowed(records, books, 5)
	if len(top) != 4 {
		t.Fatalf("len = %d, want 4", len(top))
	}
	if top[0].Title != "Beta" || top[0].Count != 3 {
		t.Fatalf("top[0] = %+v, want Beta/3", top[0])
	}
	// "a" and "gone" both have 2; "a" was encountered first, so the stable
	// sort keeps it ahead.
	if top[1].BookID != "a" || top[2].BookID != "gone" {
		t.Fatalf("tie order wrong: %+v then %+v", top[1], top[2])
	}
	if top[2].Title != UnknownTitle {
		t.Fatalf("deleted book title = %q, want %q", top[2].Title, UnknownTitle)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Count > top[i-1].Count {
			t.Fatalf("not sorted descending at %d: %+v", i, top)
		}
	}
}

func TestTopBorrowed_Truncates(t *testing.T) {
	records := []domain.BorrowRecord{
		{BookID: "1"}, {BookID: "2"}, {BookID: "3"}, {BookID: "4"},
	}
	if got := TopBorrowed(records, nil, 2); len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got := TopBorrowed(records, nil, 0); got != nil {
		t.Fatalf("k=0 should return nil, got %v", got)
	}
}

func TestBorrowTrend(t *testing.T) {
	records := []domain.BorrowRecord{
		{BookID: "1", BorrowedAt: day("2026-03-02")},
		{BookID: "2", BorrowedAt: day("2026-03-02").Add(5 * time.Hour)},
		{BookID: "3", BorrowedAt: day("2026-03-05")},
		// legacy row: no borrowed-at, due date implies 2026-03-01
		{BookID: "4", DueDate: day("2026-03-08")},
		// neither timestamp: skipped
		{BookID: "5"},
	}
	trend := BorrowTrend(records)
	want := []DayCount{
		{Day: "2026-03-01", Count: 1},
		{Day: "2026-03-02", Count: 2},
		{Day: "2026-03-05", Count: 1},
	}
	if len(trend) != len(want) {
		t.Fatalf("trend = %+v, want %+v", trend, want)
	}
	for i := range want {
		if trend[i] != want[i] {
			t.Fatalf("trend[%d] = %+v, want %+v", i, trend[i], want[i])
		}
	}
	for i := 1; i < len(trend); i++ {
		if trend[i].Day <= trend[i-1].Day {
			t.Fatalf("days not strictly ascending: %+v", trend)
		}
	}
}

func TestTotalFines(t *testing.T) {
	users := []domain.User{
		{FinesDue: 1.5},
		{FinesDue: 0},
		{FinesDue: 3.25},
	}
	if got := TotalFines(users); got != 4.75 {
		t.Fatalf("TotalFines = %v, want 4.75", got)
	}
}
