// Package stats computes dashboard aggregates from slice snapshots.
// Every function is pure and deterministic, tolerates empty input, and is
// cheap enough to recompute on every render.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/librisys/library-client/internal/core/domain"
)

// TitleCount is one row of the top-borrowed ranking.
type TitleCount struct {
	BookID string
	Title  string
	Count  int
}

// DayCount is one point of the borrow trend, keyed by UTC day string
// (YYYY-MM-DD).
type DayCount struct {
	Day   string
	Count int
}

// UnknownTitle is shown when a borrow record references a book that has
// since been deleted from the catalog.
const UnknownTitle = "Unknown Title"

// RoleBreakdown counts admins (case-insensitive role match) and members.
// The two counts always sum to len(users).
func RoleBreakdown(users []domain.User) (admins, members int) {
	for _, u := range users {
		if strings.EqualFold(u.Role, domain.RoleAdmin) {
			admins++
		} else {
			members++
		}
	}
	return admins, members
}

// TotalStock sums catalog quantities. Negative quantities contribute
// nothing; the decode layer already maps absent or malformed values to zero.
func TotalStock(books []domain.Book) int {
	total := 0
	for _, b := range books {
		if b.Quantity > 0 {
			total += b.Quantity
		}
	}
	return total
}

// ActiveBorrowCount counts records with no return date.
func ActiveBorrowCount(records []domain.BorrowRecord) int {
	n := 0
	for _, r := range records {
		if r.Active() {
			n++
		}
	}
	return n
}

// OverdueCount counts active records whose due date has passed at now.
// Holding records fixed, the result never decreases as now advances.
func OverdueCount(records []domain.BorrowRecord, now time.Time) int {
	n := 0
	for _, r := range records {
		if r.Overdue(now) {
			n++
		}
	}
	return n
}

// DueTodayCount counts active records due on the same UTC calendar day as
// today.
func DueTodayCount(records []domain.BorrowRecord, today time.Time) int {
	day := dayKey(today)
	n := 0
	for _, r := range records {
		if r.Active() && !r.DueDate.IsZero() && dayKey(r.DueDate) == day {
			n++
		}
	}
	return n
}

// TopBorrowed ranks books by borrow count, joining titles from the catalog
// (UnknownTitle when the book is gone), sorted by count descending with
// ties kept in first-encounter order, truncated to k.
func TopBorrowed(records []domain.BorrowRecord, books []domain.Book, k int) []TitleCount {
	if k <= 0 {
		return nil
	}
	titles := make(map[string]string, len(books))
	for _, b := range books {
		titles[b.ID] = b.Title
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, seen := counts[r.BookID]; !seen {
			order = append(order, r.BookID)
		}
		counts[r.BookID]++
	}

	ranked := make([]TitleCount, 0, len(order))
	for _, id := range order {
		title, ok := titles[id]
		if !ok {
			title = UnknownTitle
		}
		ranked = append(ranked, TitleCount{BookID: id, Title: title, Count: counts[id]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// BorrowTrend groups records into borrows-per-day. Records lacking a
// borrowed-at timestamp fall back to due date minus seven days (legacy rows
// predate the timestamp column); records with neither are skipped. Days come
// back ascending and unique.
func BorrowTrend(records []domain.BorrowRecord) []DayCount {
	perDay := make(map[string]int)
	for _, r := range records {
		at := r.BorrowedAt
		if at.IsZero() {
			if r.DueDate.IsZero() {
				continue
			}
			at = r.DueDate.AddDate(0, 0, -7)
		}
		perDay[dayKey(at)]++
	}

	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)

	trend := make([]DayCount, 0, len(days))
	for _, d := range days {
		trend = append(trend, DayCount{Day: d, Count: perDay[d]})
	}
	return trend
}

// TotalFines sums the server-computed fines across all users.
func TotalFines(users []domain.User) float64 {
	var total float64
	for _, u := range users {
		total += u.FinesDue
	}
	return total
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
