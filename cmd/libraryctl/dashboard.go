package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/librisys/library-client/internal/core/stats"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show library metrics (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for _, fetch := range []func() error{
				func() error { return a.store.Books.FetchAll(ctx) },
				func() error { return a.store.Users.FetchAll(ctx) },
				func() error { return a.store.Borrow.FetchAll(ctx) },
			} {
				if err := fetch(); err != nil {
					fmt.Println("error:", err)
					a.store.Books.Reset()
					a.store.Users.Reset()
					a.store.Borrow.Reset()
					return nil
				}
			}
			books := a.store.Books.Snapshot().Books
			users := a.store.Users.Snapshot().Users
			records := a.store.Borrow.Snapshot().All
			a.store.Books.Reset()
			a.store.Users.Reset()
			a.store.Borrow.Reset()

			now := time.Now()
			admins, members := stats.RoleBreakdown(users)

			fmt.Println("Library dashboard")
			fmt.Println(strings.Repeat("-", 40))
			fmt.Printf("Admins / members:   %d / %d\n", admins, members)
			fmt.Printf("Books in catalog:   %d (%d copies in stock)\n", len(books), stats.TotalStock(books))
			fmt.Printf("Active borrows:     %d\n", stats.ActiveBorrowCount(records))
			fmt.Printf("Overdue:            %d\n", stats.OverdueCount(records, now))
			fmt.Printf("Due today:          %d\n", stats.DueTodayCount(records, now))
			fmt.Printf("Fines outstanding:  $%.2f\n", stats.TotalFines(users))

			if top := stats.TopBorrowed(records, books, 5); len(top) > 0 {
				fmt.Println("\nMost borrowed:")
				for i, tc := range top {
					fmt.Printf("  %d. %s (%d)\n", i+1, tc.Title, tc.Count)
				}
			}
			if trend := stats.BorrowTrend(records); len(trend) > 0 {
				fmt.Println("\nBorrows per day:")
				for _, dc := range trend {
					fmt.Printf("  %s  %s\n", dc.Day, strings.Repeat("#", dc.Count))
				}
			}
			return nil
		},
	}
}
