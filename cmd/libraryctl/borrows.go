package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/librisys/library-client/internal/core/domain"
)

func newBorrowsCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "borrows",
		Short: "List borrow records",
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []domain.BorrowRecord
			if all {
				_ = a.store.Borrow.FetchAll(cmd.Context())
				view := a.store.Borrow.Snapshot()
				consume(view.Status, a.store.Borrow.Reset)
				records = view.All
			} else {
				_ = a.store.Borrow.FetchMine(cmd.Context())
				view := a.store.Borrow.Snapshot()
				consume(view.Status, a.store.Borrow.Reset)
				records = view.Mine
			}
			printRecords(records, time.Now())
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every user's records (admin only)")
	return cmd
}

func printRecords(records []domain.BorrowRecord, now time.Time) {
	if len(records) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BOOK\tTITLE\tBORROWER\tDUE\tSTATUS")
	for _, r := range records {
		status := "returned"
		switch {
		case r.Overdue(now):
			status = "overdue"
		case r.Active():
			status = "out"
		}
		due := ""
		if !r.DueDate.IsZero() {
			due = r.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.BookID, r.BookTitle, r.Borrower, due, status)
	}
	w.Flush()
}

func newBorrowCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "borrow <book-id>",
		Short: "Record a borrow for a member (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.store.RecordBorrow(cmd.Context(), args[0], email)
			return settleBorrow(a, msg, err)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "borrower's email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newReturnCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "return <book-id>",
		Short: "Record a return for a member (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.store.ReturnBorrow(cmd.Context(), args[0], email)
			return settleBorrow(a, msg, err)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "borrower's email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// settleBorrow reports the outcome of a composite borrow write. The write
// message is printed even when the follow-up resync partially fails.
func settleBorrow(a *app, msg string, err error) error {
	if msg != "" {
		fmt.Println(msg)
	}
	if err != nil {
		fmt.Println("error:", err)
	}
	a.store.Borrow.Reset()
	a.store.Books.Reset()
	return nil
}
