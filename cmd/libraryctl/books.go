package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/librisys/library-client/internal/core/ports"
)

func newBooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and manage the catalog",
	}
	cmd.AddCommand(newBooksListCmd(a), newBooksAddCmd(a), newBooksDeleteCmd(a))
	return cmd
}

func newBooksListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = a.store.Books.FetchAll(cmd.Context())
			view := a.store.Books.Snapshot()
			consume(view.Status, a.store.Books.Reset)
			if len(view.Books) == 0 {
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tPRICE\tQTY")
			for _, b := range view.Books {
				fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%d\n", b.ID, b.Title, b.Author, b.Price, b.Quantity)
			}
			return w.Flush()
		},
	}
}

func newBooksAddCmd(a *app) *cobra.Command {
	var in ports.BookInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog entry (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = a.store.Books.Add(cmd.Context(), in)
			consume(a.store.Books.Snapshot().Status, a.store.Books.Reset)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "book title")
	cmd.Flags().StringVar(&in.Author, "author", "", "book author")
	cmd.Flags().StringVar(&in.Description, "description", "", "short description")
	cmd.Flags().Float64Var(&in.Price, "price", 0, "price in dollars")
	cmd.Flags().IntVar(&in.Quantity, "quantity", 1, "copies in stock")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

func newBooksDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <book-id>",
		Short: "Remove a catalog entry (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = a.store.Books.Delete(cmd.Context(), args[0])
			consume(a.store.Books.Snapshot().Status, a.store.Books.Reset)
			return nil
		},
	}
}
