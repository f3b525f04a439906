package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-management-go/library"
)

const (
	flagBook       = "book"
	flagTime       = "time"
	flagBorrowTime = "borrow-time"
	flagReturnTime = "return-time"
)

// now is replaced in tests.
var now = func() library.UnixMilli {
	return time.Now().UnixMilli()
}

func (a *app) newBorrowCommand() *cobra.Command {
	var borrow library.Borrow

	cmd := &cobra.Command{
		Use:   "borrow",
		Short: "Borrow one copy of a book on a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(flagTime) {
				borrow.BorrowTime = now()
			}

			return printResult(a.stdout, a.service.BorrowBook(cmd.Context(), borrow))
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&borrow.CardID, flagCard, 0, "card id")
	flags.Int64Var(&borrow.BookID, flagBook, 0, "book id")
	flags.Int64Var(&borrow.BorrowTime, flagTime, 0, "borrow time in unix milliseconds, defaults to now")
	_ = cmd.MarkFlagRequired(flagCard)
	_ = cmd.MarkFlagRequired(flagBook)

	return cmd
}

func (a *app) newReturnCommand() *cobra.Command {
	var borrow library.Borrow

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Return a borrowed copy, identified by card, book and borrow time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(flagReturnTime) {
				borrow.ReturnTime = now()
			}

			return printResult(a.stdout, a.service.ReturnBook(cmd.Context(), borrow))
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&borrow.CardID, flagCard, 0, "card id")
	flags.Int64Var(&borrow.BookID, flagBook, 0, "book id")
	flags.Int64Var(&borrow.BorrowTime, flagBorrowTime, 0, "borrow time of the loan in unix milliseconds")
	flags.Int64Var(&borrow.ReturnTime, flagReturnTime, 0, "return time in unix milliseconds, defaults to now")
	_ = cmd.MarkFlagRequired(flagCard)
	_ = cmd.MarkFlagRequired(flagBook)
	_ = cmd.MarkFlagRequired(flagBorrowTime)

	return cmd
}

func (a *app) newHistoryCommand() *cobra.Command {
	var cardID library.CardID

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the borrow history of a card, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printResult(a.stdout, a.service.ShowBorrowHistory(cmd.Context(), cardID))
		},
	}

	cmd.Flags().Int64Var(&cardID, flagCard, 0, "card id")
	_ = cmd.MarkFlagRequired(flagCard)

	return cmd
}
