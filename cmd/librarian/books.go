package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-management-go/library"
)

const (
	flagID       = "id"
	flagCategory = "category"
	flagTitle    = "title"
	flagAuthor   = "author"
	flagPress    = "press"
	flagYear     = "year"
	flagPrice    = "price"
	flagStock    = "stock"
	flagDelta    = "delta"
	flagMinYear  = "min-year"
	flagMaxYear  = "max-year"
	flagMinPrice = "min-price"
	flagMaxPrice = "max-price"
	flagSort     = "sort"
	flagOrder    = "order"
)

func (a *app) newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate all tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printResult(a.stdout, a.service.ResetDatabase(cmd.Context()))
		},
	}
}

func (a *app) newBookCommand() *cobra.Command {
	book := &cobra.Command{
		Use:   "book",
		Short: "Store, change, remove and query books",
	}

	book.AddCommand(
		a.newBookStoreCommand(),
		a.newBookImportCommand(),
		a.newBookStockCommand(),
		a.newBookRemoveCommand(),
		a.newBookModifyCommand(),
		a.newBookQueryCommand(),
	)

	return book
}

func addBookInfoFlags(cmd *cobra.Command, book *library.Book) {
	flags := cmd.Flags()
	flags.StringVar(&book.Category, flagCategory, "", "category")
	flags.StringVar(&book.Title, flagTitle, "", "title")
	flags.StringVar(&book.Author, flagAuthor, "", "author")
	flags.StringVar(&book.Press, flagPress, "", "press")
	flags.IntVar(&book.PublishYear, flagYear, 0, "publish year")
	flags.Float64Var(&book.Price, flagPrice, 0, "price")
}

func (a *app) newBookStoreCommand() *cobra.Command {
	var book library.Book

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store one book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := a.service.StoreBook(cmd.Context(), &book)

			return printResult(a.stdout, withPayload(result, book))
		},
	}

	addBookInfoFlags(cmd, &book)
	cmd.Flags().IntVar(&book.Stock, flagStock, 0, "initial stock")
	_ = cmd.MarkFlagRequired(flagTitle)

	return cmd
}

func (a *app) newBookImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Store all books of a CSV file, or none of them",
		Long: "Store all books of a CSV file in one transaction. The file needs the header\n" +
			csvHeaderLine() + "\n" +
			"If any book is invalid or already stored, no book is stored.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = file.Close() }()

			books, err := readBooksCSV(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			result := a.service.StoreBooks(cmd.Context(), books)

			return printResult(a.stdout, withPayload(result, books))
		},
	}
}

func (a *app) newBookStockCommand() *cobra.Command {
	var bookID library.BookID
	var delta int

	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Change the stock of a book by a positive or negative delta",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printResult(a.stdout, a.service.IncBookStock(cmd.Context(), bookID, delta))
		},
	}

	cmd.Flags().Int64Var(&bookID, flagID, 0, "book id")
	cmd.Flags().IntVar(&delta, flagDelta, 0, "stock change, may be negative")
	_ = cmd.MarkFlagRequired(flagID)
	_ = cmd.MarkFlagRequired(flagDelta)

	return cmd
}

func (a *app) newBookRemoveCommand() *cobra.Command {
	var bookID library.BookID

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a book that has no unreturned copies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printResult(a.stdout, a.service.RemoveBook(cmd.Context(), bookID))
		},
	}

	cmd.Flags().Int64Var(&bookID, flagID, 0, "book id")
	_ = cmd.MarkFlagRequired(flagID)

	return cmd
}

// newBookModifyCommand only overwrites the fields given as flags, the others keep their stored values.
func (a *app) newBookModifyCommand() *cobra.Command {
	var changes library.Book

	cmd := &cobra.Command{
		Use:   "modify",
		Short: "Change the information of a book, not its stock",
		Long: "Change the information of a book, not its stock. Fields without a flag keep their stored values.\n" +
			"The book is read and written in two transactions: a change made by someone else in between\n" +
			"is overwritten with the values read before it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			current, found, err := a.findBook(cmd, changes.ID)
			if err != nil || !found {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed(flagCategory) {
				current.Category = changes.Category
			}
			if flags.Changed(flagTitle) {
				current.Title = changes.Title
			}
			if flags.Changed(flagAuthor) {
				current.Author = changes.Author
			}
			if flags.Changed(flagPress) {
				current.Press = changes.Press
			}
			if flags.Changed(flagYear) {
				current.PublishYear = changes.PublishYear
			}
			if flags.Changed(flagPrice) {
				current.Price = changes.Price
			}

			return printResult(a.stdout, a.service.ModifyBookInfo(ctx, current))
		},
	}

	cmd.Flags().Int64Var(&changes.ID, flagID, 0, "book id")
	addBookInfoFlags(cmd, &changes)
	_ = cmd.MarkFlagRequired(flagID)

	return cmd
}

// findBook looks the book up by id; a failed lookup or a missing book is printed as the command result.
func (a *app) findBook(cmd *cobra.Command, bookID library.BookID) (library.Book, bool, error) {
	result := a.service.QueryBook(cmd.Context(), library.BuildBookQuery().WithBookID(bookID).Finalize())
	if !result.Ok {
		return library.Book{}, false, printResult(a.stdout, result)
	}

	for _, book := range result.Books() {
		if book.ID == bookID {
			return book, true, nil
		}
	}

	return library.Book{}, false, printResult(a.stdout, library.Failed(library.ErrBookNotFound))
}

func (a *app) newBookQueryCommand() *cobra.Command {
	var category, title, author, press, sortBy, order string
	var minYear, maxYear int
	var minPrice, maxPrice float64

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find books; conditions left out do not restrict the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()

			builder := library.BuildBookQuery().
				WithCategory(category).
				TitleContains(title).
				AuthorContains(author).
				PressContains(press).
				SortBy(library.SortColumn(sortBy), library.SortOrder(order))

			if flags.Changed(flagMinYear) {
				builder = builder.PublishedFrom(minYear)
			}
			if flags.Changed(flagMaxYear) {
				builder = builder.PublishedUntil(maxYear)
			}
			if flags.Changed(flagMinPrice) {
				builder = builder.PricedFrom(minPrice)
			}
			if flags.Changed(flagMaxPrice) {
				builder = builder.PricedUntil(maxPrice)
			}

			return printResult(a.stdout, a.service.QueryBook(cmd.Context(), builder.Finalize()))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&category, flagCategory, "", "exact category")
	flags.StringVar(&title, flagTitle, "", "text the title contains")
	flags.StringVar(&author, flagAuthor, "", "text the author contains")
	flags.StringVar(&press, flagPress, "", "text the press contains")
	flags.IntVar(&minYear, flagMinYear, 0, "earliest publish year")
	flags.IntVar(&maxYear, flagMaxYear, 0, "latest publish year")
	flags.Float64Var(&minPrice, flagMinPrice, 0, "lowest price")
	flags.Float64Var(&maxPrice, flagMaxPrice, 0, "highest price")
	flags.StringVar(&sortBy, flagSort, string(library.SortByBookID), "sort column: book_id, category, title, press, publish_year, author, price or stock")
	flags.StringVar(&order, flagOrder, string(library.Ascending), "sort order: asc or desc")

	return cmd
}
