// Command librarian runs the library operations against a PostgreSQL or SQLite database.
//
// Every command prints the operation result as JSON and exits with status 1 when the operation failed.
// The connection is configured with the LIBRARY_* environment variables (also read from a .env file)
// and can be overridden with flags:
//
//	librarian reset
//	librarian card register --name "Ada Lovelace" --department "Mathematics" --type teacher
//	librarian book store --category "Computer Science" --title "SICP" --author "Abelson" --press "MIT Press" --year 1985 --price 55 --stock 2
//	librarian book import books.csv
//	librarian borrow --card 1 --book 1
//	librarian return --card 1 --book 1 --borrow-time 1709287200000
//	librarian history --card 1
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	root := a.newRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	closeErr := a.close(ctx)

	if err != nil && !errors.Is(err, errOperationFailed) {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
	}

	if closeErr != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", closeErr)
	}

	if err != nil || closeErr != nil {
		return 1
	}

	return 0
}
