// Package sqlengine provides the relational implementation of the library operations.
//
// The LibraryService runs every operation (books, cards, borrows, schema reset) in exactly one
// transaction and reports the outcome as a library.Result. Business rules that span several rows,
// like "stock never drops below zero" or "a card with unreturned books can't be removed",
// are enforced with read-then-write sequences inside that transaction.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - PostgreSQL and SQLite dialects, all statements built with goqu as prepared statements
//   - Row lock on the book before borrowing, so concurrent borrows of the last copy can't both succeed
//   - Replaceable schema DDL via SchemaInitializer
//   - Optional logging, metrics and tracing via dependency-free interfaces
//
// Usage examples:
//
//	// PostgreSQL via pgx
//	db, _ := pgxpool.New(context.Background(), dsn)
//	service, _ := sqlengine.NewLibraryServiceFromPGXPool(db)
//
//	// SQLite via database/sql, with logging
//	db, _ := sql.Open("sqlite3", "file:library.db?_foreign_keys=1")
//	service, _ := sqlengine.NewLibraryServiceFromSQLDB(
//		db,
//		sqlengine.WithDialect(sqlengine.DialectSQLite),
//		sqlengine.WithLogger(slog.Default()),
//	)
//
//	book := library.Book{Category: "CS", Title: "Database Systems", Author: "Ullman", Press: "Pearson", PublishYear: 2008, Price: 89.9, Stock: 3}
//	result := service.StoreBook(ctx, &book)
//	result = service.BorrowBook(ctx, library.Borrow{CardID: cardID, BookID: book.ID, BorrowTime: time.Now().UnixMilli()})
package sqlengine
