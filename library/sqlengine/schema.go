package sqlengine

// SchemaInitializer supplies the DDL ResetDatabase runs, in this order:
// DropBorrow, DropBook, DropCard, CreateCard, CreateBook, CreateBorrow.
//
// The created tables must keep the column names the service uses and the constraints it relies on:
// stock >= 0, the card type check, the borrow primary key (card_id, book_id, borrow_time)
// and foreign keys from borrow to book and card that cascade on delete.
type SchemaInitializer interface {
	DropBorrow() string
	DropBook() string
	DropCard() string
	CreateCard() string
	CreateBook() string
	CreateBorrow() string
}

func schemaFor(dialect Dialect) SchemaInitializer {
	if dialect == DialectSQLite {
		return SQLiteSchema{}
	}

	return PostgresSchema{}
}

func resetStatements(schema SchemaInitializer) []string {
	return []string{
		schema.DropBorrow(),
		schema.DropBook(),
		schema.DropCard(),
		schema.CreateCard(),
		schema.CreateBook(),
		schema.CreateBorrow(),
	}
}

/***** PostgreSQL *****/

// PostgresSchema is the default SchemaInitializer for DialectPostgres.
type PostgresSchema struct{}

func (PostgresSchema) DropBorrow() string {
	return `DROP TABLE IF EXISTS borrow`
}

func (PostgresSchema) DropBook() string {
	return `DROP TABLE IF EXISTS book`
}

func (PostgresSchema) DropCard() string {
	return `DROP TABLE IF EXISTS card`
}

func (PostgresSchema) CreateCard() string {
	return `CREATE TABLE card (
    card_id    BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    name       VARCHAR(63) NOT NULL,
    department VARCHAR(63) NOT NULL,
    type       CHAR(1)     NOT NULL,
    CONSTRAINT card_type_check CHECK (type IN ('S', 'T'))
)`
}

func (PostgresSchema) CreateBook() string {
	return `CREATE TABLE book (
    book_id      BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    category     VARCHAR(63)  NOT NULL,
    title        VARCHAR(63)  NOT NULL,
    press        VARCHAR(63)  NOT NULL,
    publish_year INT          NOT NULL,
    author       VARCHAR(63)  NOT NULL,
    price        DECIMAL(7,2) NOT NULL DEFAULT 0.00,
    stock        INT          NOT NULL DEFAULT 0,
    CONSTRAINT book_stock_check CHECK (stock >= 0),
    CONSTRAINT book_edition_unique UNIQUE (category, press, author, title, publish_year)
)`
}

func (PostgresSchema) CreateBorrow() string {
	return `CREATE TABLE borrow (
    card_id     BIGINT NOT NULL,
    book_id     BIGINT NOT NULL,
    borrow_time BIGINT NOT NULL,
    return_time BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (card_id, book_id, borrow_time),
    FOREIGN KEY (card_id) REFERENCES card (card_id) ON DELETE CASCADE ON UPDATE CASCADE,
    FOREIGN KEY (book_id) REFERENCES book (book_id) ON DELETE CASCADE ON UPDATE CASCADE
)`
}

/***** SQLite *****/

// SQLiteSchema is the default SchemaInitializer for DialectSQLite.
// Foreign keys are only enforced when the connection enables them (_foreign_keys=1 in the DSN).
type SQLiteSchema struct{}

func (SQLiteSchema) DropBorrow() string {
	return `DROP TABLE IF EXISTS borrow`
}

func (SQLiteSchema) DropBook() string {
	return `DROP TABLE IF EXISTS book`
}

func (SQLiteSchema) DropCard() string {
	return `DROP TABLE IF EXISTS card`
}

func (SQLiteSchema) CreateCard() string {
	return `CREATE TABLE card (
    card_id    INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    department TEXT NOT NULL,
    type       TEXT NOT NULL CHECK (type IN ('S', 'T'))
)`
}

func (SQLiteSchema) CreateBook() string {
	return `CREATE TABLE book (
    book_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    category     TEXT          NOT NULL,
    title        TEXT          NOT NULL,
    press        TEXT          NOT NULL,
    publish_year INTEGER       NOT NULL,
    author       TEXT          NOT NULL,
    price        NUMERIC(7,2)  NOT NULL DEFAULT 0.00,
    stock        INTEGER       NOT NULL DEFAULT 0 CHECK (stock >= 0),
    UNIQUE (category, press, author, title, publish_year)
)`
}

func (SQLiteSchema) CreateBorrow() string {
	return `CREATE TABLE borrow (
    card_id     INTEGER NOT NULL REFERENCES card (card_id) ON DELETE CASCADE ON UPDATE CASCADE,
    book_id     INTEGER NOT NULL REFERENCES book (book_id) ON DELETE CASCADE ON UPDATE CASCADE,
    borrow_time INTEGER NOT NULL,
    return_time INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (card_id, book_id, borrow_time)
)`
}
