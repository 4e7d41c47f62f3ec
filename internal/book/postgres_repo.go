package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const booksTable = "books"

var (
	dialect     = goqu.Dialect("postgres")
	bookColumns = []any{"isbn", "amazon_url", "author", "language", "pages", "publisher", "title", "year"}
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func listSQL() (string, []any, error) {
	return dialect.From(booksTable).
		Select(bookColumns...).
		Order(goqu.I("title").Asc(), goqu.I("isbn").Asc()).
		Prepared(true).
		ToSQL()
}

func getSQL(isbn string) (string, []any, error) {
	return dialect.From(booksTable).
		Select(bookColumns...).
		Where(goqu.C("isbn").Eq(isbn)).
		Limit(1).
		Prepared(true).
		ToSQL()
}

func insertSQL(b Book) (string, []any, error) {
	return dialect.Insert(booksTable).
		Rows(goqu.Record{
			"isbn":       b.ISBN,
			"amazon_url": b.AmazonURL,
			"author":     b.Author,
			"language":   b.Language,
			"pages":      b.Pages,
			"publisher":  b.Publisher,
			"title":      b.Title,
			"year":       b.Year,
		}).
		Returning(bookColumns...).
		Prepared(true).
		ToSQL()
}

func updateSQL(b Book) (string, []any, error) {
	return dialect.Update(booksTable).
		Set(goqu.Record{
			"amazon_url": b.AmazonURL,
			"author":     b.Author,
			"language":   b.Language,
			"pages":      b.Pages,
			"publisher":  b.Publisher,
			"title":      b.Title,
			"year":       b.Year,
		}).
		Where(goqu.C("isbn").Eq(b.ISBN)).
		Returning(bookColumns...).
		Prepared(true).
		ToSQL()
}

func deleteSQL(isbn string) (string, []any, error) {
	return dialect.Delete(booksTable).
		Where(goqu.C("isbn").Eq(isbn)).
		Prepared(true).
		ToSQL()
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	query, args, err := listSQL()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[Book])
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	return books, nil
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	query, args, err := getSQL(isbn)
	if err != nil {
		return Book{}, fmt.Errorf("build get query: %w", err)
	}
	return r.queryOne(ctx, query, args, isbn)
}

func (r *PostgresRepo) Create(ctx context.Context, b Book) (Book, error) {
	query, args, err := insertSQL(b)
	if err != nil {
		return Book{}, fmt.Errorf("build insert: %w", err)
	}
	created, err := r.queryOne(ctx, query, args, b.ISBN)
	if err != nil {
		return Book{}, fmt.Errorf("insert book %s: %w", b.ISBN, err)
	}
	return created, nil
}

func (r *PostgresRepo) Update(ctx context.Context, b Book) (Book, error) {
	query, args, err := updateSQL(b)
	if err != nil {
		return Book{}, fmt.Errorf("build update: %w", err)
	}
	return r.queryOne(ctx, query, args, b.ISBN)
}

func (r *PostgresRepo) Delete(ctx context.Context, isbn string) error {
	query, args, err := deleteSQL(isbn)
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", isbn, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}
	return nil
}

// queryOne runs a statement returning at most one book row.
func (r *PostgresRepo) queryOne(ctx context.Context, query string, args []any, isbn string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return Book{}, err
	}
	b, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, fmt.Errorf("%w: %s", ErrNotFound, isbn)
		}
		return Book{}, err
	}
	return b, nil
}
