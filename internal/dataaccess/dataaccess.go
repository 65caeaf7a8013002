// Package dataaccess is the only caller of internal/storage/ppg's *sql.DB
// (spec.md §2: "Data Access holds the only connection to the Storage
// Layer"). Every exported function takes a context.Context first and a
// Querier so the same code runs against either a bare connection or an
// open transaction, mirroring the teacher's internal/storage/dolt query
// shape (parameterized SQL, database/sql, wrapped errors).
//
// No function here has a side effect beyond the database (spec.md §4.3);
// ID minting, timestamps, and ordering are the caller's responsibility
// (internal/command), not this package's.
package dataaccess

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
)

// scannable is satisfied by both *sql.Row and *sql.Rows, letting every
// entity's scan helper handle a single Read and a multi-row List with one
// function.
type scannable interface {
	Scan(dest ...any) error
}

// Querier is satisfied by both *sql.DB and *sql.Tx, letting every function
// in this package run standalone or as part of a caller-managed
// transaction (the editor's batched block save uses the latter via
// ppg.Store.WithTx).
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// IDInBatchSize is an IN-clause batch size adapted from the teacher's
// DefaultBatchSize (internal/storage/dolt/batch.go). No query in this
// package splits its IN clause by it: the one IN clause (alignment.go)
// binds every id at once.
const IDInBatchSize = 500

// placeholders returns n "?" markers joined by commas, for building IN
// clauses without string-formatting the values themselves.
func placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "?"
	}
	return strings.Join(marks, ",")
}

func encodeMeta(v docvalue.Value) ([]byte, error) {
	b, err := docvalue.EncodeJSON(v)
	if err != nil {
		return nil, errs.Internalf(err, "encode metadata")
	}
	return b, nil
}

func decodeMeta(b []byte) (docvalue.Value, error) {
	v, err := docvalue.ParseJSON(b)
	if err != nil {
		return docvalue.Nil, errs.Internalf(err, "decode metadata")
	}
	return v, nil
}

// notFound maps sql.ErrNoRows to the typed NotFound error every Read must
// return, so command-layer code never matches on database/sql sentinels.
func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFoundf(id, "%s not found", kind)
	}
	return errs.Internalf(err, "read %s", kind)
}

// duplicate maps a unique-index violation to the typed Conflict error.
// The embedded cluster speaks the MySQL wire protocol, so duplicate-key
// violations surface as error code 1062 the way go-sql-driver/mysql
// reports them; this is the one spot in the package that is aware of
// that, by design, so every Create caller gets a uniform errs.Kind.
func duplicate(kind string, err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "1062") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
		return errs.Conflictf(kind, "%s already exists", kind)
	}
	return errs.Internalf(err, "create %s", kind)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.Internalf(err, op)
}

func execOne(ctx context.Context, q Querier, op, query string, args ...any) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Internalf(err, op)
	}
	if n == 0 {
		return errs.NotFoundf("", "%s affected no rows", op)
	}
	return nil
}
