// Package repository contains the data access layer over the SQLite index.
package repository

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of database/sql methods the repositories use. Both
// *sql.DB and *sql.Tx satisfy it, so a repository can run standalone or
// inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// timeFormat pads fractional seconds to a fixed width so the stored strings
// compare chronologically. The parse layout accepts shorter fractions too.
const (
	timeFormat = "2006-01-02 15:04:05.000000"
	timeParse  = "2006-01-02 15:04:05.999999"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeParse, s)
	return t
}
