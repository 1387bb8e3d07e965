package writer

import (
	"context"
	"database/sql"
	"fmt"

	"persist-result/internal/config"
	"persist-result/internal/model"
)

type Logger interface {
	Printf(string, ...any)
}

// Destination is the table and integer column that receive the result.
type Destination struct {
	Table  string
	Column string
}

func DefaultDestination() Destination {
	return Destination{Table: config.DefaultTable, Column: config.DefaultColumn}
}

func (d Destination) validate() error {
	if !config.ValidIdentifier(d.Table) {
		return fmt.Errorf("invalid table name %q", d.Table)
	}
	if !config.ValidIdentifier(d.Column) {
		return fmt.Errorf("invalid column name %q", d.Column)
	}
	return nil
}

func (d Destination) insertSQL() string {
	return `INSERT INTO ` + d.Table + ` (` + d.Column + `) VALUES (@RESULT)`
}

/* =========================
   SINGLE ROW INSERT
========================= */

// Persist inserts r as one row and commits. Any failure rolls back.
func Persist(
	ctx context.Context,
	db *sql.DB,
	dest Destination,
	r model.ModelResult,
	l Logger,
) error {
	if err := dest.validate(); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, dest.insertSQL(), sql.Named("RESULT", r.Result))
	if err != nil {
		l.Printf("[PERSIST][%s] insert failed run=%s value=%d: %v", dest.Table, r.RunID, r.Result, err)
		return fmt.Errorf("insert into %s: %w", dest.Table, err)
	}

	if n, err := res.RowsAffected(); err == nil && n != 1 {
		l.Printf("[PERSIST][%s] unexpected rows affected=%d run=%s", dest.Table, n, r.RunID)
		return fmt.Errorf("insert into %s: %d rows affected, want 1", dest.Table, n)
	}

	if err := tx.Commit(); err != nil {
		l.Printf("[PERSIST][%s] commit failed run=%s: %v", dest.Table, r.RunID, err)
		return fmt.Errorf("commit: %w", err)
	}

	l.Printf("[PERSIST][%s] committed run=%s %s=%d", dest.Table, r.RunID, dest.Column, r.Result)
	return nil
}
