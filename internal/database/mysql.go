package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"fondeo/impl/ledger"
	"fondeo/internal/config"
	"fondeo/lib/sl"
)

// executor is satisfied by both *sql.DB and *sql.Tx, so every query
// method works unchanged inside a transaction scope.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type MySql struct {
	db  *sql.DB
	ex  executor
	log *slog.Logger
}

func NewSQLClient(conf *config.Config, log *slog.Logger) (*MySql, error) {
	connectionURI := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		conf.MySql.User, conf.MySql.Password, conf.MySql.Host, conf.MySql.Port, conf.MySql.Database)
	db, err := sql.Open("mysql", connectionURI)
	if err != nil {
		return nil, fmt.Errorf("sql connect: %w", err)
	}

	// wait for the database to come up
	for i := 0; i < 3; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i == 2 {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		time.Sleep(10 * time.Second)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	s := &MySql{db: db, log: log.With(sl.Module("database"))}
	s.ex = db

	if err = s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection; used by tests.
func NewWithDB(db *sql.DB, log *slog.Logger) *MySql {
	return &MySql{db: db, ex: db, log: log.With(sl.Module("database"))}
}

func (s *MySql) Close() {
	_ = s.db.Close()
}

func (s *MySql) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// InTx runs fn against a transaction-scoped copy of the store. A
// nested call joins the already-open transaction.
func (s *MySql) InTx(ctx context.Context, fn func(ledger.Store) error) error {
	if _, nested := s.ex.(*sql.Tx); nested {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	scoped := &MySql{db: s.db, ex: tx, log: s.log}
	if err = fn(scoped); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
