package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onghub/internal/core/tx"
	"onghub/pkg/logger"
)

var tracer = otel.Tracer("onghub/tx")

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// TxOptions configures a transaction.
type TxOptions struct {
	Isolation pgx.TxIsoLevel
	ReadOnly  bool

	// StatementTimeout is applied with SET LOCAL; zero leaves the server default.
	StatementTimeout time.Duration

	// Savepoint makes a nested call roll back independently of the outer
	// transaction. Without it nested calls simply join.
	Savepoint bool
}

// DefaultTxOptions is read committed, read-write, with a 30s statement timeout.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		Isolation:        pgx.ReadCommitted,
		StatementTimeout: 30 * time.Second,
	}
}

// SnapshotTxOptions is a read-only repeatable read transaction: every
// statement sees the state as of the first one. Used to load an organization
// graph across several tables.
func SnapshotTxOptions() TxOptions {
	opts := DefaultTxOptions()
	opts.Isolation = pgx.RepeatableRead
	opts.ReadOnly = true
	return opts
}

func (o TxOptions) pgxOptions() pgx.TxOptions {
	mode := pgx.ReadWrite
	if o.ReadOnly {
		mode = pgx.ReadOnly
	}
	return pgx.TxOptions{IsoLevel: o.Isolation, AccessMode: mode}
}

// TxManager runs work in pgx transactions carried through the context.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager over pool.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool}
}

// Ping checks that the database answers. Used by readiness probes.
func (m *TxManager) Ping(ctx context.Context) error {
	return m.pool.Ping(ctx)
}

type txKey struct{}

// Tx is the transaction stored in the context. depth counts savepoints
// opened on top of it.
type Tx struct {
	pgx.Tx
	depth int
}

// RunInTransaction runs fn with DefaultTxOptions. A transaction already in
// ctx is joined.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransactionWithOptions(ctx, DefaultTxOptions(), fn)
}

// ReadOnly runs fn in a snapshot transaction, or joins the one in ctx.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransactionWithOptions(ctx, SnapshotTxOptions(), fn)
}

// RunInTransactionWithOptions runs fn in a transaction configured by opts.
// Options other than Savepoint are ignored when joining an outer transaction.
func (m *TxManager) RunInTransactionWithOptions(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	existing := m.GetTx(ctx)

	ctx, span := tracer.Start(ctx, "db.transaction", trace.WithAttributes(
		attribute.String("db.tx.isolation", string(opts.Isolation)),
		attribute.Bool("db.tx.read_only", opts.ReadOnly),
		attribute.Bool("db.tx.nested", existing != nil),
	))
	defer span.End()

	var err error
	switch {
	case existing == nil:
		err = m.begin(ctx, opts, fn)
	case opts.Savepoint:
		err = m.savepoint(ctx, existing, fn)
	default:
		err = fn(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction rolled back")
	}
	return err
}

func (m *TxManager) begin(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	ptx, err := m.pool.BeginTx(ctx, opts.pgxOptions())
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if opts.StatementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", opts.StatementTimeout.Milliseconds())
		if _, err := ptx.Exec(ctx, stmt); err != nil {
			rollback(ctx, ptx, err)
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, &Tx{Tx: ptx})); err != nil {
		rollback(ctx, ptx, err)
		return err
	}

	if err := ptx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rollback uses a fresh context so a cancelled request still releases the
// connection cleanly.
func rollback(ctx context.Context, ptx pgx.Tx, cause error) {
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := ptx.Rollback(rbCtx); err != nil {
		logger.Error(ctx, "rollback failed", "error", err, "original_error", cause)
	}
}

func (m *TxManager) savepoint(ctx context.Context, outer *Tx, fn func(ctx context.Context) error) error {
	inner := &Tx{Tx: outer.Tx, depth: outer.depth + 1}
	name := fmt.Sprintf("sp_%d", inner.depth)

	if _, err := outer.Exec(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("create savepoint: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, inner)); err != nil {
		if _, rbErr := outer.Exec(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			logger.Error(ctx, "rollback to savepoint failed", "savepoint", name, "error", rbErr)
		}
		return err
	}

	if _, err := outer.Exec(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

// GetTx returns the transaction carried by ctx, or nil.
func (m *TxManager) GetTx(ctx context.Context) *Tx {
	if t, ok := ctx.Value(txKey{}).(*Tx); ok {
		return t
	}
	return nil
}

// Querier is satisfied by both a pool and a transaction, so repositories work
// inside and outside RunInTransaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the transaction in ctx, or the pool.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if t := m.GetTx(ctx); t != nil {
		return t.Tx
	}
	return m.pool
}
