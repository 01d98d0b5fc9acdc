package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// BatchQuery represents a query in a batch.
type BatchQuery struct {
	SQL  string
	Args []any
}

// Batch collects statements that are sent to the server in one round trip.
// The first build error is kept and returned by SendBatch.
type Batch struct {
	queries []BatchQuery
	err     error
}

// Add builds q and queues it.
func (b *Batch) Add(q squirrel.Sqlizer) {
	if b.err != nil {
		return
	}
	sql, args, err := q.ToSql()
	if err != nil {
		b.err = fmt.Errorf("build batch query %d: %w", len(b.queries), err)
		return
	}
	b.queries = append(b.queries, BatchQuery{SQL: sql, Args: args})
}

// Len reports the number of queued statements.
func (b *Batch) Len() int {
	return len(b.queries)
}

// Queries returns the queued statements.
func (b *Batch) Queries() []BatchQuery {
	return b.queries
}

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// SendBatch executes every queued statement in order, inside the current
// transaction when there is one. It stops at the first failing statement and
// returns its index with the error.
func (m *TxManager) SendBatch(ctx context.Context, b *Batch) error {
	if b.err != nil {
		return b.err
	}
	if len(b.queries) == 0 {
		return nil
	}

	var sender batchSender = m.pool
	if tx := m.GetTx(ctx); tx != nil {
		sender = tx.Tx
	}

	batch := &pgx.Batch{}
	for _, q := range b.queries {
		batch.Queue(q.SQL, q.Args...)
	}

	results := sender.SendBatch(ctx, batch)
	defer results.Close()

	for i := range b.queries {
		if _, err := results.Exec(); err != nil {
			return &BatchError{Index: i, Err: err}
		}
	}
	return results.Close()
}

// BatchError reports which statement of a batch failed.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch query %d failed: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
