package repository

import (
	"context"
	"fmt"

	"github.com/alexmendoza/salesboard/internal/db"
	"github.com/alexmendoza/salesboard/internal/ordering"
)

// SQLiteOrderRepo implements ordering.OrderStore on the local SQLite cache.
// Orders are stored one row per (container, position) pair; Persist always
// rewrites the whole container, which keeps it idempotent.
type SQLiteOrderRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteOrderRepo creates a new SQLiteOrderRepo. The unit of work may be
// nil for tx-scoped instances created inside an existing transaction.
func NewSQLiteOrderRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteOrderRepo {
	return &SQLiteOrderRepo{db: conn, uow: uow}
}

var _ ordering.OrderStore = (*SQLiteOrderRepo)(nil)

func (r *SQLiteOrderRepo) Persist(ctx context.Context, containerID string, ids []string) error {
	return persistOrder(ctx, r.db, containerID, ids)
}

func (r *SQLiteOrderRepo) Load(ctx context.Context, containerID string) ([]string, error) {
	return loadOrder(ctx, r.db, containerID)
}

// Move removes id from the source container and inserts it at toIndex in
// the target container inside one transaction, so a failure leaves both
// orders untouched.
func (r *SQLiteOrderRepo) Move(ctx context.Context, fromContainer, toContainer, id string, toIndex int) error {
	if r.uow == nil {
		return r.moveWithin(ctx, r.db, fromContainer, toContainer, id, toIndex)
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return r.moveWithin(ctx, tx, fromContainer, toContainer, id, toIndex)
	})
}

func (r *SQLiteOrderRepo) moveWithin(ctx context.Context, conn db.DBTX, fromContainer, toContainer, id string, toIndex int) error {
	source, err := loadOrder(ctx, conn, fromContainer)
	if err != nil {
		return err
	}
	if err := persistOrder(ctx, conn, fromContainer, ordering.Remove(source, id)); err != nil {
		return err
	}

	target, err := loadOrder(ctx, conn, toContainer)
	if err != nil {
		return err
	}
	if fromContainer == toContainer {
		target = ordering.Remove(target, id)
	}
	return persistOrder(ctx, conn, toContainer, ordering.InsertAt(target, id, toIndex))
}

func persistOrder(ctx context.Context, conn db.DBTX, containerID string, ids []string) error {
	if _, err := conn.ExecContext(ctx,
		`DELETE FROM container_orders WHERE container_id = ?`, containerID); err != nil {
		return fmt.Errorf("clearing container order: %w", err)
	}
	for pos, id := range ids {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO container_orders (container_id, position, item_id) VALUES (?, ?, ?)`,
			containerID, pos, id); err != nil {
			return fmt.Errorf("inserting order row: %w", err)
		}
	}
	return nil
}

func loadOrder(ctx context.Context, conn db.DBTX, containerID string) ([]string, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT item_id FROM container_orders WHERE container_id = ? ORDER BY position`,
		containerID)
	if err != nil {
		return nil, fmt.Errorf("loading container order: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	return ids, nil
}
