package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-resume/internal/metrics"
)

var _ metrics.Store = (*DB)(nil)

// MarkClientSeen counts clientID as a new user unless it was seen within
// metrics.SeenClientTTL. The seen-marker and users_total move together in one
// transaction.
func (db *DB) MarkClientSeen(ctx context.Context, clientID string) (bool, error) {
	now := time.Now().UTC()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The conditional upsert only touches a row that is new or expired.
	tag, err := tx.Exec(ctx,
		`INSERT INTO metrics_seen_clients (client_id, expires_at)
		 VALUES ($1, $2)
		 ON CONFLICT (client_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
		 WHERE metrics_seen_clients.expires_at <= $3`,
		clientID, now.Add(metrics.SeenClientTTL), now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark client seen: %w", err)
	}

	counted := tag.RowsAffected() == 1
	if counted {
		if err := incrementCounter(ctx, tx, metrics.CounterUsers); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit client mark: %w", err)
	}
	return counted, nil
}

// IncrementPDFs adds one to pdfs_total.
func (db *DB) IncrementPDFs(ctx context.Context) error {
	return incrementCounter(ctx, db.pool, metrics.CounterPDFs)
}

// Totals reads both counters concurrently. Missing counters read as zero.
func (db *DB) Totals(ctx context.Context) (metrics.Totals, error) {
	var totals metrics.Totals
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := db.counter(gctx, metrics.CounterUsers)
		totals.UsersTotal = v
		return err
	})
	g.Go(func() error {
		v, err := db.counter(gctx, metrics.CounterPDFs)
		totals.PDFsTotal = v
		return err
	})
	if err := g.Wait(); err != nil {
		return metrics.Totals{}, err
	}
	return totals, nil
}

func (db *DB) counter(ctx context.Context, name string) (int64, error) {
	var value int64
	err := db.pool.QueryRow(ctx,
		`SELECT value FROM metrics_counters WHERE name = $1`, name,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	return value, nil
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func incrementCounter(ctx context.Context, q execer, name string) error {
	_, err := q.Exec(ctx,
		`INSERT INTO metrics_counters (name, value) VALUES ($1, 1)
		 ON CONFLICT (name) DO UPDATE SET value = metrics_counters.value + 1`,
		name,
	)
	if err != nil {
		return fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	return nil
}
