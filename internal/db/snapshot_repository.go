package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dre1stein/xiuxian-mud/internal/game/battle"
)

// ErrSnapshotNotFound is returned by Load for unknown session ids.
var ErrSnapshotNotFound = errors.New("battle snapshot not found")

// SnapshotRepository stores battle session checkpoints in battle_snapshots.
// It satisfies battle.SnapshotStore.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

var _ battle.SnapshotStore = (*SnapshotRepository)(nil)

// Save inserts or updates the checkpoint of one session.
func (r *SnapshotRepository) Save(ctx context.Context, snap battle.Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", snap.ID, err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO battle_snapshots (session_id, kind, status, round, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (session_id) DO UPDATE SET
		   status     = EXCLUDED.status,
		   round      = EXCLUDED.round,
		   state      = EXCLUDED.state,
		   updated_at = EXCLUDED.updated_at`,
		snap.ID, snap.Kind.String(), snap.Status.String(), snap.Round, state, snap.CreatedAt, snap.LastActive)
	if err != nil {
		return fmt.Errorf("upsert battle_snapshots %s: %w", snap.ID, err)
	}
	return nil
}

// Load returns the checkpoint of one session.
func (r *SnapshotRepository) Load(ctx context.Context, id string) (battle.Snapshot, error) {
	var state []byte
	err := r.pool.QueryRow(ctx,
		`SELECT state FROM battle_snapshots WHERE session_id = $1`, id,
	).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return battle.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return battle.Snapshot{}, fmt.Errorf("query battle_snapshots %s: %w", id, err)
	}
	return decodeSnapshot(id, state)
}

// List returns every stored checkpoint ordered by session id.
func (r *SnapshotRepository) List(ctx context.Context) ([]battle.Snapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT session_id, state FROM battle_snapshots ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("query battle_snapshots: %w", err)
	}
	defer rows.Close()

	var result []battle.Snapshot
	for rows.Next() {
		var (
			id    string
			state []byte
		)
		if err := rows.Scan(&id, &state); err != nil {
			return nil, fmt.Errorf("scan battle_snapshots: %w", err)
		}
		snap, err := decodeSnapshot(id, state)
		if err != nil {
			return nil, err
		}
		result = append(result, snap)
	}
	return result, rows.Err()
}

// Delete removes the checkpoint of one session. Unknown ids are not an error.
func (r *SnapshotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM battle_snapshots WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("delete battle_snapshots %s: %w", id, err)
	}
	return nil
}

// CountByStatus returns how many checkpoints are in each status.
func (r *SnapshotRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM battle_snapshots GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count battle_snapshots: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan battle_snapshots count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func decodeSnapshot(id string, state []byte) (battle.Snapshot, error) {
	var snap battle.Snapshot
	if err := json.Unmarshal(state, &snap); err != nil {
		return battle.Snapshot{}, fmt.Errorf("decoding snapshot %s: %w", id, err)
	}
	return snap, nil
}
