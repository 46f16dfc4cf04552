package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finboard/finboard/internal/database"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, snapshot Snapshot) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (Snapshot, error)
	// List returns the newest snapshots first. An empty kind lists every kind.
	List(ctx context.Context, kind string, limit int) ([]Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	db *database.DB
}

func NewRepository(db *database.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, snapshot Snapshot) (uuid.UUID, error) {
	query := r.db.Rebind(`INSERT INTO report_snapshot (
                            id,
                            kind,
                            period_from,
                            period_to,
                            generated_at,
                            payload
						) VALUES (?, ?, ?, ?, ?, ?)`)

	id := snapshot.Id
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, query,
		id.String(),
		snapshot.Kind,
		snapshot.From.UnixMilli(),
		snapshot.To.UnixMilli(),
		snapshot.GeneratedAt.UnixMilli(),
		string(snapshot.Payload),
	)
	if err != nil {
		err := fmt.Errorf("could not store snapshot: %w", err)
		log.Error(err)
		return uuid.Nil, err
	}
	return id, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	query := r.db.Rebind(`SELECT id, kind, period_from, period_to, generated_at, payload
              FROM report_snapshot
              WHERE id = ?`)

	snapshot, err := scanSnapshot(r.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not read snapshot %s: %w", id, err)
		log.Error(err)
		return Snapshot{}, err
	}
	return snapshot, nil
}

func (r *RepositoryImpl) List(ctx context.Context, kind string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.db.Rebind(`SELECT id, kind, period_from, period_to, generated_at, payload
              FROM report_snapshot
              WHERE (? = '' OR kind = ?)
              ORDER BY generated_at DESC, id DESC
              LIMIT ?`)

	rows, err := r.db.QueryContext(ctx, query, kind, kind, limit)
	if err != nil {
		err := fmt.Errorf("could not query snapshots: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0, limit)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM report_snapshot WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		err := fmt.Errorf("could not delete snapshot %s: %w", id, err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check deleted snapshot %s: %w", id, err)
	}
	if affected == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var (
		id          string
		kind        string
		from        int64
		to          int64
		generatedAt int64
		payload     string
	)
	if err := row.Scan(&id, &kind, &from, &to, &generatedAt, &payload); err != nil {
		return Snapshot{}, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("invalid snapshot id %q: %w", id, err)
	}
	return Snapshot{
		Id:          uid,
		Kind:        kind,
		From:        time.UnixMilli(from).UTC(),
		To:          time.UnixMilli(to).UTC(),
		GeneratedAt: time.UnixMilli(generatedAt).UTC(),
		Payload:     []byte(payload),
	}, nil
}
