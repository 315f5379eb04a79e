package clock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Upsert stores the clock for its owner. In single capacity mode the
	// existing row is updated in place and keeps its id.
	Upsert(ctx context.Context, c Clock) (Clock, error)
	FindById(ctx context.Context, id string) (Clock, error)
	FindByOwner(ctx context.Context, ownerUid string) (Clock, error)
	ListByOwner(ctx context.Context, ownerUid string) ([]Clock, error)
	// Reset clears the runway end date and city of the owner's clock,
	// keeping the row. Returns false when no row matched.
	Reset(ctx context.Context, id string, ownerUid string, now time.Time) (bool, error)
	Delete(ctx context.Context, id string, ownerUid string) (bool, error)
}

type RepositoryImpl struct {
	db       *pgxpool.Pool
	capacity Capacity
}

func NewRepository(db *pgxpool.Pool, capacity Capacity) *RepositoryImpl {
	return &RepositoryImpl{db: db, capacity: capacity}
}

// upsertQuery inserts a fresh clock or, when the owner already has one,
// updates it in place. Keying on the owner_uid unique index makes this a
// single atomic statement: two concurrent saves for the same owner can never
// both insert. RETURNING reports the surviving row's id and created_at.
const upsertQuery = `INSERT INTO clocks (id, owner_uid, name, city, runway_end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_uid) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			runway_end_date = EXCLUDED.runway_end_date,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

const insertQuery = `INSERT INTO clocks (id, owner_uid, name, city, runway_end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

func (r *RepositoryImpl) Upsert(ctx context.Context, c Clock) (Clock, error) {
	query := upsertQuery
	if r.capacity == CapacityMultiple {
		query = insertQuery
	}

	stored, err := r.store(ctx, query, c)
	if r.capacity == CapacityMultiple && isUniqueViolation(err) {
		// The owner_uid unique index is still in place even though the
		// repository runs in multiple capacity mode. Recover by updating the
		// owner's existing row instead of surfacing the conflict.
		log.Warnf("unique index present in multiple capacity mode, falling back to upsert for owner %s", c.OwnerUid)
		return r.store(ctx, upsertQuery, c)
	}
	return stored, err
}

func (r *RepositoryImpl) store(ctx context.Context, query string, c Clock) (Clock, error) {
	var cityParam any
	if c.City != "" {
		cityParam = c.City
	}

	err := r.db.QueryRow(ctx, query,
		uuid.NewString(),
		c.OwnerUid,
		c.Name,
		cityParam,
		c.RunwayEndDate,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.Id, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Clock{}, err
		}
		err := fmt.Errorf("could not store clock: %w", err)
		log.Error(err)
		return Clock{}, err
	}

	return c, nil
}

func (r *RepositoryImpl) FindById(ctx context.Context, id string) (Clock, error) {
	query := `SELECT id, owner_uid, name, city, runway_end_date, created_at, updated_at
		FROM clocks WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *RepositoryImpl) FindByOwner(ctx context.Context, ownerUid string) (Clock, error) {
	query := `SELECT id, owner_uid, name, city, runway_end_date, created_at, updated_at
		FROM clocks WHERE owner_uid = $1 ORDER BY updated_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, query, ownerUid))
}

func (r *RepositoryImpl) ListByOwner(ctx context.Context, ownerUid string) ([]Clock, error) {
	query := `SELECT id, owner_uid, name, city, runway_end_date, created_at, updated_at
		FROM clocks WHERE owner_uid = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, ownerUid)
	if err != nil {
		err := fmt.Errorf("could not query clocks: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var clocks []Clock
	for rows.Next() {
		c, err := scanClock(rows)
		if err != nil {
			err := fmt.Errorf("could not scan clock: %w", err)
			log.Error(err)
			return nil, err
		}
		clocks = append(clocks, c)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return clocks, nil
}

func (r *RepositoryImpl) Reset(ctx context.Context, id string, ownerUid string, now time.Time) (bool, error) {
	query := `UPDATE clocks SET runway_end_date = NULL, city = NULL, updated_at = $3
		WHERE id = $1 AND owner_uid = $2`
	result, err := r.db.Exec(ctx, query, id, ownerUid, now)
	if err != nil {
		err := fmt.Errorf("could not reset clock: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string, ownerUid string) (bool, error) {
	query := `DELETE FROM clocks WHERE id = $1 AND owner_uid = $2`
	result, err := r.db.Exec(ctx, query, id, ownerUid)
	if err != nil {
		err := fmt.Errorf("could not delete clock: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RepositoryImpl) scanOne(row pgx.Row) (Clock, error) {
	c, err := scanClock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Clock{}, ErrClockNotFound
		}
		err := fmt.Errorf("failed when trying to find clock: %w", err)
		log.Error(err)
		return Clock{}, err
	}
	return c, nil
}

func scanClock(row rowScanner) (Clock, error) {
	var c Clock
	var city *string
	if err := row.Scan(
		&c.Id,
		&c.OwnerUid,
		&c.Name,
		&city,
		&c.RunwayEndDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return Clock{}, err
	}
	if city != nil {
		c.City = *city
	}
	return c, nil
}

// isUniqueViolation recognizes the storage engine's uniqueness constraint
// signal (SQLSTATE 23505) so a concurrent-insert race can be recovered
// instead of surfaced.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
