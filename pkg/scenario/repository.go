package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/runwayclock/runwayclock/pkg/runway"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Store writes the scenario and all of its line items atomically.
	Store(ctx context.Context, s Scenario) (Scenario, error)
	FindById(ctx context.Context, id string) (Scenario, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// Store inserts the scenario row and its expense/income rows in a single
// transaction, so a failure mid-way never leaves a scenario without its items.
func (r *RepositoryImpl) Store(ctx context.Context, s Scenario) (Scenario, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return Scenario{}, err
	}
	defer tx.Rollback(ctx)

	s.Id = uuid.NewString()

	query := `INSERT INTO scenarios (id, owner_uid, name, currency, starting_cash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.Exec(ctx, query, s.Id, s.OwnerUid, s.Name, s.Currency, s.StartingCash, s.CreatedAt, s.UpdatedAt); err != nil {
		err := fmt.Errorf("could not store scenario: %w", err)
		log.Error(err)
		return Scenario{}, err
	}

	if err := storeItems(ctx, tx, "scenario_expenses", s.Id, s.Expenses); err != nil {
		return Scenario{}, err
	}
	if err := storeItems(ctx, tx, "scenario_income", s.Id, s.Income); err != nil {
		return Scenario{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		err := fmt.Errorf("could not commit scenario: %w", err)
		log.Error(err)
		return Scenario{}, err
	}

	return s, nil
}

func storeItems(ctx context.Context, tx pgx.Tx, table string, scenarioId string, items []runway.Item) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, scenario_id, name, amount_monthly, position) VALUES ($1, $2, $3, $4, $5)`, table)
	for position, item := range items {
		if _, err := tx.Exec(ctx, query, uuid.NewString(), scenarioId, item.Name, item.AmountMonthly, position); err != nil {
			err := fmt.Errorf("could not store %s item: %w", table, err)
			log.Error(err)
			return err
		}
	}
	return nil
}

func (r *RepositoryImpl) FindById(ctx context.Context, id string) (Scenario, error) {
	query := `SELECT id, owner_uid, name, currency, starting_cash, created_at, updated_at
		FROM scenarios WHERE id = $1`

	var s Scenario
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.Id,
		&s.OwnerUid,
		&s.Name,
		&s.Currency,
		&s.StartingCash,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Scenario{}, ErrScenarioNotFound
		}
		err := fmt.Errorf("failed when trying to find scenario: %w", err)
		log.Error(err)
		return Scenario{}, err
	}

	if s.Expenses, err = r.findItems(ctx, "scenario_expenses", id); err != nil {
		return Scenario{}, err
	}
	if s.Income, err = r.findItems(ctx, "scenario_income", id); err != nil {
		return Scenario{}, err
	}

	return s, nil
}

func (r *RepositoryImpl) findItems(ctx context.Context, table string, scenarioId string) ([]runway.Item, error) {
	query := fmt.Sprintf(`SELECT name, amount_monthly FROM %s WHERE scenario_id = $1 ORDER BY position`, table)
	rows, err := r.db.Query(ctx, query, scenarioId)
	if err != nil {
		err := fmt.Errorf("could not query %s: %w", table, err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var items []runway.Item
	for rows.Next() {
		var item runway.Item
		if err := rows.Scan(&item.Name, &item.AmountMonthly); err != nil {
			err := fmt.Errorf("could not scan %s item: %w", table, err)
			log.Error(err)
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return items, nil
}
