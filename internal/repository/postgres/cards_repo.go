package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/thisisamish/cashcard-api/internal/models"
)

type cardsRepo struct{ pool *pgxpool.Pool }

func (r *cardsRepo) Create(ctx context.Context, owner string, amount decimal.Decimal) (models.CashCard, error) {
	var c models.CashCard
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cash_cards(amount, owner)
		 VALUES($1, $2)
		 RETURNING id, amount, owner, created_at, updated_at`,
		amount, owner,
	).Scan(&c.ID, &c.Amount, &c.Owner, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.CashCard{}, fmt.Errorf("create card: %w", err)
	}
	return c, nil
}

func (r *cardsRepo) GetByIDAndOwner(ctx context.Context, id int64, owner string) (models.CashCard, error) {
	var c models.CashCard
	err := r.pool.QueryRow(ctx,
		`SELECT id, amount, owner, created_at, updated_at
		   FROM cash_cards
		  WHERE id=$1 AND owner=$2`,
		id, owner,
	).Scan(&c.ID, &c.Amount, &c.Owner, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CashCard{}, models.ErrNotFound
	}
	if err != nil {
		return models.CashCard{}, fmt.Errorf("get card %d: %w", id, err)
	}
	return c, nil
}

// orderBy builds the ORDER BY clause for a normalized page request.
// page.Sort is a closed set after Normalize, so interpolating the
// column name is safe. id breaks ties for a stable page order.
func orderBy(page models.PageRequest) string {
	dir := "ASC"
	if page.Desc {
		dir = "DESC"
	}
	order := string(page.Sort) + " " + dir
	if page.Sort != models.SortByID {
		order += ", id ASC"
	}
	return order
}

func (r *cardsRepo) ListByOwner(ctx context.Context, owner string, page models.PageRequest) ([]models.CashCard, error) {
	page = page.Normalize()

	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, amount, owner, created_at, updated_at
		   FROM cash_cards
		  WHERE owner=$1
		  ORDER BY %s
		  LIMIT $2 OFFSET $3`, orderBy(page)),
		owner, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var out []models.CashCard
	for rows.Next() {
		var c models.CashCard
		if err := rows.Scan(&c.ID, &c.Amount, &c.Owner, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *cardsRepo) UpdateAmount(ctx context.Context, id int64, owner string, amount decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cash_cards SET amount=$3, updated_at=now() WHERE id=$1 AND owner=$2`,
		id, owner, amount,
	)
	if err != nil {
		return fmt.Errorf("update card %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *cardsRepo) Delete(ctx context.Context, id int64, owner string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cash_cards WHERE id=$1 AND owner=$2`,
		id, owner,
	)
	if err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
