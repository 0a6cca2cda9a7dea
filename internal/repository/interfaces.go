// Package repository declares the store contracts the rest of the
// service programs against. Implementations live in subpackages; the
// HTTP and service layers never see a driver type.
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/thisisamish/cashcard-api/internal/models"
)

// Cards is the cash-card store. Every read and mutation is scoped to an
// owner: a card that exists under a different owner behaves exactly like
// a card that does not exist (models.ErrNotFound).
type Cards interface {
	// Create persists a card without an id and returns it with the
	// store-assigned one. The created row is visible to an immediate
	// read on the same pool.
	Create(ctx context.Context, owner string, amount decimal.Decimal) (models.CashCard, error)
	GetByIDAndOwner(ctx context.Context, id int64, owner string) (models.CashCard, error)
	ListByOwner(ctx context.Context, owner string, page models.PageRequest) ([]models.CashCard, error)
	UpdateAmount(ctx context.Context, id int64, owner string, amount decimal.Decimal) error
	Delete(ctx context.Context, id int64, owner string) error
}

type Users interface {
	Create(ctx context.Context, username, email, passwordHash, role string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
