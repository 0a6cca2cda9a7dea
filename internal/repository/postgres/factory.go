// Package postgres implements the repository contracts over a pgx
// connection pool. Driver errors are translated into the models
// sentinels at this boundary.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/thisisamish/cashcard-api/internal/repository"
)

type Repositories struct {
	Cards     repo.Cards
	Users     repo.Users
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Cards:     &cardsRepo{pool},
		Users:     &usersRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}
