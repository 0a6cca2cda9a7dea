package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/thisisamish/cashcard-api/internal/auth"
	"github.com/thisisamish/cashcard-api/internal/models"
	repo "github.com/thisisamish/cashcard-api/internal/repository"
	"github.com/thisisamish/cashcard-api/internal/worker"
)

// UserService handles registration and credential checks. New accounts
// always get the owner role; admins are promoted out of band.
type UserService struct {
	users repo.Users
	audit repo.AuditLogs
	pool  *worker.Pool
}

func NewUserService(users repo.Users, audit repo.AuditLogs, pool *worker.Pool) *UserService {
	return &UserService{users: users, audit: audit, pool: pool}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u, err := s.users.Create(ctx, strings.TrimSpace(username), strings.TrimSpace(email), hash, models.RoleOwner)
	if err != nil {
		return models.User{}, err
	}
	s.recordAudit(u.ID, "registered", map[string]any{"username": u.Username})
	return u, nil
}

// Login returns ErrInvalidCredentials for an unknown username and for
// a wrong password alike, so the response does not say which it was.
func (s *UserService) Login(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return models.User{}, models.ErrInvalidCredentials
	}
	return u, nil
}

// Get looks a user up by username, for refresh flows that need the
// current role rather than the one baked into an old token.
func (s *UserService) Get(ctx context.Context, username string) (models.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) recordAudit(id, action string, details map[string]any) {
	entry := models.AuditLog{
		EntityType: "user",
		EntityID:   &id,
		Action:     action,
		Details:    details,
	}
	s.pool.Submit(func() {
		if err := s.audit.Create(context.Background(), entry); err != nil {
			slog.Warn("audit write failed", "action", action, "entity_id", id, "err", err)
		}
	})
}
