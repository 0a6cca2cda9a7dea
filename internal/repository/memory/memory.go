// Package memory implements the repository contracts over plain maps.
// The test suites run the real router and services against these; the
// paging and ownership semantics mirror the postgres adapter.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thisisamish/cashcard-api/internal/models"
	repo "github.com/thisisamish/cashcard-api/internal/repository"
)

var (
	_ repo.Cards     = (*Cards)(nil)
	_ repo.Users     = (*Users)(nil)
	_ repo.AuditLogs = (*AuditLogs)(nil)
)

type Cards struct {
	mu     sync.Mutex
	nextID int64
	cards  map[int64]models.CashCard

	// FailWith, when non-nil, is returned by every call. Tests use it to
	// drive the store-failure paths.
	FailWith error
}

func NewCards() *Cards {
	return &Cards{nextID: 1, cards: map[int64]models.CashCard{}}
}

func (s *Cards) Create(_ context.Context, owner string, amount decimal.Decimal) (models.CashCard, error) {
	if s.FailWith != nil {
		return models.CashCard{}, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c := models.CashCard{ID: s.nextID, Amount: amount, Owner: owner, CreatedAt: now, UpdatedAt: now}
	// ids only ever move forward, so a deleted id is never handed out again
	s.nextID++
	s.cards[c.ID] = c
	return c, nil
}

func (s *Cards) GetByIDAndOwner(_ context.Context, id int64, owner string) (models.CashCard, error) {
	if s.FailWith != nil {
		return models.CashCard{}, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok || c.Owner != owner {
		return models.CashCard{}, models.ErrNotFound
	}
	return c, nil
}

func (s *Cards) ListByOwner(_ context.Context, owner string, page models.PageRequest) ([]models.CashCard, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	page = page.Normalize()
	var out []models.CashCard
	for _, c := range s.cards {
		if c.Owner == owner {
			out = append(out, c)
		}
	}
	// Same ordering as the postgres adapter: chosen column, id as the
	// ascending tiebreaker.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch page.Sort {
		case models.SortByID:
			if page.Desc {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		default:
			cmp := a.Amount.Cmp(b.Amount)
			if cmp == 0 {
				return a.ID < b.ID
			}
			if page.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
	})

	start := page.Offset()
	if start >= len(out) {
		return nil, nil
	}
	end := start + page.Size
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *Cards) UpdateAmount(_ context.Context, id int64, owner string, amount decimal.Decimal) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok || c.Owner != owner {
		return models.ErrNotFound
	}
	c.Amount = amount
	c.UpdatedAt = time.Now()
	s.cards[id] = c
	return nil
}

func (s *Cards) Delete(_ context.Context, id int64, owner string) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok || c.Owner != owner {
		return models.ErrNotFound
	}
	delete(s.cards, id)
	return nil
}

type Users struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by username
}

func NewUsers() *Users {
	return &Users{users: map[string]models.User{}}
}

// Seed inserts a user directly, bypassing registration. Tests use it to
// set up principals with specific roles.
func (s *Users) Seed(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.Username] = u
	return u
}

func (s *Users) Create(_ context.Context, username, email, passwordHash, role string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return models.User{}, models.ErrDuplicate
	}
	for _, u := range s.users {
		if u.Email == email {
			return models.User{}, models.ErrDuplicate
		}
	}
	now := time.Now()
	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[username] = u
	return u, nil
}

func (s *Users) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

func (s *Users) GetByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func (s *Users) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type AuditLogs struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func NewAuditLogs() *AuditLogs {
	return &AuditLogs{}
}

func (s *AuditLogs) Create(_ context.Context, l models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now()
	s.entries = append(s.entries, l)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (s *AuditLogs) Entries() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditLog, len(s.entries))
	copy(out, s.entries)
	return out
}
