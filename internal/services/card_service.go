package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/thisisamish/cashcard-api/internal/metrics"
	"github.com/thisisamish/cashcard-api/internal/models"
	repo "github.com/thisisamish/cashcard-api/internal/repository"
	"github.com/thisisamish/cashcard-api/internal/worker"
)

// CardService sits between the handlers and the card store. Every
// read and mutation is scoped to the calling owner inside the store
// query itself, so a card belonging to someone else is
// indistinguishable from a missing one. Mutations leave an audit
// entry behind via the worker pool.
type CardService struct {
	cards repo.Cards
	audit repo.AuditLogs
	pool  *worker.Pool
}

func NewCardService(cards repo.Cards, audit repo.AuditLogs, pool *worker.Pool) *CardService {
	return &CardService{cards: cards, audit: audit, pool: pool}
}

func (s *CardService) Create(ctx context.Context, owner string, amount decimal.Decimal) (models.CashCard, error) {
	card, err := s.cards.Create(ctx, owner, amount)
	if err != nil {
		metrics.CardOpsFailed.Inc()
		return models.CashCard{}, err
	}
	metrics.CardOpsTotal.WithLabelValues("create").Inc()
	s.recordAudit(card.ID, "created", map[string]any{
		"owner":  owner,
		"amount": card.Amount.String(),
	})
	return card, nil
}

func (s *CardService) Get(ctx context.Context, id int64, owner string) (models.CashCard, error) {
	card, err := s.cards.GetByIDAndOwner(ctx, id, owner)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			metrics.CardOpsFailed.Inc()
		}
		return models.CashCard{}, err
	}
	metrics.CardOpsTotal.WithLabelValues("read").Inc()
	return card, nil
}

func (s *CardService) List(ctx context.Context, owner string, page models.PageRequest) ([]models.CashCard, error) {
	cards, err := s.cards.ListByOwner(ctx, owner, page)
	if err != nil {
		metrics.CardOpsFailed.Inc()
		return nil, err
	}
	metrics.CardOpsTotal.WithLabelValues("list").Inc()
	return cards, nil
}

func (s *CardService) Update(ctx context.Context, id int64, owner string, amount decimal.Decimal) error {
	if err := s.cards.UpdateAmount(ctx, id, owner, amount); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			metrics.CardOpsFailed.Inc()
		}
		return err
	}
	metrics.CardOpsTotal.WithLabelValues("update").Inc()
	s.recordAudit(id, "updated", map[string]any{
		"owner":  owner,
		"amount": amount.String(),
	})
	return nil
}

func (s *CardService) Delete(ctx context.Context, id int64, owner string) error {
	if err := s.cards.Delete(ctx, id, owner); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			metrics.CardOpsFailed.Inc()
		}
		return err
	}
	metrics.CardOpsTotal.WithLabelValues("delete").Inc()
	s.recordAudit(id, "deleted", map[string]any{"owner": owner})
	return nil
}

// recordAudit writes the entry off the request path. The request
// context may already be done by the time the job runs, so the write
// uses its own context.
func (s *CardService) recordAudit(id int64, action string, details map[string]any) {
	entityID := strconv.FormatInt(id, 10)
	entry := models.AuditLog{
		EntityType: "cash_card",
		EntityID:   &entityID,
		Action:     action,
		Details:    details,
	}
	s.pool.Submit(func() {
		if err := s.audit.Create(context.Background(), entry); err != nil {
			slog.Warn("audit write failed", "action", action, "entity_id", entityID, "err", err)
		}
	})
}
