package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thisisamish/cashcard-api/internal/models"
	"github.com/thisisamish/cashcard-api/internal/repository/memory"
	"github.com/thisisamish/cashcard-api/internal/worker"
)

func newCardFixture() (*CardService, *memory.Cards, *memory.AuditLogs, *worker.Pool) {
	cards := memory.NewCards()
	audit := memory.NewAuditLogs()
	pool := worker.NewPool(1)
	return NewCardService(cards, audit, pool), cards, audit, pool
}

func amt(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	svc, _, _, pool := newCardFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, "sarah1", amt(t, "123.45"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, "sarah1", amt(t, "1.00"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pool.Stop()

	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", first.ID, second.ID)
	}
	if !first.Amount.Equal(amt(t, "123.45")) {
		t.Fatalf("amount = %s", first.Amount)
	}
}

func TestGetScopesToOwner(t *testing.T) {
	svc, _, _, pool := newCardFixture()
	ctx := context.Background()

	card, err := svc.Create(ctx, "sarah1", amt(t, "123.45"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pool.Stop()

	if _, err := svc.Get(ctx, card.ID, "sarah1"); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.Get(ctx, card.ID, "hank"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("foreign read err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, 9999, "sarah1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestUpdateRewritesAmount(t *testing.T) {
	svc, _, _, pool := newCardFixture()
	ctx := context.Background()

	card, err := svc.Create(ctx, "sarah1", amt(t, "123.45"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Update(ctx, card.ID, "sarah1", amt(t, "19.99")); err != nil {
		t.Fatalf("update: %v", err)
	}
	pool.Stop()

	got, err := svc.Get(ctx, card.ID, "sarah1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Amount.Equal(amt(t, "19.99")) {
		t.Fatalf("amount = %s, want 19.99", got.Amount)
	}
}

func TestUpdateForeignCardIsNotFound(t *testing.T) {
	svc, _, _, pool := newCardFixture()
	ctx := context.Background()

	card, err := svc.Create(ctx, "sarah1", amt(t, "123.45"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	err = svc.Update(ctx, card.ID, "hank", amt(t, "0.01"))
	pool.Stop()

	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRemovesCard(t *testing.T) {
	svc, _, _, pool := newCardFixture()
	ctx := context.Background()

	card, err := svc.Create(ctx, "sarah1", amt(t, "123.45"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, card.ID, "sarah1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	pool.Stop()

	if _, err := svc.Get(ctx, card.ID, "sarah1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("read after delete err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, card.ID, "sarah1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListReturnsOnlyOwnersCards(t *testing.T) {
	svc, _, _, pool := newCardFixture()
	ctx := context.Background()

	for _, c := range []struct {
		owner string
		amt   string
	}{
		{"sarah1", "123.45"},
		{"hank", "250.00"},
		{"sarah1", "1.00"},
	} {
		if _, err := svc.Create(ctx, c.owner, amt(t, c.amt)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	pool.Stop()

	cards, err := svc.List(ctx, "sarah1", models.PageRequest{}.Normalize())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("len = %d, want 2", len(cards))
	}
	// Default sort is amount ascending.
	if !cards[0].Amount.Equal(amt(t, "1.00")) || !cards[1].Amount.Equal(amt(t, "123.45")) {
		t.Fatalf("order = %s, %s", cards[0].Amount, cards[1].Amount)
	}
}

func TestMutationsLeaveAuditTrail(t *testing.T) {
	svc, _, audit, pool := newCardFixture()
	ctx := context.Background()

	card, err := svc.Create(ctx, "sarah1", amt(t, "123.45"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Update(ctx, card.ID, "sarah1", amt(t, "19.99")); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Delete(ctx, card.ID, "sarah1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	pool.Stop()

	entries := audit.Entries()
	if len(entries) != 3 {
		t.Fatalf("audit entries = %d, want 3", len(entries))
	}
	for i, want := range []string{"created", "updated", "deleted"} {
		if entries[i].Action != want {
			t.Errorf("entry %d action = %q, want %q", i, entries[i].Action, want)
		}
		if entries[i].EntityType != "cash_card" {
			t.Errorf("entry %d type = %q", i, entries[i].EntityType)
		}
		if entries[i].EntityID == nil || *entries[i].EntityID != "1" {
			t.Errorf("entry %d entity id = %v", i, entries[i].EntityID)
		}
	}
}

func TestReadsSkipAuditTrail(t *testing.T) {
	svc, _, audit, pool := newCardFixture()
	ctx := context.Background()

	card, err := svc.Create(ctx, "sarah1", amt(t, "123.45"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Get(ctx, card.ID, "sarah1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := svc.List(ctx, "sarah1", models.PageRequest{}.Normalize()); err != nil {
		t.Fatalf("list: %v", err)
	}
	pool.Stop()

	if got := len(audit.Entries()); got != 1 {
		t.Fatalf("audit entries = %d, want 1 (create only)", got)
	}
}

func TestStoreFailureSurfaces(t *testing.T) {
	svc, cards, _, pool := newCardFixture()
	defer pool.Stop()
	boom := errors.New("boom")
	cards.FailWith = boom

	if _, err := svc.Create(context.Background(), "sarah1", amt(t, "1.00")); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}
