package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/thisisamish/cashcard-api/internal/api/httpx"
	"github.com/thisisamish/cashcard-api/internal/api/validate"
	"github.com/thisisamish/cashcard-api/internal/middleware"
	"github.com/thisisamish/cashcard-api/internal/models"
	"github.com/thisisamish/cashcard-api/internal/services"
)

type CardHandler struct {
	svc *services.CardService
}

func NewCardHandler(svc *services.CardService) *CardHandler {
	return &CardHandler{svc: svc}
}

// cardRequest is the body for create and update. The store assigns
// ids, so a client-supplied id field is ignored. Amount is a pointer
// so that a missing field and an explicit zero stay distinguishable.
type cardRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required,gte=0"`
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := principal(w, r)
	if !ok {
		return
	}
	amount, ok := decodeCardBody(w, r)
	if !ok {
		return
	}

	card, err := h.svc.Create(r.Context(), owner, amount)
	if err != nil {
		writeCardError(w, r, err)
		return
	}
	httpx.Created(w, "/cashcards/"+strconv.FormatInt(card.ID, 10))
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	card, err := h.svc.Get(r.Context(), id, owner)
	if err != nil {
		writeCardError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, card)
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := principal(w, r)
	if !ok {
		return
	}

	cards, err := h.svc.List(r.Context(), owner, parsePage(r))
	if err != nil {
		writeCardError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.CashCard{}
	}
	httpx.WriteJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	amount, ok := decodeCardBody(w, r)
	if !ok {
		return
	}

	if err := h.svc.Update(r.Context(), id, owner, amount); err != nil {
		writeCardError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id, owner); err != nil {
		writeCardError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// principal pulls the authenticated username out of the request
// context. The auth middleware guarantees it is there on protected
// routes; the check guards against a route wired up without it.
func principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := middleware.Username(r.Context())
	if !ok || owner == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return "", false
	}
	return owner, true
}

func cardID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "card id must be an integer", nil)
		return 0, false
	}
	return id, true
}

func decodeCardBody(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed json body", nil)
		return decimal.Decimal{}, false
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return decimal.Decimal{}, false
	}
	return *req.Amount, true
}

func writeValidationError(w http.ResponseWriter, err error) {
	var fields validate.Errs
	if errors.As(err, &fields) {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "request body failed validation", fields)
		return
	}
	httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
}

func writeCardError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "cash card not found", nil)
		return
	}
	slog.Error("card operation failed", "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
	httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
}

// parsePage reads page, size and sort query parameters. sort takes the
// form "field" or "field,desc". Out-of-range values fall back to the
// defaults instead of failing the request.
func parsePage(r *http.Request) models.PageRequest {
	q := r.URL.Query()
	var page models.PageRequest
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Page = n
		}
	}
	if v := q.Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Size = n
		}
	}
	if v := q.Get("sort"); v != "" {
		field, dir, _ := strings.Cut(v, ",")
		page.Sort = models.CardSort(strings.ToLower(strings.TrimSpace(field)))
		page.Desc = strings.EqualFold(strings.TrimSpace(dir), "desc")
	}
	return page.Normalize()
}
