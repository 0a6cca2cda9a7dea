package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers ({"amount": 123.45}),
	// not as quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// CashCard is the resource this service exists for. The id is assigned
// by the store on creation and never reused; only the amount is mutable.
// Owner and the timestamps are internal bookkeeping and stay off the wire.
type CashCard struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Owner     string          `json:"-"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

// CardSort names the columns a card listing may be ordered by.
// Keeping this a closed set is what lets the store interpolate the
// column name into SQL.
type CardSort string

const (
	SortByAmount CardSort = "amount"
	SortByID     CardSort = "id"
)

// PageRequest carries pagination for card listings. Zero values are not
// usable directly; handlers normalize them before the store sees them.
type PageRequest struct {
	Page int
	Size int
	Sort CardSort
	Desc bool
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// maxOffset bounds Page*Size so a pathological page number cannot
	// overflow Offset into a negative value.
	maxOffset = math.MaxInt32
)

// Normalize clamps the page request to safe bounds and fills defaults:
// page >= 0 with the row offset held within int32 range, 1 <= size <=
// MaxPageSize, sort limited to the known columns.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Page > maxOffset/p.Size {
		p.Page = maxOffset / p.Size
	}
	switch p.Sort {
	case SortByAmount, SortByID:
	default:
		p.Sort = SortByAmount
	}
	return p
}

// Offset is the row offset corresponding to the page number.
func (p PageRequest) Offset() int { return p.Page * p.Size }
