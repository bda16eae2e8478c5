// Package catalog resolves the named entities a ledger row references:
// accounts, categories and sub-categories. Names are stored and compared
// in normalized form; resolution is lookup-or-create within the owner's
// scope.
package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/money-ledger/internal"
	accountDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/category"
)

type Account struct {
	ID        int64           `json:"id"`
	OwnerID   int64           `json:"owner_id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Category struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubCategory struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Normalize produces the canonical stored form of an entity name.
// Comparison and storage both use this form; presentation casing is
// applied separately by DisplayName.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Domain errors
var (
	ErrEmptyName = internal.NewValidationError("entity name must not be empty", internal.ErrCodeEmptyName)

	ErrAccountNotFound     = internal.NewNotFoundError("account not found", internal.ErrCodeAccountNotFound)
	ErrCategoryNotFound    = internal.NewNotFoundError("category not found", internal.ErrCodeCategoryNotFound)
	ErrSubCategoryNotFound = internal.NewNotFoundError("sub-category not found", internal.ErrCodeSubCategoryNotFound)
)

func AccountFromDataModel(a *accountDatamodel.Account) *Account {
	return &Account{
		ID:        a.ID,
		OwnerID:   a.OwnerID,
		Name:      a.Name,
		Type:      a.Type,
		Balance:   a.Balance,
		Currency:  a.Currency,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func CategoryFromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func SubCategoryFromDataModel(sc *categoryDatamodel.SubCategory) *SubCategory {
	return &SubCategory{
		ID:         sc.ID,
		OwnerID:    sc.OwnerID,
		CategoryID: sc.CategoryID,
		Name:       sc.Name,
		IsActive:   sc.IsActive,
		CreatedAt:  sc.CreatedAt,
		UpdatedAt:  sc.UpdatedAt,
	}
}
