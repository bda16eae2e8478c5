package catalog

import (
	"github.com/shopspring/decimal"
)

// ResolveDTO is the request payload for the resolve-or-create
// endpoints. CategoryID is required only when resolving a sub-category.
type ResolveDTO struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id,omitempty"`
}

// Responses carry the entity id plus the display-cased name; the
// normalized form stays internal to storage and comparison.
type AccountResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SubCategoryResponse struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

type ResolveResponse struct {
	Created bool        `json:"created"`
	Entity  interface{} `json:"entity"`
}

func (a *Account) ToResponse() AccountResponse {
	return AccountResponse{
		ID:       a.ID,
		Name:     DisplayName(a.Name),
		Type:     a.Type,
		Balance:  a.Balance,
		Currency: a.Currency,
	}
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:   c.ID,
		Name: DisplayName(c.Name),
	}
}

func (sc *SubCategory) ToResponse() SubCategoryResponse {
	return SubCategoryResponse{
		ID:         sc.ID,
		CategoryID: sc.CategoryID,
		Name:       DisplayName(sc.Name),
	}
}
