// Package ledger is the transaction mutation engine: it computes the
// balance effect of income, expense and transfer rows, and applies or
// reverses that effect against account balances inside single atomic
// units.
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/money-ledger/internal"
	transactionDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/transaction"
)

const (
	KindIncome   = transactionDatamodel.KindIncome
	KindExpense  = transactionDatamodel.KindExpense
	KindTransfer = transactionDatamodel.KindTransfer
)

type Transaction struct {
	ID            int64           `json:"id"`
	OwnerID       int64           `json:"owner_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   *int64          `json:"to_account_id,omitempty"`
	CategoryID    *int64          `json:"category_id,omitempty"`
	SubCategoryID *int64          `json:"sub_category_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (t *Transaction) IsTransfer() bool {
	return t.Kind == KindTransfer
}

// NormalizeKind maps free-text kind input onto the canonical constants.
// Returns "" for anything unrecognized.
func NormalizeKind(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case KindIncome:
		return KindIncome
	case KindExpense:
		return KindExpense
	case KindTransfer:
		return KindTransfer
	}
	return ""
}

// Domain errors
var (
	ErrTransactionNotFound = internal.NewNotFoundError("transaction not found", internal.ErrCodeTransactionNotFound)
	ErrSameAccountTransfer = internal.NewValidationError("transfer source and destination accounts must differ", internal.ErrCodeSameAccountTransfer)
)

func ToDataModel(t *Transaction) *transactionDatamodel.Transaction {
	return &transactionDatamodel.Transaction{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		Kind:          t.Kind,
		Amount:        t.Amount,
		Date:          t.Date,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		CategoryID:    t.CategoryID,
		SubCategoryID: t.SubCategoryID,
		Notes:         t.Notes,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	return &Transaction{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		Kind:          t.Kind,
		Amount:        t.Amount,
		Date:          t.Date,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		CategoryID:    t.CategoryID,
		SubCategoryID: t.SubCategoryID,
		Notes:         t.Notes,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*transactionDatamodel.Transaction) []*Transaction {
	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
