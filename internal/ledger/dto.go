package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/internal/catalog"
)

// TransactionDTO is the input for both create and edit. Referenced
// entities arrive as names; the service resolves them to ids, creating
// absent ones. A transfer names a destination account and no category;
// everything else names a category and sub-category and no destination.
type TransactionDTO struct {
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Account     string          `json:"account"`
	ToAccount   string          `json:"to_account,omitempty"`
	Category    string          `json:"category,omitempty"`
	SubCategory string          `json:"sub_category,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// Validate enforces the shape invariants before anything touches
// storage. Nothing is persisted when this fails.
func (dto TransactionDTO) Validate() error {
	kind := NormalizeKind(dto.Kind)
	if kind == "" {
		return internal.NewValidationError("kind must be income, expense or transfer", internal.ErrCodeInvalidKind)
	}
	if !dto.Amount.IsPositive() {
		return internal.NewValidationError("amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	if dto.Date.IsZero() {
		return internal.NewValidationError("date is required", internal.ErrCodeInvalidDate)
	}
	if catalog.Normalize(dto.Account) == "" {
		return internal.NewValidationError("account is required", internal.ErrCodeEmptyName)
	}

	if kind == KindTransfer {
		to := catalog.Normalize(dto.ToAccount)
		if to == "" {
			return internal.NewValidationError("transfer requires a destination account", internal.ErrCodeMissingDestination)
		}
		if to == catalog.Normalize(dto.Account) {
			return ErrSameAccountTransfer
		}
		if dto.Category != "" || dto.SubCategory != "" {
			return internal.NewValidationError("transfer must not carry a category", internal.ErrCodeUnexpectedCategory)
		}
		return nil
	}

	if catalog.Normalize(dto.Category) == "" || catalog.Normalize(dto.SubCategory) == "" {
		return internal.NewValidationError("category and sub-category are required for income and expense", internal.ErrCodeMissingCategory)
	}
	if dto.ToAccount != "" {
		return internal.NewValidationError("only a transfer may carry a destination account", internal.ErrCodeMissingDestination)
	}
	return nil
}

// Filter narrows transaction listings. Nil fields are ignored.
type Filter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Kind          string
	CategoryID    *int64
	SubCategoryID *int64
	AccountID     *int64
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	Limit         int
	Offset        int
}

// TransactionResponse is the canonical outward form: entity ids plus
// display-cased names, never a bare name standing in for a reference.
type TransactionResponse struct {
	ID            int64           `json:"id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	FromAccountID int64           `json:"from_account_id"`
	FromAccount   string          `json:"from_account"`
	ToAccountID   *int64          `json:"to_account_id,omitempty"`
	ToAccount     string          `json:"to_account,omitempty"`
	CategoryID    *int64          `json:"category_id,omitempty"`
	Category      string          `json:"category,omitempty"`
	SubCategoryID *int64          `json:"sub_category_id,omitempty"`
	SubCategory   string          `json:"sub_category,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
