package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindIncome   = "income"
	KindExpense  = "expense"
	KindTransfer = "transfer"
)

// Transaction is a single ledger row. A transfer is one dual-account
// row (from/to), never two linked legs. Category and sub-category ids
// are set iff the kind is not transfer. Inactive rows are history: they
// no longer contribute to any balance.
type Transaction struct {
	ID            int64           `gorm:"primaryKey"`
	OwnerID       int64           `gorm:"column:owner_id;not null;index"`
	Kind          string          `gorm:"column:kind;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(18,2);not null"`
	Date          time.Time       `gorm:"column:date;not null"`
	FromAccountID int64           `gorm:"column:from_account_id;not null;index"`
	ToAccountID   *int64          `gorm:"column:to_account_id;index"`
	CategoryID    *int64          `gorm:"column:category_id;index"`
	SubCategoryID *int64          `gorm:"column:sub_category_id"`
	Notes         string          `gorm:"column:notes"`
	IsActive      bool            `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
