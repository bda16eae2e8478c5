package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types mirror what the import sources distinguish between.
const (
	TypeBank       = "bank"
	TypeCredit     = "credit"
	TypeCash       = "cash"
	TypeInvestment = "investment"
)

// Account stores the running balance as an exact decimal. The balance
// column is only ever mutated through the ledger's apply/reverse path;
// name holds the normalized (trimmed, lowercased) form.
type Account struct {
	ID        int64           `gorm:"primaryKey"`
	OwnerID   int64           `gorm:"column:owner_id;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Type      string          `gorm:"column:type;default:bank"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(18,2);not null"`
	Currency  string          `gorm:"column:currency;default:USD"`
	IsActive  bool            `gorm:"column:is_active;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
