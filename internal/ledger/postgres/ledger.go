package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/internal/core/database"
	accountDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/transaction"
	"github.com/frahmantamala/money-ledger/internal/ledger"
)

// LedgerRepository implements ledger.Repository using GORM. All methods
// join the atomic unit carried in ctx when one is open.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) ledger.Repository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db)
}

func (r *LedgerRepository) Create(ctx context.Context, row *transactionDatamodel.Transaction) error {
	return r.conn(ctx).Create(row).Error
}

func (r *LedgerRepository) GetActiveByID(ctx context.Context, ownerID, id int64) (*transactionDatamodel.Transaction, error) {
	return r.getActive(r.conn(ctx), ownerID, id)
}

// GetActiveByIDForUpdate locks the transaction row for the remainder of
// the atomic unit so concurrent edit/delete of the same transaction
// serialize. SQLite has no row locks; its single-writer model gives the
// same guarantee, so the clause is only added on postgres.
func (r *LedgerRepository) GetActiveByIDForUpdate(ctx context.Context, ownerID, id int64) (*transactionDatamodel.Transaction, error) {
	conn := r.conn(ctx)
	if conn.Dialector.Name() == "postgres" {
		conn = conn.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.getActive(conn, ownerID, id)
}

func (r *LedgerRepository) getActive(conn *gorm.DB, ownerID, id int64) (*transactionDatamodel.Transaction, error) {
	var row transactionDatamodel.Transaction
	err := conn.
		Where("id = ? AND owner_id = ? AND is_active = ?", id, ownerID, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *LedgerRepository) Update(ctx context.Context, row *transactionDatamodel.Transaction) error {
	// Save with Select forces every mutable column through, including
	// fields set to zero values such as IsActive=false or a cleared
	// category on a kind change.
	return r.conn(ctx).
		Model(row).
		Select("kind", "amount", "date", "from_account_id", "to_account_id",
			"category_id", "sub_category_id", "notes", "is_active", "updated_at").
		Updates(row).Error
}

// AddToBalance applies one signed delta as a single relative UPDATE.
// The database serializes concurrent updates on the same account row,
// so no read-modify-write window exists.
func (r *LedgerRepository) AddToBalance(ctx context.Context, ownerID int64, entry ledger.Entry) error {
	result := r.conn(ctx).
		Model(&accountDatamodel.Account{}).
		Where("id = ? AND owner_id = ? AND is_active = ?", entry.AccountID, ownerID, true).
		Update("balance", gorm.Expr("balance + ?", entry.Delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.NewNotFoundError("account not found", internal.ErrCodeAccountNotFound)
	}
	return nil
}

func (r *LedgerRepository) List(ctx context.Context, ownerID int64, filter ledger.Filter) ([]*transactionDatamodel.Transaction, error) {
	query := r.conn(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true)

	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.AccountID != nil {
		query = query.Where("from_account_id = ? OR to_account_id = ?", *filter.AccountID, *filter.AccountID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SubCategoryID != nil {
		query = query.Where("sub_category_id = ?", *filter.SubCategoryID)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []*transactionDatamodel.Transaction
	err := query.Order("date DESC, id DESC").Find(&rows).Error
	return rows, err
}

// Name lookups below deliberately include inactive rows: a transaction
// can outlive the entities it references, and its history still needs
// their names.

func (r *LedgerRepository) AccountNames(ctx context.Context, ownerID int64, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	var rows []accountDatamodel.Account
	err := r.conn(ctx).
		Select("id", "name").
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *LedgerRepository) CategoryNames(ctx context.Context, ownerID int64, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	var rows []categoryDatamodel.Category
	err := r.conn(ctx).
		Select("id", "name").
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *LedgerRepository) SubCategoryNames(ctx context.Context, ownerID int64, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	var rows []categoryDatamodel.SubCategory
	err := r.conn(ctx).
		Select("id", "name").
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
