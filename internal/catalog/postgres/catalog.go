package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/internal/catalog"
	"github.com/frahmantamala/money-ledger/internal/core/database"
	accountDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/category"
)

// CatalogRepository implements catalog.Repository using GORM. All
// methods join the atomic unit carried in ctx when one is open.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) catalog.Repository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db)
}

func (r *CatalogRepository) FindActiveAccountByName(ctx context.Context, ownerID int64, name string) (*accountDatamodel.Account, error) {
	var row accountDatamodel.Account
	err := r.conn(ctx).
		Where("owner_id = ? AND name = ? AND is_active = ?", ownerID, name, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) FindActiveAccountByID(ctx context.Context, ownerID, id int64) (*accountDatamodel.Account, error) {
	var row accountDatamodel.Account
	err := r.conn(ctx).
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

func (r *CatalogRepository) ListActiveAccounts(ctx context.Context, ownerID int64) ([]*accountDatamodel.Account, error) {
	var rows []*accountDatamodel.Account
	err := r.conn(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *CatalogRepository) CreateAccount(ctx context.Context, row *accountDatamodel.Account) error {
	return translateDuplicate(r.conn(ctx).Create(row).Error, "account name already exists")
}

func (r *CatalogRepository) FindActiveCategoryByName(ctx context.Context, ownerID int64, name string) (*categoryDatamodel.Category, error) {
	var row categoryDatamodel.Category
	err := r.conn(ctx).
		Where("owner_id = ? AND name = ? AND is_active = ?", ownerID, name, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) FindActiveCategoryByID(ctx context.Context, ownerID, id int64) (*categoryDatamodel.Category, error) {
	var row categoryDatamodel.Category
	err := r.conn(ctx).
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

func (r *CatalogRepository) ListActiveCategories(ctx context.Context, ownerID int64) ([]*categoryDatamodel.Category, error) {
	var rows []*categoryDatamodel.Category
	err := r.conn(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, row *categoryDatamodel.Category) error {
	return translateDuplicate(r.conn(ctx).Create(row).Error, "category name already exists")
}

func (r *CatalogRepository) FindActiveSubCategoryByName(ctx context.Context, ownerID, categoryID int64, name string) (*categoryDatamodel.SubCategory, error) {
	var row categoryDatamodel.SubCategory
	err := r.conn(ctx).
		Where("owner_id = ? AND category_id = ? AND name = ? AND is_active = ?", ownerID, categoryID, name, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) FindActiveSubCategoryByID(ctx context.Context, ownerID, id int64) (*categoryDatamodel.SubCategory, error) {
	var row categoryDatamodel.SubCategory
	err := r.conn(ctx).
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

func (r *CatalogRepository) ListActiveSubCategories(ctx context.Context, ownerID, categoryID int64) ([]*categoryDatamodel.SubCategory, error) {
	var rows []*categoryDatamodel.SubCategory
	err := r.conn(ctx).
		Where("owner_id = ? AND category_id = ? AND is_active = ?", ownerID, categoryID, true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *CatalogRepository) CreateSubCategory(ctx context.Context, row *categoryDatamodel.SubCategory) error {
	return translateDuplicate(r.conn(ctx).Create(row).Error, "sub-category name already exists")
}

// translateDuplicate classifies a lost create-on-miss race (two
// resolvers inserting the same normalized name) as a conflict the
// caller can surface.
func translateDuplicate(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.NewConflictError(message, internal.ErrCodeDuplicateName).WithCause(err)
	}
	return err
}
