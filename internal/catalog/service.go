package catalog

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/money-ledger/internal"
	accountDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/category"
)

// Repository is the data access surface for catalog entities. Find
// methods return nil without error when nothing matches; Create methods
// return a conflict AppError when an active duplicate already exists.
type Repository interface {
	FindActiveAccountByName(ctx context.Context, ownerID int64, name string) (*accountDatamodel.Account, error)
	FindActiveAccountByID(ctx context.Context, ownerID, id int64) (*accountDatamodel.Account, error)
	ListActiveAccounts(ctx context.Context, ownerID int64) ([]*accountDatamodel.Account, error)
	CreateAccount(ctx context.Context, row *accountDatamodel.Account) error

	FindActiveCategoryByName(ctx context.Context, ownerID int64, name string) (*categoryDatamodel.Category, error)
	FindActiveCategoryByID(ctx context.Context, ownerID, id int64) (*categoryDatamodel.Category, error)
	ListActiveCategories(ctx context.Context, ownerID int64) ([]*categoryDatamodel.Category, error)
	CreateCategory(ctx context.Context, row *categoryDatamodel.Category) error

	FindActiveSubCategoryByName(ctx context.Context, ownerID, categoryID int64, name string) (*categoryDatamodel.SubCategory, error)
	FindActiveSubCategoryByID(ctx context.Context, ownerID, id int64) (*categoryDatamodel.SubCategory, error)
	ListActiveSubCategories(ctx context.Context, ownerID, categoryID int64) ([]*categoryDatamodel.SubCategory, error)
	CreateSubCategory(ctx context.Context, row *categoryDatamodel.SubCategory) error
}

// Atomic opens an atomic unit; a resolver create-on-miss always runs
// inside one, either its own or the caller's already-open unit.
type Atomic interface {
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo   Repository
	atomic Atomic
	logger *slog.Logger
}

func NewService(repo Repository, atomic Atomic, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		atomic: atomic,
		logger: logger,
	}
}

// ResolveAccount returns the active account matching the normalized
// name, creating it with a zero balance when absent. The second return
// reports whether a new row was created.
func (s *Service) ResolveAccount(ctx context.Context, ownerID int64, rawName string) (*Account, bool, error) {
	name := Normalize(rawName)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	var (
		resolved *Account
		created  bool
	)
	err := s.atomic.Atomically(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindActiveAccountByName(ctx, ownerID, name)
		if err != nil {
			return storageError("looking up account", err)
		}
		if existing != nil {
			resolved = AccountFromDataModel(existing)
			return nil
		}

		row := &accountDatamodel.Account{
			OwnerID:  ownerID,
			Name:     name,
			Type:     accountDatamodel.TypeBank,
			Balance:  decimal.Zero,
			Currency: "USD",
			IsActive: true,
		}
		if err := s.repo.CreateAccount(ctx, row); err != nil {
			return storageError("creating account", err)
		}
		resolved = AccountFromDataModel(row)
		created = true
		return nil
	})
	if err != nil {
		s.logger.Error("failed to resolve account", "error", err, "owner_id", ownerID, "name", name)
		return nil, false, err
	}

	if created {
		s.logger.Info("account created on first reference", "account_id", resolved.ID, "owner_id", ownerID, "name", name)
	}
	return resolved, created, nil
}

// ResolveCategory is the lookup-or-create for category names.
func (s *Service) ResolveCategory(ctx context.Context, ownerID int64, rawName string) (*Category, bool, error) {
	name := Normalize(rawName)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	var (
		resolved *Category
		created  bool
	)
	err := s.atomic.Atomically(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindActiveCategoryByName(ctx, ownerID, name)
		if err != nil {
			return storageError("looking up category", err)
		}
		if existing != nil {
			resolved = CategoryFromDataModel(existing)
			return nil
		}

		row := &categoryDatamodel.Category{
			OwnerID:  ownerID,
			Name:     name,
			IsActive: true,
		}
		if err := s.repo.CreateCategory(ctx, row); err != nil {
			return storageError("creating category", err)
		}
		resolved = CategoryFromDataModel(row)
		created = true
		return nil
	})
	if err != nil {
		s.logger.Error("failed to resolve category", "error", err, "owner_id", ownerID, "name", name)
		return nil, false, err
	}

	if created {
		s.logger.Info("category created on first reference", "category_id", resolved.ID, "owner_id", ownerID, "name", name)
	}
	return resolved, created, nil
}

// ResolveSubCategory is scoped to a parent category in addition to the
// owner: the same name may exist under different parents.
func (s *Service) ResolveSubCategory(ctx context.Context, ownerID, categoryID int64, rawName string) (*SubCategory, bool, error) {
	name := Normalize(rawName)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	var (
		resolved *SubCategory
		created  bool
	)
	err := s.atomic.Atomically(ctx, func(ctx context.Context) error {
		parent, err := s.repo.FindActiveCategoryByID(ctx, ownerID, categoryID)
		if err != nil {
			return storageError("looking up parent category", err)
		}
		if parent == nil {
			return ErrCategoryNotFound
		}

		existing, err := s.repo.FindActiveSubCategoryByName(ctx, ownerID, categoryID, name)
		if err != nil {
			return storageError("looking up sub-category", err)
		}
		if existing != nil {
			resolved = SubCategoryFromDataModel(existing)
			return nil
		}

		row := &categoryDatamodel.SubCategory{
			OwnerID:    ownerID,
			CategoryID: categoryID,
			Name:       name,
			IsActive:   true,
		}
		if err := s.repo.CreateSubCategory(ctx, row); err != nil {
			return storageError("creating sub-category", err)
		}
		resolved = SubCategoryFromDataModel(row)
		created = true
		return nil
	})
	if err != nil {
		s.logger.Error("failed to resolve sub-category", "error", err, "owner_id", ownerID, "category_id", categoryID, "name", name)
		return nil, false, err
	}

	if created {
		s.logger.Info("sub-category created on first reference", "sub_category_id", resolved.ID, "category_id", categoryID, "owner_id", ownerID, "name", name)
	}
	return resolved, created, nil
}

func (s *Service) GetAccount(ctx context.Context, ownerID, id int64) (*Account, error) {
	row, err := s.repo.FindActiveAccountByID(ctx, ownerID, id)
	if err != nil {
		s.logger.Error("failed to get account", "error", err, "account_id", id)
		return nil, storageError("looking up account", err)
	}
	if row == nil {
		return nil, ErrAccountNotFound
	}
	return AccountFromDataModel(row), nil
}

func (s *Service) ListAccounts(ctx context.Context, ownerID int64) ([]*Account, error) {
	rows, err := s.repo.ListActiveAccounts(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err, "owner_id", ownerID)
		return nil, storageError("listing accounts", err)
	}
	accounts := make([]*Account, len(rows))
	for i, row := range rows {
		accounts[i] = AccountFromDataModel(row)
	}
	return accounts, nil
}

func (s *Service) ListCategories(ctx context.Context, ownerID int64) ([]*Category, error) {
	rows, err := s.repo.ListActiveCategories(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err, "owner_id", ownerID)
		return nil, storageError("listing categories", err)
	}
	categories := make([]*Category, len(rows))
	for i, row := range rows {
		categories[i] = CategoryFromDataModel(row)
	}
	return categories, nil
}

func (s *Service) ListSubCategories(ctx context.Context, ownerID, categoryID int64) ([]*SubCategory, error) {
	rows, err := s.repo.ListActiveSubCategories(ctx, ownerID, categoryID)
	if err != nil {
		s.logger.Error("failed to list sub-categories", "error", err, "owner_id", ownerID, "category_id", categoryID)
		return nil, storageError("listing sub-categories", err)
	}
	subCategories := make([]*SubCategory, len(rows))
	for i, row := range rows {
		subCategories[i] = SubCategoryFromDataModel(row)
	}
	return subCategories, nil
}

// storageError passes AppErrors through (the repository already
// classified conflicts) and wraps everything else as retryable
// infrastructure failure.
func storageError(message string, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	return internal.NewInfrastructureError(message, err)
}
