package ledger

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/internal/catalog"
	transactionDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/transaction"
)

// Repository is the data access surface for ledger rows and the balance
// column. AddToBalance must be an atomic read-modify-write on the
// account row so that concurrent operations on the same account
// serialize; all methods join the atomic unit carried in ctx.
type Repository interface {
	Create(ctx context.Context, row *transactionDatamodel.Transaction) error
	GetActiveByID(ctx context.Context, ownerID, id int64) (*transactionDatamodel.Transaction, error)
	GetActiveByIDForUpdate(ctx context.Context, ownerID, id int64) (*transactionDatamodel.Transaction, error)
	Update(ctx context.Context, row *transactionDatamodel.Transaction) error
	List(ctx context.Context, ownerID int64, filter Filter) ([]*transactionDatamodel.Transaction, error)
	AddToBalance(ctx context.Context, ownerID int64, entry Entry) error

	AccountNames(ctx context.Context, ownerID int64, ids []int64) (map[int64]string, error)
	CategoryNames(ctx context.Context, ownerID int64, ids []int64) (map[int64]string, error)
	SubCategoryNames(ctx context.Context, ownerID int64, ids []int64) (map[int64]string, error)
}

// Resolver turns referenced names into entity ids, creating absent
// entities. It participates in the caller's atomic unit via ctx.
type Resolver interface {
	ResolveAccount(ctx context.Context, ownerID int64, rawName string) (*catalog.Account, bool, error)
	ResolveCategory(ctx context.Context, ownerID int64, rawName string) (*catalog.Category, bool, error)
	ResolveSubCategory(ctx context.Context, ownerID, categoryID int64, rawName string) (*catalog.SubCategory, bool, error)
}

// Atomic opens an atomic unit spanning the transaction row and every
// account row it touches.
type Atomic interface {
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the transaction lifecycle controller. Each operation is
// validate-resolve-persist-apply inside exactly one atomic unit; any
// failure rolls the whole unit back, so no observer ever sees a
// half-applied effect.
type Service struct {
	repo     Repository
	resolver Resolver
	atomic   Atomic
	logger   *slog.Logger
}

func NewService(repo Repository, resolver Resolver, atomic Atomic, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		atomic:   atomic,
		logger:   logger,
	}
}

type references struct {
	fromAccountID int64
	toAccountID   *int64
	categoryID    *int64
	subCategoryID *int64
}

// CreateTransaction validates the input, resolves every named
// reference, persists the row as active and applies its effect, all in
// one atomic unit.
func (s *Service) CreateTransaction(ctx context.Context, ownerID int64, dto TransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("transaction validation failed", "error", err, "owner_id", ownerID)
		return nil, err
	}

	var created *Transaction
	err := s.atomic.Atomically(ctx, func(ctx context.Context) error {
		refs, err := s.resolveReferences(ctx, ownerID, dto)
		if err != nil {
			return err
		}

		row := &transactionDatamodel.Transaction{
			OwnerID:       ownerID,
			Kind:          NormalizeKind(dto.Kind),
			Amount:        dto.Amount,
			Date:          dto.Date,
			FromAccountID: refs.fromAccountID,
			ToAccountID:   refs.toAccountID,
			CategoryID:    refs.categoryID,
			SubCategoryID: refs.subCategoryID,
			Notes:         dto.Notes,
			IsActive:      true,
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return storageError("creating transaction", err)
		}

		created = FromDataModel(row)
		return s.applyEntries(ctx, ownerID, Effect(created))
	})
	if err != nil {
		s.logger.Error("failed to create transaction", "error", err, "owner_id", ownerID)
		return nil, err
	}

	s.logger.Info("transaction created",
		"transaction_id", created.ID,
		"owner_id", ownerID,
		"kind", created.Kind,
		"amount", created.Amount)
	return created, nil
}

// EditTransaction rewrites an active transaction in place: reverse the
// current effect, resolve the new references, overwrite the stored
// fields, apply the new effect. The row keeps its identity. If any step
// fails the unit rolls back, so the old-reversed/new-unapplied state is
// never observable.
func (s *Service) EditTransaction(ctx context.Context, ownerID, id int64, dto TransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("transaction validation failed", "error", err, "owner_id", ownerID, "transaction_id", id)
		return nil, err
	}

	var updated *Transaction
	err := s.atomic.Atomically(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetActiveByIDForUpdate(ctx, ownerID, id)
		if err != nil {
			return storageError("loading transaction", err)
		}
		if row == nil {
			return ErrTransactionNotFound
		}

		if err := s.applyEntries(ctx, ownerID, Reversed(Effect(FromDataModel(row)))); err != nil {
			return err
		}

		refs, err := s.resolveReferences(ctx, ownerID, dto)
		if err != nil {
			return err
		}

		row.Kind = NormalizeKind(dto.Kind)
		row.Amount = dto.Amount
		row.Date = dto.Date
		row.FromAccountID = refs.fromAccountID
		row.ToAccountID = refs.toAccountID
		row.CategoryID = refs.categoryID
		row.SubCategoryID = refs.subCategoryID
		row.Notes = dto.Notes
		if err := s.repo.Update(ctx, row); err != nil {
			return storageError("updating transaction", err)
		}

		updated = FromDataModel(row)
		return s.applyEntries(ctx, ownerID, Effect(updated))
	})
	if err != nil {
		s.logger.Error("failed to edit transaction", "error", err, "owner_id", ownerID, "transaction_id", id)
		return nil, err
	}

	s.logger.Info("transaction edited",
		"transaction_id", updated.ID,
		"owner_id", ownerID,
		"kind", updated.Kind,
		"amount", updated.Amount)
	return updated, nil
}

// DeleteTransaction reverses the effect and marks the row inactive.
// Inactive is terminal; the row stays for history but stops counting
// toward any balance or listing.
func (s *Service) DeleteTransaction(ctx context.Context, ownerID, id int64) error {
	err := s.atomic.Atomically(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetActiveByIDForUpdate(ctx, ownerID, id)
		if err != nil {
			return storageError("loading transaction", err)
		}
		if row == nil {
			return ErrTransactionNotFound
		}

		if err := s.applyEntries(ctx, ownerID, Reversed(Effect(FromDataModel(row)))); err != nil {
			return err
		}

		row.IsActive = false
		if err := s.repo.Update(ctx, row); err != nil {
			return storageError("deactivating transaction", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to delete transaction", "error", err, "owner_id", ownerID, "transaction_id", id)
		return err
	}

	s.logger.Info("transaction deleted", "transaction_id", id, "owner_id", ownerID)
	return nil
}

// GetTransaction returns a single active transaction with its
// references rendered as id plus display name.
func (s *Service) GetTransaction(ctx context.Context, ownerID, id int64) (*TransactionResponse, error) {
	row, err := s.repo.GetActiveByID(ctx, ownerID, id)
	if err != nil {
		s.logger.Error("failed to get transaction", "error", err, "owner_id", ownerID, "transaction_id", id)
		return nil, storageError("loading transaction", err)
	}
	if row == nil {
		return nil, ErrTransactionNotFound
	}

	responses, err := s.toResponses(ctx, ownerID, []*Transaction{FromDataModel(row)})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// ListTransactions returns active transactions newest-first, narrowed
// by the filter.
func (s *Service) ListTransactions(ctx context.Context, ownerID int64, filter Filter) ([]TransactionResponse, error) {
	rows, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err, "owner_id", ownerID)
		return nil, storageError("listing transactions", err)
	}
	return s.toResponses(ctx, ownerID, FromDataModelSlice(rows))
}

func (s *Service) resolveReferences(ctx context.Context, ownerID int64, dto TransactionDTO) (*references, error) {
	from, _, err := s.resolver.ResolveAccount(ctx, ownerID, dto.Account)
	if err != nil {
		return nil, err
	}
	refs := &references{fromAccountID: from.ID}

	if NormalizeKind(dto.Kind) == KindTransfer {
		to, _, err := s.resolver.ResolveAccount(ctx, ownerID, dto.ToAccount)
		if err != nil {
			return nil, err
		}
		if to.ID == from.ID {
			return nil, ErrSameAccountTransfer
		}
		toID := to.ID
		refs.toAccountID = &toID
		return refs, nil
	}

	category, _, err := s.resolver.ResolveCategory(ctx, ownerID, dto.Category)
	if err != nil {
		return nil, err
	}
	subCategory, _, err := s.resolver.ResolveSubCategory(ctx, ownerID, category.ID, dto.SubCategory)
	if err != nil {
		return nil, err
	}
	categoryID := category.ID
	subCategoryID := subCategory.ID
	refs.categoryID = &categoryID
	refs.subCategoryID = &subCategoryID
	return refs, nil
}

func (s *Service) applyEntries(ctx context.Context, ownerID int64, entries []Entry) error {
	for _, entry := range entries {
		if err := s.repo.AddToBalance(ctx, ownerID, entry); err != nil {
			return storageError("applying balance effect", err)
		}
	}
	return nil
}

func (s *Service) toResponses(ctx context.Context, ownerID int64, transactions []*Transaction) ([]TransactionResponse, error) {
	var accountIDs, categoryIDs, subCategoryIDs []int64
	for _, t := range transactions {
		accountIDs = append(accountIDs, t.FromAccountID)
		if t.ToAccountID != nil {
			accountIDs = append(accountIDs, *t.ToAccountID)
		}
		if t.CategoryID != nil {
			categoryIDs = append(categoryIDs, *t.CategoryID)
		}
		if t.SubCategoryID != nil {
			subCategoryIDs = append(subCategoryIDs, *t.SubCategoryID)
		}
	}

	accountNames, err := s.repo.AccountNames(ctx, ownerID, accountIDs)
	if err != nil {
		return nil, storageError("loading account names", err)
	}
	categoryNames, err := s.repo.CategoryNames(ctx, ownerID, categoryIDs)
	if err != nil {
		return nil, storageError("loading category names", err)
	}
	subCategoryNames, err := s.repo.SubCategoryNames(ctx, ownerID, subCategoryIDs)
	if err != nil {
		return nil, storageError("loading sub-category names", err)
	}

	responses := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		resp := TransactionResponse{
			ID:            t.ID,
			Kind:          t.Kind,
			Amount:        t.Amount,
			Date:          t.Date,
			FromAccountID: t.FromAccountID,
			FromAccount:   catalog.DisplayName(accountNames[t.FromAccountID]),
			ToAccountID:   t.ToAccountID,
			CategoryID:    t.CategoryID,
			SubCategoryID: t.SubCategoryID,
			Notes:         t.Notes,
			CreatedAt:     t.CreatedAt,
			UpdatedAt:     t.UpdatedAt,
		}
		if t.ToAccountID != nil {
			resp.ToAccount = catalog.DisplayName(accountNames[*t.ToAccountID])
		}
		if t.CategoryID != nil {
			resp.Category = catalog.DisplayName(categoryNames[*t.CategoryID])
		}
		if t.SubCategoryID != nil {
			resp.SubCategory = catalog.DisplayName(subCategoryNames[*t.SubCategoryID])
		}
		responses[i] = resp
	}
	return responses, nil
}

// storageError passes AppErrors through and wraps everything else as
// retryable infrastructure failure; by the time it surfaces the atomic
// unit has been rolled back.
func storageError(message string, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	return internal.NewInfrastructureError(message, err)
}
