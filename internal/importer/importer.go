// Package importer is the bulk import pipeline: it turns already-parsed
// spreadsheet rows into transactions one at a time, collecting per-row
// failures instead of aborting the batch.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/internal/catalog"
	"github.com/frahmantamala/money-ledger/internal/ledger"
)

// rowDateLayout matches the dd/mm/yy format the exported spreadsheets
// use.
const rowDateLayout = "02/01/06"

// RowRecord is one raw import row. Every field is a string straight
// from the source; parsing and validation happen here.
type RowRecord struct {
	Date        string `json:"date"`
	Account     string `json:"account"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Amount      string `json:"amount"`
	ToAccount   string `json:"to_account"`
	Notes       string `json:"notes"`
}

// RowError records why a single row was rejected. Row is 1-based, in
// input order.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result summarizes a batch: how many transactions landed, how many
// entities the batch brought into existence along the way, and every
// rejected row.
type Result struct {
	TransactionsCreated  int        `json:"transactions_created"`
	AccountsCreated      int        `json:"accounts_created"`
	CategoriesCreated    int        `json:"categories_created"`
	SubCategoriesCreated int        `json:"sub_categories_created"`
	RowErrors            []RowError `json:"row_errors"`
}

// Ledger is the slice of the transaction service the importer drives.
type Ledger interface {
	CreateTransaction(ctx context.Context, ownerID int64, dto ledger.TransactionDTO) (*ledger.Transaction, error)
}

// Resolver resolves referenced names ahead of the create so the batch
// can count which entities it brought into existence.
type Resolver interface {
	ResolveAccount(ctx context.Context, ownerID int64, rawName string) (*catalog.Account, bool, error)
	ResolveCategory(ctx context.Context, ownerID int64, rawName string) (*catalog.Category, bool, error)
	ResolveSubCategory(ctx context.Context, ownerID, categoryID int64, rawName string) (*catalog.SubCategory, bool, error)
}

type Atomic interface {
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service imports rows sequentially. Each row runs in its own atomic
// unit: a failed row rolls back everything it did, including entities
// it resolved into existence, and the batch moves on to the next row.
type Service struct {
	ledger   Ledger
	resolver Resolver
	atomic   Atomic
	logger   *slog.Logger
}

func NewService(ledger Ledger, resolver Resolver, atomic Atomic, logger *slog.Logger) *Service {
	return &Service{
		ledger:   ledger,
		resolver: resolver,
		atomic:   atomic,
		logger:   logger,
	}
}

// Import processes the batch in input order. It never returns a row's
// error; failures land in Result.RowErrors keyed by 1-based row number.
func (s *Service) Import(ctx context.Context, ownerID int64, rows []RowRecord) (*Result, error) {
	result := &Result{RowErrors: []RowError{}}

	for i, row := range rows {
		rowNumber := i + 1
		if err := s.importRow(ctx, ownerID, row, result); err != nil {
			result.RowErrors = append(result.RowErrors, RowError{
				Row:     rowNumber,
				Message: rowErrorMessage(err),
			})
			s.logger.Warn("import row rejected",
				"owner_id", ownerID,
				"row", rowNumber,
				"error", err)
			continue
		}
		result.TransactionsCreated++
	}

	s.logger.Info("import finished",
		"owner_id", ownerID,
		"rows", len(rows),
		"transactions_created", result.TransactionsCreated,
		"rows_rejected", len(result.RowErrors))
	return result, nil
}

func (s *Service) importRow(ctx context.Context, ownerID int64, row RowRecord, result *Result) error {
	dto, err := parseRow(row)
	if err != nil {
		return err
	}

	var accounts, categories, subCategories int
	err = s.atomic.Atomically(ctx, func(ctx context.Context) error {
		var resolveErr error
		accounts, categories, subCategories, resolveErr = s.resolveRow(ctx, ownerID, dto)
		if resolveErr != nil {
			return resolveErr
		}
		_, createErr := s.ledger.CreateTransaction(ctx, ownerID, dto)
		return createErr
	})
	if err != nil {
		return err
	}

	result.AccountsCreated += accounts
	result.CategoriesCreated += categories
	result.SubCategoriesCreated += subCategories
	return nil
}

// resolveRow resolves every name the row references and counts the
// entities that did not exist before. The create that follows inside
// the same atomic unit finds them already present.
func (s *Service) resolveRow(ctx context.Context, ownerID int64, dto ledger.TransactionDTO) (accounts, categories, subCategories int, err error) {
	_, created, err := s.resolver.ResolveAccount(ctx, ownerID, dto.Account)
	if err != nil {
		return 0, 0, 0, err
	}
	if created {
		accounts++
	}

	if ledger.NormalizeKind(dto.Kind) == ledger.KindTransfer {
		_, created, err := s.resolver.ResolveAccount(ctx, ownerID, dto.ToAccount)
		if err != nil {
			return 0, 0, 0, err
		}
		if created {
			accounts++
		}
		return accounts, 0, 0, nil
	}

	category, created, err := s.resolver.ResolveCategory(ctx, ownerID, dto.Category)
	if err != nil {
		return 0, 0, 0, err
	}
	if created {
		categories++
	}
	_, created, err = s.resolver.ResolveSubCategory(ctx, ownerID, category.ID, dto.SubCategory)
	if err != nil {
		return 0, 0, 0, err
	}
	if created {
		subCategories++
	}
	return accounts, categories, subCategories, nil
}

func parseRow(row RowRecord) (ledger.TransactionDTO, error) {
	var dto ledger.TransactionDTO

	date, err := time.Parse(rowDateLayout, row.Date)
	if err != nil {
		return dto, internal.NewValidationError(
			fmt.Sprintf("date %q is not in dd/mm/yy format", row.Date),
			internal.ErrCodeInvalidDate)
	}

	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return dto, internal.NewValidationError(
			fmt.Sprintf("amount %q is not a decimal", row.Amount),
			internal.ErrCodeInvalidAmount)
	}

	dto = ledger.TransactionDTO{
		Kind:        row.Kind,
		Amount:      amount,
		Date:        date,
		Account:     row.Account,
		ToAccount:   row.ToAccount,
		Category:    row.Category,
		SubCategory: row.SubCategory,
		Notes:       row.Notes,
	}
	return dto, dto.Validate()
}

func rowErrorMessage(err error) string {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
