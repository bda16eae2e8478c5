package importer_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/money-ledger/internal/catalog"
	catalogPostgres "github.com/frahmantamala/money-ledger/internal/catalog/postgres"
	"github.com/frahmantamala/money-ledger/internal/core/database"
	accountDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/transaction"
	"github.com/frahmantamala/money-ledger/internal/importer"
	"github.com/frahmantamala/money-ledger/internal/ledger"
	ledgerPostgres "github.com/frahmantamala/money-ledger/internal/ledger/postgres"
)

func TestImporter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Importer Suite")
}

func openTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())

	err = db.AutoMigrate(
		&accountDatamodel.Account{},
		&categoryDatamodel.Category{},
		&categoryDatamodel.SubCategory{},
		&transactionDatamodel.Transaction{},
	)
	Expect(err).NotTo(HaveOccurred())

	for _, stmt := range []string{
		`CREATE UNIQUE INDEX uq_accounts_owner_name ON accounts (owner_id, name) WHERE is_active`,
		`CREATE UNIQUE INDEX uq_categories_owner_name ON categories (owner_id, name) WHERE is_active`,
		`CREATE UNIQUE INDEX uq_sub_categories_owner_category_name ON sub_categories (owner_id, category_id, name) WHERE is_active`,
	} {
		Expect(db.Exec(stmt).Error).NotTo(HaveOccurred())
	}
	return db
}

var _ = Describe("Import", func() {
	var (
		db            *gorm.DB
		ledgerService *ledger.Service
		service       *importer.Service
		ctx           context.Context
	)

	const ownerID int64 = 1

	balanceOf := func(name string) decimal.Decimal {
		var row accountDatamodel.Account
		err := db.Where("owner_id = ? AND name = ?", ownerID, catalog.Normalize(name)).First(&row).Error
		Expect(err).NotTo(HaveOccurred())
		return row.Balance
	}

	BeforeEach(func() {
		db = openTestDB()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		txManager := database.NewTxManager(db)

		catalogService := catalog.NewService(catalogPostgres.NewCatalogRepository(db), txManager, logger)
		ledgerService = ledger.NewService(ledgerPostgres.NewLedgerRepository(db), catalogService, txManager, logger)
		service = importer.NewService(ledgerService, catalogService, txManager, logger)
		ctx = context.Background()
	})

	It("imports a clean batch, counting created entities", func() {
		result, err := service.Import(ctx, ownerID, []importer.RowRecord{
			{Date: "15/03/26", Account: "Checking", Kind: "Income", Category: "Salary", SubCategory: "Base Pay", Amount: "500.00"},
			{Date: "16/03/26", Account: "checking", Kind: "expense", Category: "Groceries", SubCategory: "Weekly Run", Amount: "150.00"},
			{Date: "17/03/26", Account: "Checking", Kind: "Transfer", Amount: "200.00", ToAccount: "Savings"},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.TransactionsCreated).To(Equal(3))
		Expect(result.AccountsCreated).To(Equal(2))
		Expect(result.CategoriesCreated).To(Equal(2))
		Expect(result.SubCategoriesCreated).To(Equal(2))
		Expect(result.RowErrors).To(BeEmpty())

		Expect(balanceOf("checking").Equal(decimal.RequireFromString("150.00"))).To(BeTrue())
		Expect(balanceOf("savings").Equal(decimal.RequireFromString("200.00"))).To(BeTrue())
	})

	It("records a bad row and keeps going", func() {
		result, err := service.Import(ctx, ownerID, []importer.RowRecord{
			{Date: "15/03/26", Account: "Checking", Kind: "income", Category: "Salary", SubCategory: "Base Pay", Amount: "500.00"},
			{Date: "16/03/26", Account: "Checking", Kind: "expense", Category: "Groceries", SubCategory: "Weekly Run", Amount: "abc"},
			{Date: "17/03/26", Account: "Checking", Kind: "transfer", Amount: "200.00", ToAccount: "Savings"},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.TransactionsCreated).To(Equal(2))
		Expect(result.RowErrors).To(HaveLen(1))
		Expect(result.RowErrors[0].Row).To(Equal(2))
		Expect(result.RowErrors[0].Message).To(ContainSubstring("abc"))

		Expect(balanceOf("checking").Equal(decimal.RequireFromString("300.00"))).To(BeTrue())
	})

	It("rejects malformed dates and unknown kinds per row", func() {
		result, err := service.Import(ctx, ownerID, []importer.RowRecord{
			{Date: "2026-03-15", Account: "Checking", Kind: "income", Category: "Salary", SubCategory: "Base Pay", Amount: "500.00"},
			{Date: "15/03/26", Account: "Checking", Kind: "withdrawal", Category: "Salary", SubCategory: "Base Pay", Amount: "500.00"},
			{Date: "15/03/26", Account: "Checking", Kind: "transfer", Amount: "50.00", ToAccount: "checking"},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.TransactionsCreated).To(BeZero())
		Expect(result.RowErrors).To(HaveLen(3))
		Expect(result.RowErrors[0].Row).To(Equal(1))
		Expect(result.RowErrors[1].Row).To(Equal(2))
		Expect(result.RowErrors[2].Row).To(Equal(3))

		// Nothing from the rejected rows reached storage.
		var count int64
		Expect(db.Model(&accountDatamodel.Account{}).Count(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(BeZero())
	})

	It("does not double-count entities referenced by several rows", func() {
		result, err := service.Import(ctx, ownerID, []importer.RowRecord{
			{Date: "15/03/26", Account: "Checking", Kind: "income", Category: "Salary", SubCategory: "Base Pay", Amount: "100.00"},
			{Date: "16/03/26", Account: "CHECKING", Kind: "income", Category: "salary", SubCategory: "base pay", Amount: "100.00"},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.AccountsCreated).To(Equal(1))
		Expect(result.CategoriesCreated).To(Equal(1))
		Expect(result.SubCategoriesCreated).To(Equal(1))
	})

	It("imports dates into the right century", func() {
		result, err := service.Import(ctx, ownerID, []importer.RowRecord{
			{Date: "01/02/99", Account: "Checking", Kind: "income", Category: "Salary", SubCategory: "Base Pay", Amount: "10.00"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.TransactionsCreated).To(Equal(1))

		responses, err := ledgerService.ListTransactions(ctx, ownerID, ledger.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(responses[0].Date.Day()).To(Equal(1))
		Expect(responses[0].Date.Month()).To(Equal(time.February))
	})
})
