package catalog_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/money-ledger/internal"
	"github.com/frahmantamala/money-ledger/internal/catalog"
	accountDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/money-ledger/internal/core/datamodel/category"
)

func TestCatalogService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Service Suite")
}

// PassthroughAtomic runs the function directly; the mock repository has
// no transactions to manage.
type PassthroughAtomic struct{}

func (PassthroughAtomic) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockRepository implements catalog.Repository in memory for testing.
type MockRepository struct {
	accounts      []*accountDatamodel.Account
	categories    []*categoryDatamodel.Category
	subCategories []*categoryDatamodel.SubCategory
	nextID        int64
	shouldFail    bool
	failError     error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{nextID: 1}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) nextIDValue() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MockRepository) FindActiveAccountByName(ctx context.Context, ownerID int64, name string) (*accountDatamodel.Account, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, a := range m.accounts {
		if a.OwnerID == ownerID && a.Name == name && a.IsActive {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) FindActiveAccountByID(ctx context.Context, ownerID, id int64) (*accountDatamodel.Account, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, a := range m.accounts {
		if a.OwnerID == ownerID && a.ID == id && a.IsActive {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) ListActiveAccounts(ctx context.Context, ownerID int64) ([]*accountDatamodel.Account, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*accountDatamodel.Account
	for _, a := range m.accounts {
		if a.OwnerID == ownerID && a.IsActive {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *MockRepository) CreateAccount(ctx context.Context, row *accountDatamodel.Account) error {
	if m.shouldFail {
		return m.failError
	}
	for _, a := range m.accounts {
		if a.OwnerID == row.OwnerID && a.Name == row.Name && a.IsActive {
			return internal.NewConflictError("account name already exists", internal.ErrCodeDuplicateName)
		}
	}
	row.ID = m.nextIDValue()
	m.accounts = append(m.accounts, row)
	return nil
}

func (m *MockRepository) FindActiveCategoryByName(ctx context.Context, ownerID int64, name string) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, c := range m.categories {
		if c.OwnerID == ownerID && c.Name == name && c.IsActive {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) FindActiveCategoryByID(ctx context.Context, ownerID, id int64) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, c := range m.categories {
		if c.OwnerID == ownerID && c.ID == id && c.IsActive {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) ListActiveCategories(ctx context.Context, ownerID int64) ([]*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*categoryDatamodel.Category
	for _, c := range m.categories {
		if c.OwnerID == ownerID && c.IsActive {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockRepository) CreateCategory(ctx context.Context, row *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	row.ID = m.nextIDValue()
	m.categories = append(m.categories, row)
	return nil
}

func (m *MockRepository) FindActiveSubCategoryByName(ctx context.Context, ownerID, categoryID int64, name string) (*categoryDatamodel.SubCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, sc := range m.subCategories {
		if sc.OwnerID == ownerID && sc.CategoryID == categoryID && sc.Name == name && sc.IsActive {
			return sc, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) FindActiveSubCategoryByID(ctx context.Context, ownerID, id int64) (*categoryDatamodel.SubCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, sc := range m.subCategories {
		if sc.OwnerID == ownerID && sc.ID == id && sc.IsActive {
			return sc, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) ListActiveSubCategories(ctx context.Context, ownerID, categoryID int64) ([]*categoryDatamodel.SubCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*categoryDatamodel.SubCategory
	for _, sc := range m.subCategories {
		if sc.OwnerID == ownerID && sc.CategoryID == categoryID && sc.IsActive {
			result = append(result, sc)
		}
	}
	return result, nil
}

func (m *MockRepository) CreateSubCategory(ctx context.Context, row *categoryDatamodel.SubCategory) error {
	if m.shouldFail {
		return m.failError
	}
	row.ID = m.nextIDValue()
	m.subCategories = append(m.subCategories, row)
	return nil
}

var _ = Describe("Catalog Service", func() {
	var (
		mockRepo *MockRepository
		service  *catalog.Service
		ctx      context.Context
	)

	const ownerID int64 = 1

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = catalog.NewService(mockRepo, PassthroughAtomic{}, logger)
		ctx = context.Background()
	})

	Describe("ResolveAccount", func() {
		Context("when the account does not exist", func() {
			It("creates it with a zero balance", func() {
				account, created, err := service.ResolveAccount(ctx, ownerID, "Chase Checking")
				Expect(err).NotTo(HaveOccurred())
				Expect(created).To(BeTrue())
				Expect(account.Name).To(Equal("chase checking"))
				Expect(account.Balance.IsZero()).To(BeTrue())
				Expect(account.IsActive).To(BeTrue())
			})
		})

		Context("when the account already exists", func() {
			BeforeEach(func() {
				_, _, err := service.ResolveAccount(ctx, ownerID, "chase checking")
				Expect(err).NotTo(HaveOccurred())
			})

			It("returns the existing account for any casing or padding", func() {
				account, created, err := service.ResolveAccount(ctx, ownerID, "  CHASE checking ")
				Expect(err).NotTo(HaveOccurred())
				Expect(created).To(BeFalse())
				Expect(account.Name).To(Equal("chase checking"))
			})

			It("does not create a second row", func() {
				_, _, err := service.ResolveAccount(ctx, ownerID, "Chase Checking")
				Expect(err).NotTo(HaveOccurred())

				accounts, err := service.ListAccounts(ctx, ownerID)
				Expect(err).NotTo(HaveOccurred())
				Expect(accounts).To(HaveLen(1))
			})
		})

		Context("when the name is empty after normalization", func() {
			It("rejects without touching storage", func() {
				_, _, err := service.ResolveAccount(ctx, ownerID, "   ")
				Expect(err).To(HaveOccurred())

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeEmptyName))
			})
		})

		Context("when another owner holds the same name", func() {
			BeforeEach(func() {
				_, _, err := service.ResolveAccount(ctx, 2, "savings")
				Expect(err).NotTo(HaveOccurred())
			})

			It("creates a separate account in this owner's scope", func() {
				_, created, err := service.ResolveAccount(ctx, ownerID, "savings")
				Expect(err).NotTo(HaveOccurred())
				Expect(created).To(BeTrue())
			})
		})

		Context("when the repository fails", func() {
			BeforeEach(func() {
				mockRepo.SetShouldFail(true, errors.New("connection refused"))
			})

			It("returns a retryable infrastructure error", func() {
				_, _, err := service.ResolveAccount(ctx, ownerID, "savings")
				Expect(err).To(HaveOccurred())

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Retryable).To(BeTrue())
			})
		})
	})

	Describe("ResolveCategory", func() {
		It("creates on first reference and finds afterwards", func() {
			first, created, err := service.ResolveCategory(ctx, ownerID, "Groceries")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())

			second, created, err := service.ResolveCategory(ctx, ownerID, "groceries")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(second.ID).To(Equal(first.ID))
		})
	})

	Describe("ResolveSubCategory", func() {
		var groceries *catalog.Category

		BeforeEach(func() {
			var err error
			groceries, _, err = service.ResolveCategory(ctx, ownerID, "groceries")
			Expect(err).NotTo(HaveOccurred())
		})

		It("scopes the name to the parent category", func() {
			sub, created, err := service.ResolveSubCategory(ctx, ownerID, groceries.ID, "snacks")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(sub.CategoryID).To(Equal(groceries.ID))

			dining, _, err := service.ResolveCategory(ctx, ownerID, "dining")
			Expect(err).NotTo(HaveOccurred())

			other, created, err := service.ResolveSubCategory(ctx, ownerID, dining.ID, "snacks")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(other.ID).NotTo(Equal(sub.ID))
		})

		It("rejects a missing parent category", func() {
			_, _, err := service.ResolveSubCategory(ctx, ownerID, 999, "snacks")
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCategoryNotFound))
		})
	})

	Describe("GetAccount", func() {
		It("returns not found for an unknown id", func() {
			_, err := service.GetAccount(ctx, ownerID, 42)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeAccountNotFound))
		})
	})
})
