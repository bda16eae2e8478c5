package ledger_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/money-ledger/internal/ledger"
)

var _ = Describe("Effect", func() {
	amount := decimal.RequireFromString("150.75")

	It("credits the source account for income", func() {
		entries := ledger.Effect(&ledger.Transaction{
			Kind:          ledger.KindIncome,
			Amount:        amount,
			FromAccountID: 1,
		})
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].AccountID).To(Equal(int64(1)))
		Expect(entries[0].Delta.Equal(amount)).To(BeTrue())
	})

	It("debits the source account for expense", func() {
		entries := ledger.Effect(&ledger.Transaction{
			Kind:          ledger.KindExpense,
			Amount:        amount,
			FromAccountID: 1,
		})
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Delta.Equal(amount.Neg())).To(BeTrue())
	})

	It("moves the amount between accounts for transfer", func() {
		to := int64(2)
		entries := ledger.Effect(&ledger.Transaction{
			Kind:          ledger.KindTransfer,
			Amount:        amount,
			FromAccountID: 1,
			ToAccountID:   &to,
		})
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].AccountID).To(Equal(int64(1)))
		Expect(entries[0].Delta.Equal(amount.Neg())).To(BeTrue())
		Expect(entries[1].AccountID).To(Equal(int64(2)))
		Expect(entries[1].Delta.Equal(amount)).To(BeTrue())
	})

	It("returns nothing for a transfer without destination", func() {
		entries := ledger.Effect(&ledger.Transaction{
			Kind:          ledger.KindTransfer,
			Amount:        amount,
			FromAccountID: 1,
		})
		Expect(entries).To(BeEmpty())
	})
})

var _ = Describe("Reversed", func() {
	It("negates every leg so apply-then-reverse restores balances exactly", func() {
		to := int64(2)
		t := &ledger.Transaction{
			Kind:          ledger.KindTransfer,
			Amount:        decimal.RequireFromString("0.10"),
			FromAccountID: 1,
			ToAccountID:   &to,
		}

		balances := map[int64]decimal.Decimal{
			1: decimal.RequireFromString("100.00"),
			2: decimal.RequireFromString("50.00"),
		}
		apply := func(entries []ledger.Entry) {
			for _, e := range entries {
				balances[e.AccountID] = balances[e.AccountID].Add(e.Delta)
			}
		}

		entries := ledger.Effect(t)
		apply(entries)
		apply(ledger.Reversed(entries))

		Expect(balances[1].Equal(decimal.RequireFromString("100.00"))).To(BeTrue())
		Expect(balances[2].Equal(decimal.RequireFromString("50.00"))).To(BeTrue())
	})
})

var _ = Describe("NormalizeKind", func() {
	It("matches case-insensitively with padding", func() {
		Expect(ledger.NormalizeKind(" Income ")).To(Equal(ledger.KindIncome))
		Expect(ledger.NormalizeKind("EXPENSE")).To(Equal(ledger.KindExpense))
		Expect(ledger.NormalizeKind("transfer")).To(Equal(ledger.KindTransfer))
	})

	It("maps unrecognized input to empty", func() {
		Expect(ledger.NormalizeKind("withdrawal")).To(Equal(""))
		Expect(ledger.NormalizeKind("")).To(Equal(""))
	})
})
