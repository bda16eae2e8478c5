package catalog_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/money-ledger/internal/catalog"
)

var _ = Describe("DisplayName", func() {
	It("capitalizes plain tokens", func() {
		Expect(catalog.DisplayName("groceries")).To(Equal("Groceries"))
		Expect(catalog.DisplayName("dining out")).To(Equal("Dining Out"))
	})

	It("upper-cases known abbreviations", func() {
		Expect(catalog.DisplayName("atm withdrawal")).To(Equal("ATM Withdrawal"))
		Expect(catalog.DisplayName("tv subscription")).To(Equal("TV Subscription"))
		Expect(catalog.DisplayName("covid test")).To(Equal("COVID Test"))
	})

	It("applies the mc prefix rule", func() {
		Expect(catalog.DisplayName("mcdonald")).To(Equal("McDonald"))
		Expect(catalog.DisplayName("mcdonalds drive thru")).To(Equal("McDonalds Drive Thru"))
	})

	It("applies the mac prefix rule", func() {
		Expect(catalog.DisplayName("macbook repair")).To(Equal("MacBook Repair"))
	})

	It("does not treat a bare mc as a prefix", func() {
		Expect(catalog.DisplayName("mc")).To(Equal("Mc"))
		Expect(catalog.DisplayName("mac")).To(Equal("Mac"))
	})

	It("keeps hyphens in hyphenated names", func() {
		Expect(catalog.DisplayName("check-in fee")).To(Equal("Check-In-Fee"))
		Expect(catalog.DisplayName("e-transfer")).To(Equal("E-Transfer"))
	})

	It("is idempotent on already-cased input", func() {
		Expect(catalog.DisplayName("ATM Withdrawal")).To(Equal("ATM Withdrawal"))
	})

	It("returns empty input unchanged", func() {
		Expect(catalog.DisplayName("")).To(Equal(""))
	})
})

var _ = Describe("Normalize", func() {
	It("trims and lowercases", func() {
		Expect(catalog.Normalize("  Chase Checking  ")).To(Equal("chase checking"))
	})

	It("maps whitespace-only input to empty", func() {
		Expect(catalog.Normalize("   ")).To(Equal(""))
	})
})
