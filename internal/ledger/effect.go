package ledger

import (
	"github.com/shopspring/decimal"
)

// Entry is one leg of a transaction's balance effect: a signed decimal
// delta against a single account.
type Entry struct {
	AccountID int64
	Delta     decimal.Decimal
}

// Effect computes the signed balance deltas a transaction implies:
//
//	income:   +amount on the source account
//	expense:  -amount on the source account
//	transfer: -amount on the source, +amount on the destination
//
// The computation is pure; applying the entries is the repository's
// job and always happens inside the caller's atomic unit. Applying the
// result of Effect and then of Reversed restores every touched balance
// exactly, because the deltas are exact decimals.
func Effect(t *Transaction) []Entry {
	switch t.Kind {
	case KindIncome:
		return []Entry{{AccountID: t.FromAccountID, Delta: t.Amount}}
	case KindExpense:
		return []Entry{{AccountID: t.FromAccountID, Delta: t.Amount.Neg()}}
	case KindTransfer:
		if t.ToAccountID == nil {
			return nil
		}
		return []Entry{
			{AccountID: t.FromAccountID, Delta: t.Amount.Neg()},
			{AccountID: *t.ToAccountID, Delta: t.Amount},
		}
	}
	return nil
}

// Reversed negates every leg of an effect.
func Reversed(entries []Entry) []Entry {
	reversed := make([]Entry, len(entries))
	for i, entry := range entries {
		reversed[i] = Entry{AccountID: entry.AccountID, Delta: entry.Delta.Neg()}
	}
	return reversed
}
