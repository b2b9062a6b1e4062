// Package ledger derives per-member, per-currency balances from a trip's
// expenses and settlements.
package ledger

import (
	"math"
	"sort"
)

// Kind distinguishes the two entry types the fold understands.
type Kind string

const (
	Expense    Kind = "expense"
	Settlement Kind = "settlement"
)

// Entry is a transaction with the minimal information needed for balance calculations.
type Entry struct {
	Kind     Kind
	Amount   float64
	Currency string

	// PaidBy is the payer of an expense, or the debtor repaying in a settlement.
	PaidBy string

	// SplitAmong is the participant set of an expense. A settlement carries
	// its recipient as the single element.
	SplitAmong []string
}

// Balances maps member ID to currency to signed amount.
// Positive = is owed money, Negative = owes money.
type Balances map[string]map[string]float64

// Transfer is a suggested payment that would settle part of the balances.
type Transfer struct {
	From     string // Member who owes
	To       string // Member who is owed
	Amount   float64
	Currency string
}

// noise is the residue below which amounts are treated as settled.
const noise = 0.01

// Compute folds entries into balances for members.
//
// Every member gets a zero bucket for each of currencies. Entries may arrive
// in any order; the fold is commutative. Payers or participants not in members
// are added as fresh members. Compute never fails: expenses with an empty
// split set and settlements without a recipient are skipped.
//
// Shares are amount/len(SplitAmong) in float64 with no rounding, so an
// expense nets to zero only up to floating-point error.
func Compute(entries []Entry, members []string, currencies []string) Balances {
	b := make(Balances, len(members))
	for _, m := range members {
		b.ensure(m, currencies)
	}

	for _, e := range entries {
		switch e.Kind {
		case Expense:
			if len(e.SplitAmong) == 0 {
				continue
			}
			share := e.Amount / float64(len(e.SplitAmong))
			b.add(e.PaidBy, e.Currency, e.Amount, currencies)
			for _, p := range e.SplitAmong {
				b.add(p, e.Currency, -share, currencies)
			}
		case Settlement:
			if len(e.SplitAmong) == 0 {
				continue
			}
			// Payer's debt shrinks, recipient is owed less.
			b.add(e.PaidBy, e.Currency, e.Amount, currencies)
			b.add(e.SplitAmong[0], e.Currency, -e.Amount, currencies)
		}
	}

	return b
}

func (b Balances) ensure(member string, currencies []string) map[string]float64 {
	buckets, ok := b[member]
	if !ok {
		buckets = make(map[string]float64, len(currencies))
		for _, c := range currencies {
			buckets[c] = 0
		}
		b[member] = buckets
	}
	return buckets
}

func (b Balances) add(member, currency string, amount float64, currencies []string) {
	b.ensure(member, currencies)[currency] += amount
}

// Currencies returns every currency present in b, sorted.
func (b Balances) Currencies() []string {
	seen := make(map[string]bool)
	for _, buckets := range b {
		for c := range buckets {
			seen[c] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SuggestSettlements proposes transfers that would clear the balances,
// independently per currency.
//
// Algorithm (greedy): debtors and creditors are sorted by magnitude, largest
// first, and the largest debt is matched against the largest credit until
// either side is exhausted. Residues below 0.01 are ignored.
func SuggestSettlements(b Balances) []Transfer {
	var transfers []Transfer

	for _, currency := range b.Currencies() {
		type party struct {
			id     string
			amount float64 // always positive
		}
		var debtors, creditors []party
		for id, buckets := range b {
			net := buckets[currency]
			if net > noise {
				creditors = append(creditors, party{id, net})
			} else if net < -noise {
				debtors = append(debtors, party{id, -net})
			}
		}
		byAmount := func(ps []party) {
			sort.Slice(ps, func(i, j int) bool {
				if ps[i].amount != ps[j].amount {
					return ps[i].amount > ps[j].amount
				}
				return ps[i].id < ps[j].id
			})
		}
		byAmount(debtors)
		byAmount(creditors)

		i, j := 0, 0
		for i < len(debtors) && j < len(creditors) {
			amount := math.Min(debtors[i].amount, creditors[j].amount)
			if amount > noise {
				transfers = append(transfers, Transfer{
					From:     debtors[i].id,
					To:       creditors[j].id,
					Amount:   amount,
					Currency: currency,
				})
			}

			debtors[i].amount -= amount
			creditors[j].amount -= amount

			// Move to next debtor/creditor if fully settled
			if debtors[i].amount < noise {
				i++
			}
			if creditors[j].amount < noise {
				j++
			}
		}
	}

	return transfers
}
