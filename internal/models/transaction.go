package models

// TransactionKind distinguishes expenses from settlements.
type TransactionKind string

const (
	// KindExpense is a shared cost paid by one member and divided evenly.
	KindExpense TransactionKind = "expense"
	// KindSettlement is a direct repayment from one member to another.
	KindSettlement TransactionKind = "settlement"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	return k == KindExpense || k == KindSettlement
}

// Transaction is one entry in a trip's ledger.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	TripID string
	Kind   TransactionKind

	// Title describes the expense (e.g., "Ramen"). Optional for settlements.
	Title string

	// Amount is positive, in Currency units.
	Amount   float64
	Currency string

	// PaidBy is the member who paid. For a settlement, this is the debtor
	// repaying.
	PaidBy string

	// SplitAmong is the participant set of an expense. For a settlement it is
	// the one-element set holding the recipient.
	SplitAmong []string

	// CreatedBy is the user who recorded the transaction.
	CreatedBy string

	CreatedAt int64
	UpdatedAt int64
}

// Recipient returns the settlement recipient, or "" when there is none.
func (t *Transaction) Recipient() string {
	if t.Kind != KindSettlement || len(t.SplitAmong) == 0 {
		return ""
	}
	return t.SplitAmong[0]
}
