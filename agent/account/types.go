package account

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Snapshots go to the model and to exported sessions as plain numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

// DateLayout is the calendar date format used by transaction records.
const DateLayout = "2006-01-02"

type Transaction struct {
	Date   string          `json:"date" validate:"required,datetime=2006-01-02"`
	Type   TransactionType `json:"type" validate:"required,oneof=debit credit"`
	Amount decimal.Decimal `json:"amount"`
	Desc   string          `json:"desc"`
}

// UserAccount is the banking profile of the single demo user.
// Transactions are kept in chronological (insertion) order.
type UserAccount struct {
	Name         string          `json:"name" validate:"required"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions" validate:"dive"`
}

// Clone returns a deep copy so the session can mutate it freely.
func (u *UserAccount) Clone() *UserAccount {
	if u == nil {
		return nil
	}
	out := &UserAccount{
		Name:    u.Name,
		Balance: u.Balance,
	}
	if u.Transactions != nil {
		out.Transactions = append(make([]Transaction, 0, len(u.Transactions)), u.Transactions...)
	}
	return out
}

// Debit subtracts amount from the balance, flooring at zero, and records the
// transaction. The recorded amount is the requested one, not the clamped one.
func (u *UserAccount) Debit(amount decimal.Decimal, date string, desc string) Transaction {
	next := u.Balance.Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	u.Balance = next

	tx := Transaction{
		Date:   date,
		Type:   TransactionDebit,
		Amount: amount,
		Desc:   desc,
	}
	u.Transactions = append(u.Transactions, tx)
	return tx
}

// Recent returns up to n of the latest transactions, oldest first.
func (u *UserAccount) Recent(n int) []Transaction {
	if u == nil || n <= 0 || len(u.Transactions) == 0 {
		return nil
	}
	start := len(u.Transactions) - n
	if start < 0 {
		start = 0
	}
	return append([]Transaction(nil), u.Transactions[start:]...)
}

// FDPlan is a read-only fixed-deposit offer.
type FDPlan struct {
	Duration  string          `json:"duration" validate:"required"`
	Rate      string          `json:"rate" validate:"required"`
	MinAmount decimal.Decimal `json:"min_amount"`
}

// Catalog is the ordered list of FD plans. Order matters for tie-breaks.
type Catalog []FDPlan
