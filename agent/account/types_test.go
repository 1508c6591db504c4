package account

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebit_ClampsAtZero(t *testing.T) {
	u := &UserAccount{Name: "A", Balance: decimal.NewFromInt(50)}

	tx := u.Debit(decimal.NewFromInt(100), "2025-02-01", "Demo transfer")

	assert.True(t, u.Balance.IsZero())
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(100)))
	require.Len(t, u.Transactions, 1)
	assert.Equal(t, TransactionDebit, u.Transactions[0].Type)
}

func TestRecent(t *testing.T) {
	u := &UserAccount{}
	assert.Nil(t, u.Recent(3))

	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04"} {
		u.Transactions = append(u.Transactions, Transaction{Date: d, Type: TransactionCredit, Amount: decimal.NewFromInt(1)})
	}

	got := u.Recent(3)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-01-02", got[0].Date)
	assert.Equal(t, "2025-01-04", got[2].Date)

	assert.Len(t, u.Recent(10), 4)
}

func TestClone_IsIndependent(t *testing.T) {
	orig := &UserAccount{
		Name:         "A",
		Balance:      decimal.NewFromInt(10),
		Transactions: []Transaction{{Date: "2025-01-01", Type: TransactionDebit, Amount: decimal.NewFromInt(1)}},
	}

	c := orig.Clone()
	c.Debit(decimal.NewFromInt(5), "2025-01-02", "x")

	assert.True(t, orig.Balance.Equal(decimal.NewFromInt(10)))
	assert.Len(t, orig.Transactions, 1)
	assert.Len(t, c.Transactions, 2)
}

func TestAmountsMarshalAsNumbers(t *testing.T) {
	raw, err := json.Marshal(Transaction{Date: "2025-01-01", Type: TransactionDebit, Amount: decimal.NewFromInt(1500), Desc: "Demo transfer"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-01-01","type":"debit","amount":1500,"desc":"Demo transfer"}`, string(raw))
}

func TestParseRate(t *testing.T) {
	v, err := ParseRate("7.5%")
	require.NoError(t, err)
	assert.InDelta(t, 7.5, v, 1e-9)

	v, err = ParseRate("7")
	require.NoError(t, err)
	assert.InDelta(t, 7.0, v, 1e-9)

	_, err = ParseRate("n/a")
	assert.Error(t, err)
}
