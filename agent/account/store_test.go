package account

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, UsersFile, `[
		{"name":"Asha","balance":5230.7,"transactions":[{"date":"2025-01-02","type":"debit","amount":100,"desc":"Tea"}]},
		{"name":"Ignored","balance":1}
	]`)
	writeFile(t, dir, FDPlansFile, `[{"duration":"12 months","rate":"7%","min_amount":5000}]`)

	user, plans, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.True(t, user.Balance.Equal(decimal.RequireFromString("5230.7")))
	require.Len(t, user.Transactions, 1)
	assert.Equal(t, TransactionDebit, user.Transactions[0].Type)
	require.Len(t, plans, 1)
	assert.Equal(t, "12 months", plans[0].Duration)
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, UsersFile, `[{"name":"Asha","balance":1}]`)

	_, _, err := LoadDir(dir)
	assert.ErrorIs(t, err, ErrSourceMissing)
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		users string
		plans string
	}{
		{name: "invalid json", users: `{not json`, plans: `[]`},
		{name: "negative balance", users: `[{"name":"A","balance":-1}]`, plans: `[]`},
		{name: "bad date", users: `[{"name":"A","balance":1,"transactions":[{"date":"01/02/2025","type":"debit","amount":1}]}]`, plans: `[]`},
		{name: "bad type", users: `[{"name":"A","balance":1,"transactions":[{"date":"2025-01-02","type":"refund","amount":1}]}]`, plans: `[]`},
		{name: "zero amount", users: `[{"name":"A","balance":1,"transactions":[{"date":"2025-01-02","type":"debit","amount":0}]}]`, plans: `[]`},
		{name: "missing name", users: `[{"balance":1}]`, plans: `[]`},
		{name: "bad rate", users: `[{"name":"A","balance":1}]`, plans: `[{"duration":"1y","rate":"high","min_amount":1}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, UsersFile, tc.users)
			writeFile(t, dir, FDPlansFile, tc.plans)

			_, _, err := LoadDir(dir)
			assert.ErrorIs(t, err, ErrSourceMalformed)
		})
	}
}

func TestLoad_NoUsers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, UsersFile, `[]`)
	writeFile(t, dir, FDPlansFile, `[]`)

	_, _, err := LoadDir(dir)
	assert.ErrorIs(t, err, ErrNoUsers)
}

func TestLoad_ShippedData(t *testing.T) {
	user, plans, err := LoadDir(filepath.Join("..", "..", "data"))
	require.NoError(t, err)
	assert.NotEmpty(t, user.Name)
	assert.NotEmpty(t, plans)
}
