package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountx "github.com/tanpawarit/facebank-assistant/agent/account"
	intentx "github.com/tanpawarit/facebank-assistant/agent/intent"
	sessionx "github.com/tanpawarit/facebank-assistant/agent/session"
)

type fakeResponder struct {
	reply string
	texts []string
}

func (f *fakeResponder) Respond(ctx context.Context, text string, acct *accountx.UserAccount) string {
	f.texts = append(f.texts, text)
	return f.reply
}

func newSession(t *testing.T) *sessionx.Session {
	t.Helper()
	s := sessionx.New(&accountx.UserAccount{Name: "Asha", Balance: decimal.NewFromInt(2000)})
	require.NoError(t, s.Login([]byte{1}))
	return s
}

func TestHandleMessageInvalidInput(t *testing.T) {
	t.Parallel()

	a, err := New(&fakeResponder{reply: "x"})
	require.NoError(t, err)

	_, err = a.HandleMessage(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = a.HandleMessage(context.Background(), newSession(t), "   ")
	assert.ErrorIs(t, err, ErrInvalidMessage)

	locked := sessionx.New(&accountx.UserAccount{Name: "Asha"})
	_, err = a.HandleMessage(context.Background(), locked, "balance")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, locked.Log.Len())
}

func TestHandleMessageRecordsExchange(t *testing.T) {
	t.Parallel()

	responder := &fakeResponder{reply: "  hi there  "}
	a, err := New(responder)
	require.NoError(t, err)

	s := newSession(t)
	reply, err := a.HandleMessage(context.Background(), s, "  hello  ")
	require.NoError(t, err)

	assert.Equal(t, "hi there", reply)
	assert.Equal(t, []string{"  hello  "}, responder.texts)

	entries := s.Log.All()
	require.Len(t, entries, 3)
	assert.Equal(t, sessionx.RoleUser, entries[1].Role)
	assert.Equal(t, "  hello  ", entries[1].Content)
	assert.Equal(t, sessionx.RoleAssistant, entries[2].Role)
	assert.Equal(t, "hi there", entries[2].Content)
}

func TestHandleMessageWithLocalAgent(t *testing.T) {
	t.Parallel()

	local := intentx.New(nil, intentx.WithClock(func() time.Time {
		return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	}))
	a, err := New(local)
	require.NoError(t, err)

	s := newSession(t)
	reply, err := a.HandleMessage(context.Background(), s, "send 1500 to Ramesh")
	require.NoError(t, err)

	assert.Equal(t, "₹1500 sent successfully. New balance ₹500.", reply)
	assert.True(t, s.Account.Balance.Equal(decimal.NewFromInt(500)))
	require.Len(t, s.Account.Transactions, 1)
	assert.Equal(t, "2025-05-01", s.Account.Transactions[0].Date)

	reply, err = a.HandleMessage(context.Background(), s, "What's my balance?")
	require.NoError(t, err)
	assert.Equal(t, "Your current balance is ₹500.", reply)
	assert.Equal(t, 5, s.Log.Len())
}

func TestHandleMessageKeepsLeadingWhitespace(t *testing.T) {
	t.Parallel()

	a, err := New(intentx.New(nil))
	require.NoError(t, err)

	s := newSession(t)
	reply, err := a.HandleMessage(context.Background(), s, "  send 20")
	require.NoError(t, err)

	assert.Contains(t, reply, "You can ask me to")
	assert.Empty(t, s.Account.Transactions)
	assert.True(t, s.Account.Balance.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "  send 20", s.Log.All()[1].Content)
}

func TestNewRequiresResponder(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	assert.Error(t, err)
}
