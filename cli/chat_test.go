package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountx "github.com/tanpawarit/facebank-assistant/agent/account"
	assistantx "github.com/tanpawarit/facebank-assistant/agent/agents/assistant"
	archivex "github.com/tanpawarit/facebank-assistant/agent/archive"
	intentx "github.com/tanpawarit/facebank-assistant/agent/intent"
	sessionx "github.com/tanpawarit/facebank-assistant/agent/session"
	appx "github.com/tanpawarit/facebank-assistant/app"
)

func newTestApp(t *testing.T) *appx.App {
	t.Helper()

	local := intentx.New(nil)
	assistant, err := assistantx.New(local)
	require.NoError(t, err)

	return &appx.App{
		Session: sessionx.New(&accountx.UserAccount{
			Name:    "Sita Devi",
			Balance: decimal.RequireFromString("2000.90"),
		}),
		Assistant: assistant,
		Responder: local,
		Archive:   archivex.NewMemoryStore(time.Hour),
	}
}

func writeImage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "face.jpg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runREPL(t *testing.T, a *appx.App, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, NewREPL(a, in, &out).Run(context.Background()))
	return out.String()
}

func TestREPLRequiresLogin(t *testing.T) {
	a := newTestApp(t)

	out := runREPL(t, a, "balance", "/balance")
	assert.Equal(t, 2, strings.Count(out, loginHint))
	assert.Equal(t, 0, a.Session.Log.Len())
}

func TestREPLLoginAndTransfer(t *testing.T) {
	a := newTestApp(t)
	image := writeImage(t, "jpeg")

	out := runREPL(t, a,
		"/login "+image,
		"/login "+image,
		"send 1500 to Ramesh",
		"/balance",
		"/quit",
		"balance",
	)

	assert.Contains(t, out, "FaceBank: Hello Sita Devi! I'm FaceBank. How can I assist you today?")
	assert.Contains(t, out, "Face already verified.")
	assert.Contains(t, out, "FaceBank: ₹1500 sent successfully. New balance ₹500.")
	assert.Contains(t, out, "Sita Devi: ₹500")
	assert.Contains(t, out, "Goodbye.")
	assert.NotContains(t, out, "Your current balance")
	assert.Equal(t, 3, a.Session.Log.Len())
}

func TestREPLEmptyImage(t *testing.T) {
	a := newTestApp(t)
	image := writeImage(t, "")

	out := runREPL(t, a, "/login "+image, "/login", "/login missing.jpg")
	assert.Contains(t, out, "Face verification failed")
	assert.Contains(t, out, "Usage: /login <image-path>")
	assert.Contains(t, out, "Could not read image")
	assert.False(t, a.Session.Authenticated)
}

func TestREPLResetAndExport(t *testing.T) {
	a := newTestApp(t)
	image := writeImage(t, "jpeg")
	exportPath := filepath.Join(t.TempDir(), "session.json")

	out := runREPL(t, a,
		"/login "+image,
		"hello",
		"/reset",
		"balance",
		"/export "+exportPath,
		"/unknown",
	)
	assert.Contains(t, out, "Conversation cleared.")
	assert.Contains(t, out, "Session exported to "+exportPath)
	assert.Contains(t, out, "Unknown command /unknown.")

	doc, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	snap, err := sessionx.DecodeExport(doc)
	require.NoError(t, err)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "balance", snap.Messages[0].Content)
	assert.Equal(t, "Your current balance is ₹2000.", snap.Messages[1].Content)
}

func TestREPLPassesChatLinesAsTyped(t *testing.T) {
	a := newTestApp(t)
	image := writeImage(t, "jpeg")

	out := runREPL(t, a, "/login "+image, "  send 20", "   ")
	assert.Contains(t, out, "You can ask me to")
	assert.Empty(t, a.Session.Account.Transactions)
	assert.Equal(t, 3, a.Session.Log.Len())
}

func TestChatCommandWithoutEnvFile(t *testing.T) {
	dataDir, err := filepath.Abs(filepath.Join("..", "data"))
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("FACEBANK_DATA_DIR", dataDir)
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("UPSTASH_URL", "")
	t.Setenv("UPSTASH_TOKEN", "")

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs([]string{"chat"})
	root.SetIn(strings.NewReader("/quit\n"))
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Goodbye.")
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "chat"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("env"))
}
