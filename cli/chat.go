package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	intentx "github.com/tanpawarit/facebank-assistant/agent/intent"
	sessionx "github.com/tanpawarit/facebank-assistant/agent/session"
	appx "github.com/tanpawarit/facebank-assistant/app"
)

const (
	prompt = "> "

	loginHint = "Please verify your face first with /login <image-path>."
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			return NewREPL(a, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}
}

// REPL reads one line at a time and runs it to completion before the next.
type REPL struct {
	app *appx.App
	in  io.Reader
	out io.Writer
}

func NewREPL(a *appx.App, in io.Reader, out io.Writer) *REPL {
	return &REPL{app: a, in: in, out: out}
}

// Run returns when the input ends, /quit is entered or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "FaceBank assistant. Commands: /login <image-path>, /reset, /export <path>, /balance, /quit")

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, prompt)
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		if quit := r.handle(ctx, scanner.Text()); quit {
			return nil
		}
	}
	fmt.Fprintln(r.out)
	return scanner.Err()
}

// handle runs one input line. Chat lines go to the assistant as typed.
func (r *REPL) handle(ctx context.Context, raw string) bool {
	line := strings.TrimSpace(raw)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		r.chat(ctx, raw)
		return false
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		fmt.Fprintln(r.out, "Goodbye.")
		return true
	case "/login":
		r.login(arg)
	case "/reset":
		r.app.Session.Reset()
		fmt.Fprintln(r.out, "Conversation cleared.")
	case "/export":
		r.export(ctx, arg)
	case "/balance":
		r.balance()
	default:
		fmt.Fprintf(r.out, "Unknown command %s.\n", name)
	}
	return false
}

func (r *REPL) login(path string) {
	if path == "" {
		fmt.Fprintln(r.out, "Usage: /login <image-path>")
		return
	}
	image, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.out, "Could not read image: %v\n", err)
		return
	}

	sess := r.app.Session
	before := sess.Log.Len()
	if err := sess.Login(image); err != nil {
		if errors.Is(err, sessionx.ErrNoImage) {
			fmt.Fprintln(r.out, "Face verification failed: no face image captured.")
			return
		}
		fmt.Fprintf(r.out, "Login failed: %v\n", err)
		return
	}

	entries := sess.Log.All()
	if len(entries) > before {
		fmt.Fprintf(r.out, "FaceBank: %s\n", entries[len(entries)-1].Content)
		return
	}
	fmt.Fprintln(r.out, "Face already verified.")
}

func (r *REPL) chat(ctx context.Context, text string) {
	if !r.app.Session.Authenticated {
		fmt.Fprintln(r.out, loginHint)
		return
	}
	reply, err := r.app.Assistant.HandleMessage(ctx, r.app.Session, text)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("message rejected")
		fmt.Fprintf(r.out, "Could not handle message: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "FaceBank: %s\n", reply)
}

func (r *REPL) export(ctx context.Context, path string) {
	if !r.app.Session.Authenticated {
		fmt.Fprintln(r.out, loginHint)
		return
	}
	if path == "" {
		path = sessionx.ExportFileName
	}

	doc, err := r.app.Session.Export()
	if err != nil {
		fmt.Fprintf(r.out, "Export failed: %v\n", err)
		return
	}
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		fmt.Fprintf(r.out, "Export failed: %v\n", err)
		return
	}

	id := uuid.NewString()
	if err := r.app.Archive.Put(ctx, id, doc); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("export_id", id).Msg("failed to archive export")
		fmt.Fprintf(r.out, "Session exported to %s.\n", path)
		return
	}
	fmt.Fprintf(r.out, "Session exported to %s (id %s).\n", path, id)
}

func (r *REPL) balance() {
	if !r.app.Session.Authenticated {
		fmt.Fprintln(r.out, loginHint)
		return
	}
	acct := r.app.Session.Account
	fmt.Fprintf(r.out, "%s: %s%s\n", acct.Name, intentx.CurrencyGlyph, acct.Balance.Truncate(0).String())
}
