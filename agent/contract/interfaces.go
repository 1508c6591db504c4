package contract

import (
	"context"

	accountx "github.com/tanpawarit/facebank-assistant/agent/account"
)

// Responder turns one user message into a reply. Implementations may mutate
// the account (the local agent does for transfers) and never fail.
type Responder interface {
	Respond(ctx context.Context, text string, acct *accountx.UserAccount) string
}

type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)
