// Package intent implements the deterministic keyword agent that answers
// banking requests without any remote model.
package intent

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	accountx "github.com/tanpawarit/facebank-assistant/agent/account"
	contractx "github.com/tanpawarit/facebank-assistant/agent/contract"
	metricsx "github.com/tanpawarit/facebank-assistant/pkg/metrics"
)

type Name string

const (
	IntentBalance  Name = "balance"
	IntentHistory  Name = "history"
	IntentFD       Name = "fd"
	IntentTransfer Name = "transfer"
	IntentHelp     Name = "help"
)

var _ contractx.Responder = (*Agent)(nil)

type Option func(*Agent)

// WithClock overrides the clock used to date new transactions.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) {
		if now != nil {
			a.now = now
		}
	}
}

type Agent struct {
	catalog accountx.Catalog
	rules   []rule
	now     func() time.Time
}

func New(catalog accountx.Catalog, opts ...Option) *Agent {
	a := &Agent{
		catalog: catalog,
		rules:   defaultRules(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Classify reports which intent would handle text.
func (a *Agent) Classify(text string) Name {
	return a.match(strings.ToLower(text)).name
}

// Respond answers text against acct. Only the transfer intent mutates acct.
func (a *Agent) Respond(ctx context.Context, text string, acct *accountx.UserAccount) string {
	if acct == nil {
		return helpMessage
	}

	lowered := strings.ToLower(text)
	r := a.match(lowered)

	log.Ctx(ctx).Debug().Str("intent", string(r.name)).Msg("local agent matched intent")
	metricsx.IntentsTotal.WithLabelValues(string(r.name)).Inc()
	metricsx.RepliesTotal.WithLabelValues(string(contractx.SourceLocal)).Inc()

	return r.handle(a, lowered, acct)
}

func (a *Agent) match(lowered string) rule {
	for _, r := range a.rules {
		if r.match(lowered) {
			return r
		}
	}
	return helpRule
}

func (a *Agent) today() string {
	return a.now().Format(accountx.DateLayout)
}
