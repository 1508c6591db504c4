// Package remote forwards messages to a hosted chat model and falls back to
// the local agent whenever the model cannot produce a reply.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	accountx "github.com/tanpawarit/facebank-assistant/agent/account"
	contractx "github.com/tanpawarit/facebank-assistant/agent/contract"
	llmx "github.com/tanpawarit/facebank-assistant/agent/llm"
	promptx "github.com/tanpawarit/facebank-assistant/agent/prompt"
	metricsx "github.com/tanpawarit/facebank-assistant/pkg/metrics"
)

var _ contractx.Responder = (*Adapter)(nil)

// Result is the outcome of one remote attempt.
type Result struct {
	Reply string
	Err   error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// OrElse returns the remote reply, or the fallback's reply on any failure.
func (r Result) OrElse(fallback func() string) string {
	if r.OK() {
		return r.Reply
	}
	return fallback()
}

type Adapter struct {
	runner   compose.Runnable[map[string]any, *schema.Message]
	catalog  accountx.Catalog
	prompts  promptx.PromptSet
	fallback contractx.Responder
}

func New(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	catalog accountx.Catalog,
	fallback contractx.Responder,
) (*Adapter, error) {
	if chatModel == nil {
		return nil, contractx.ErrRemoteDisabled
	}
	if fallback == nil {
		return nil, errors.New("fallback responder is required")
	}

	prompts := promptx.LoadPromptSet()
	runner, err := compileReplyGraph(ctx, chatModel, prompts.System)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	return &Adapter{
		runner:   runner,
		catalog:  catalog,
		prompts:  prompts,
		fallback: fallback,
	}, nil
}

// Respond never fails: a failed attempt is answered by the fallback.
func (a *Adapter) Respond(ctx context.Context, text string, acct *accountx.UserAccount) string {
	res := a.Attempt(ctx, text, acct)
	if !res.OK() {
		log.Ctx(ctx).Warn().Err(res.Err).Msg("remote model failed, falling back to local agent")
		metricsx.RemoteFallbacksTotal.Inc()
	} else {
		metricsx.RepliesTotal.WithLabelValues(string(contractx.SourceRemote)).Inc()
	}
	return res.OrElse(func() string {
		return a.fallback.Respond(ctx, text, acct)
	})
}

// Attempt asks the remote model once. It does not touch acct.
func (a *Adapter) Attempt(ctx context.Context, text string, acct *accountx.UserAccount) Result {
	if acct == nil {
		return Result{Err: fmt.Errorf("%w: account is nil", contractx.ErrValidation)}
	}

	input, err := a.userContext(text, acct)
	if err != nil {
		return Result{Err: err}
	}

	msg, err := a.runner.Invoke(ctx, map[string]any{
		"input": input,
	})
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)}
	}
	if msg == nil {
		return Result{Err: fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)}
	}

	reply := strings.TrimSpace(msg.Content)
	if reply == "" {
		return Result{Err: fmt.Errorf("%w: model reply is empty", contractx.ErrSchemaViolation)}
	}
	return Result{Reply: reply}
}

func (a *Adapter) userContext(text string, acct *accountx.UserAccount) (string, error) {
	transactions := acct.Transactions
	if transactions == nil {
		transactions = []accountx.Transaction{}
	}
	txJSON, err := json.Marshal(transactions)
	if err != nil {
		return "", fmt.Errorf("%w: marshal transactions: %v", contractx.ErrValidation, err)
	}

	catalog := a.catalog
	if catalog == nil {
		catalog = accountx.Catalog{}
	}
	plansJSON, err := json.Marshal(catalog)
	if err != nil {
		return "", fmt.Errorf("%w: marshal fd plans: %v", contractx.ErrValidation, err)
	}

	return a.prompts.RenderUserContext(
		acct.Name,
		acct.Balance.Truncate(0).String(),
		string(txJSON),
		string(plansJSON),
		text,
	), nil
}

// Select returns remote when it is available, otherwise local.
func Select(remote *Adapter, local contractx.Responder) contractx.Responder {
	if remote == nil {
		return local
	}
	return remote
}

// FromConfig builds the responder for cfg. Missing credentials or a model
// that fails to initialize leave the assistant on local.
func FromConfig(
	ctx context.Context,
	cfg llmx.Config,
	catalog accountx.Catalog,
	local contractx.Responder,
) contractx.Responder {
	logger := log.Ctx(ctx)
	if !cfg.Enabled() {
		logger.Info().Msg("remote model not configured, using local agent")
		return local
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn().Err(err).Msg("invalid remote model config, using local agent")
		return local
	}

	groqCfg := cfg.Groq()
	chatModel, err := groqCfg.New(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("remote model initialization failed, using local agent")
		return local
	}

	adapter, err := New(ctx, chatModel, catalog, local)
	if err != nil {
		logger.Warn().Err(err).Msg("remote adapter initialization failed, using local agent")
		return local
	}

	logger.Info().Str("model", groqCfg.Model).Msg("remote model enabled")
	return Select(adapter, local)
}
