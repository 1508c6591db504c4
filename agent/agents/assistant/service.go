package assistant

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/facebank-assistant/agent/contract"
	nodex "github.com/tanpawarit/facebank-assistant/agent/nodes"
	sessionx "github.com/tanpawarit/facebank-assistant/agent/session"
)

var (
	ErrInvalidMessage   = nodex.ErrInvalidMessage
	ErrInvalidSession   = nodex.ErrInvalidSession
	ErrNotAuthenticated = sessionx.ErrNotAuthenticated
)

// Assistant runs one chat turn against a caller-owned session.
type Assistant struct {
	responder contractx.Responder

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(responder contractx.Responder) (*Assistant, error) {
	if responder == nil {
		return nil, errors.New("responder is required")
	}

	a := &Assistant{
		responder: responder,
	}

	graphRunner, err := a.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	a.graphRunner = graphRunner

	return a, nil
}

// HandleMessage answers text and records both sides of the exchange in sess.
func (a *Assistant) HandleMessage(ctx context.Context, sess *sessionx.Session, text string) (string, error) {
	out, err := a.graphRunner.Invoke(ctx, nodex.GraphInput{
		Session: sess,
		Text:    text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
