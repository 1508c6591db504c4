package assistantnode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/facebank-assistant/agent/contract"
)

func Respond(
	ctx context.Context,
	in *GraphState,
	responder contractx.Responder,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	in.Reply = strings.TrimSpace(responder.Respond(ctx, in.Text, in.Session.Account))
	return in, nil
}
