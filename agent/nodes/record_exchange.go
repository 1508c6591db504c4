package assistantnode

import (
	"fmt"

	contractx "github.com/tanpawarit/facebank-assistant/agent/contract"
	sessionx "github.com/tanpawarit/facebank-assistant/agent/session"
)

// RecordExchange appends the user message and then the reply.
func RecordExchange(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil || in.Session.Log == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.Log.Append(sessionx.RoleUser, in.Text)
	in.Session.Log.Append(sessionx.RoleAssistant, in.Reply)
	return in, nil
}
