package assistantnode

import (
	"errors"
	"strings"

	sessionx "github.com/tanpawarit/facebank-assistant/agent/session"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session is missing")
)

type GraphInput struct {
	Session *sessionx.Session
	Text    string
}

type GraphOutput struct {
	Reply string
}

type GraphState struct {
	Session *sessionx.Session
	Text    string

	Reply string
}

// ValidateRequest rejects blank messages but passes the text on unchanged;
// intent matching sees exactly what the user typed.
func ValidateRequest(in GraphInput) (*GraphState, error) {
	if in.Session == nil || in.Session.Account == nil || in.Session.Log == nil {
		return nil, ErrInvalidSession
	}
	if !in.Session.Authenticated {
		return nil, sessionx.ErrNotAuthenticated
	}

	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		Session: in.Session,
		Text:    in.Text,
	}, nil
}
