// Package session holds the per-user state of one assistant session: the
// mutable account copy, the conversation log and the login gate.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	accountx "github.com/tanpawarit/facebank-assistant/agent/account"
	promptx "github.com/tanpawarit/facebank-assistant/agent/prompt"
)

var (
	ErrNoImage          = errors.New("no face image captured")
	ErrNotAuthenticated = errors.New("session is not authenticated")
	ErrNilSession       = errors.New("session is nil")
)

// ExportFileName is the suggested name for a downloaded export.
const ExportFileName = "facebank_session.json"

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is owned by the caller and passed explicitly to every handler.
type Session struct {
	Account       *accountx.UserAccount
	Log           *ConversationLog
	Authenticated bool

	now func() time.Time
}

// New starts a session on a private copy of acct.
func New(acct *accountx.UserAccount, opts ...Option) *Session {
	s := &Session{
		Account: acct.Clone(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.Log = NewConversationLog(s.now)
	return s
}

// Login simulates face verification: any non-empty image passes. The
// greeting is appended on the first successful login only.
func (s *Session) Login(image []byte) error {
	if s == nil {
		return ErrNilSession
	}
	if len(image) == 0 {
		return ErrNoImage
	}
	if s.Authenticated {
		return nil
	}
	s.Authenticated = true
	s.Log.Append(RoleAssistant, promptx.Greeting(s.Account.Name))
	return nil
}

// Reset clears the conversation. Account and login state are kept.
func (s *Session) Reset() {
	s.Log.Clear()
}

// Snapshot is the exported form of a session.
type Snapshot struct {
	User     *accountx.UserAccount `json:"user"`
	Messages []Entry               `json:"messages"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		User:     s.Account.Clone(),
		Messages: s.Log.All(),
	}
}

// Export renders the current account and transcript as indented JSON.
func (s *Session) Export() ([]byte, error) {
	if s == nil {
		return nil, ErrNilSession
	}
	doc, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session export: %w", err)
	}
	return doc, nil
}

// DecodeExport parses a document produced by Export.
func DecodeExport(doc []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal session export: %w", err)
	}
	return snap, nil
}
