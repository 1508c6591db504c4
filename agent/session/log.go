package session

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Entry struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// ConversationLog is an append-only transcript that can be cleared.
type ConversationLog struct {
	entries []Entry
	now     func() time.Time
}

func NewConversationLog(now func() time.Time) *ConversationLog {
	if now == nil {
		now = time.Now
	}
	return &ConversationLog{now: now}
}

func (l *ConversationLog) Append(role Role, text string) Entry {
	e := Entry{
		Role:    role,
		Content: text,
		Time:    l.now().UTC(),
	}
	l.entries = append(l.entries, e)
	return e
}

// All returns a copy of the entries in insertion order.
func (l *ConversationLog) All() []Entry {
	return append([]Entry{}, l.entries...)
}

func (l *ConversationLog) Len() int {
	return len(l.entries)
}

func (l *ConversationLog) Clear() {
	l.entries = nil
}
