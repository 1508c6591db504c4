package prompt

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed template/system.txt
	systemRaw string

	//go:embed template/greeting.txt
	greetingRaw string

	//go:embed template/user_context.txt
	userContextRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	System      string
	UserContext string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		System:      strings.TrimSpace(systemRaw),
		UserContext: strings.TrimSpace(userContextRaw),
	}
}

// Greeting is the assistant's first message after a successful login.
func Greeting(name string) string {
	return fmt.Sprintf(strings.TrimSpace(greetingRaw), name)
}

// RenderUserContext renders the user message sent to the remote model. The
// serialized arguments are expected to be JSON already.
func (p PromptSet) RenderUserContext(name, balance, transactionsJSON, plansJSON, question string) string {
	return fmt.Sprintf(p.UserContext, name, balance, transactionsJSON, plansJSON, question)
}
