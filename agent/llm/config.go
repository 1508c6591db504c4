package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/facebank-assistant/agent/contract"
	groqx "github.com/tanpawarit/facebank-assistant/pkg/groq"
)

// Config is loaded with the GROQ prefix. An empty API key leaves the
// assistant on the local agent.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.groq.com/openai/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"openai/gpt-oss-20b"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"256"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	Disabled           bool          `envconfig:"DISABLED" split_words:"true" default:"false"`

	TranscriptionModel    string `envconfig:"TRANSCRIPTION_MODEL" split_words:"true" default:"whisper-large-v3"`
	TranscriptionLanguage string `envconfig:"TRANSCRIPTION_LANGUAGE" split_words:"true" default:"en"`
}

func (c Config) Enabled() bool {
	return !c.Disabled && strings.TrimSpace(c.APIKey) != ""
}

func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if c.MaxCompletionToken <= 0 {
		return fmt.Errorf("%w: max completion token must be > 0", contractx.ErrValidation)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: temperature must be within [0, 2]", contractx.ErrValidation)
	}
	return nil
}

// Groq returns the client settings for the chat and transcription calls.
func (c Config) Groq() groqx.Config {
	apiKey := strings.TrimSpace(c.APIKey)
	if c.Disabled {
		apiKey = ""
	}
	maxCompletionToken := c.MaxCompletionToken
	return groqx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             apiKey,
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
	}
}
