package groq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	assert.False(t, (*Config)(nil).Enabled())
	assert.False(t, (&Config{APIKey: "   "}).Enabled())
	assert.True(t, (&Config{APIKey: "gsk_test"}).Enabled())
}

func TestNewRequiresKey(t *testing.T) {
	cfg := &Config{Model: "openai/gpt-oss-20b"}
	_, err := cfg.New(context.Background())
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	assert.Nil(t, NewClient(Config{}))

	client := NewClient(Config{APIKey: "gsk_test", BaseURL: "http://localhost:1234/v1/"})
	require.NotNil(t, client)
}
