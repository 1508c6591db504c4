// Package app wires the assistant together: it loads the account data,
// picks the responder and owns the single session of the process.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	accountx "github.com/tanpawarit/facebank-assistant/agent/account"
	assistantx "github.com/tanpawarit/facebank-assistant/agent/agents/assistant"
	archivex "github.com/tanpawarit/facebank-assistant/agent/archive"
	contractx "github.com/tanpawarit/facebank-assistant/agent/contract"
	intentx "github.com/tanpawarit/facebank-assistant/agent/intent"
	llmx "github.com/tanpawarit/facebank-assistant/agent/llm"
	remotex "github.com/tanpawarit/facebank-assistant/agent/remote"
	sessionx "github.com/tanpawarit/facebank-assistant/agent/session"
	speechx "github.com/tanpawarit/facebank-assistant/agent/speech"
	configx "github.com/tanpawarit/facebank-assistant/pkg/config"
)

type Config struct {
	DataDir        string        `envconfig:"DATA_DIR" split_words:"true" default:"data"`
	HTTPAddr       string        `envconfig:"HTTP_ADDR" split_words:"true" default:":8080"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" split_words:"true" default:"60s"`
	IdleTimeout    time.Duration `envconfig:"IDLE_TIMEOUT" split_words:"true" default:"120s"`
	MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" split_words:"true" default:"10485760"`
}

type App struct {
	Config      Config
	Catalog     accountx.Catalog
	Session     *sessionx.Session
	Assistant   *assistantx.Assistant
	Responder   contractx.Responder
	Transcriber *speechx.Transcriber
	Archive     archivex.Store
}

// LoadConfig reads the FACEBANK, GROQ and UPSTASH settings.
func LoadConfig() (Config, llmx.Config, archivex.UpstashRedisConfig, error) {
	appCfg, err := configx.New[Config]("FACEBANK")
	if err != nil {
		return Config{}, llmx.Config{}, archivex.UpstashRedisConfig{}, fmt.Errorf("load app config: %w", err)
	}
	llmCfg, err := configx.New[llmx.Config]("GROQ")
	if err != nil {
		return Config{}, llmx.Config{}, archivex.UpstashRedisConfig{}, fmt.Errorf("load groq config: %w", err)
	}
	archiveCfg, err := configx.New[archivex.UpstashRedisConfig]("UPSTASH")
	if err != nil {
		return Config{}, llmx.Config{}, archivex.UpstashRedisConfig{}, fmt.Errorf("load upstash config: %w", err)
	}
	return *appCfg, *llmCfg, *archiveCfg, nil
}

// New loads the data files and builds the session. A data error is fatal;
// remote model, transcription and archive problems only degrade features.
func New(ctx context.Context, cfg Config, llmCfg llmx.Config, archiveCfg archivex.UpstashRedisConfig) (*App, error) {
	user, catalog, err := accountx.LoadDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load account data: %w", err)
	}
	log.Info().
		Str("user", user.Name).
		Int("fd_plans", len(catalog)).
		Msg("account data loaded")

	local := intentx.New(catalog)
	responder := remotex.FromConfig(ctx, llmCfg, catalog, local)

	assistant, err := assistantx.New(responder)
	if err != nil {
		return nil, err
	}

	store, err := archivex.FromConfig(archiveCfg)
	if err != nil {
		log.Warn().Err(err).Msg("export archive unavailable, keeping exports in memory")
		store = archivex.NewMemoryStore(archiveCfg.TTL)
	}

	return &App{
		Config:      cfg,
		Catalog:     catalog,
		Session:     sessionx.New(user),
		Assistant:   assistant,
		Responder:   responder,
		Transcriber: speechx.New(llmCfg),
		Archive:     store,
	}, nil
}
