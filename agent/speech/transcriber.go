// Package speech turns short audio clips into chat input. It is best effort:
// every failure yields an empty transcript.
package speech

import (
	"bytes"
	"context"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
	llmx "github.com/tanpawarit/facebank-assistant/agent/llm"
	groqx "github.com/tanpawarit/facebank-assistant/pkg/groq"
	metricsx "github.com/tanpawarit/facebank-assistant/pkg/metrics"
)

type transcribeFunc func(ctx context.Context, params openaisdk.AudioTranscriptionNewParams) (*openaisdk.Transcription, error)

type Transcriber struct {
	transcribe transcribeFunc
	model      string
	language   string
}

// New returns nil when no API key is configured; a nil Transcriber is valid
// and always yields an empty transcript.
func New(cfg llmx.Config) *Transcriber {
	client := groqx.NewClient(cfg.Groq())
	if client == nil {
		return nil
	}
	return &Transcriber{
		transcribe: func(ctx context.Context, params openaisdk.AudioTranscriptionNewParams) (*openaisdk.Transcription, error) {
			return client.Audio.Transcriptions.New(ctx, params)
		},
		model:    strings.TrimSpace(cfg.TranscriptionModel),
		language: strings.TrimSpace(cfg.TranscriptionLanguage),
	}
}

func (t *Transcriber) Enabled() bool {
	return t != nil && t.transcribe != nil
}

// Transcribe returns the recognized text, or "" when disabled or on failure.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) string {
	logger := log.Ctx(ctx)
	if !t.Enabled() {
		metricsx.TranscriptionsTotal.WithLabelValues("disabled").Inc()
		return ""
	}
	if len(audio) == 0 {
		metricsx.TranscriptionsTotal.WithLabelValues("empty").Inc()
		return ""
	}

	params := openaisdk.AudioTranscriptionNewParams{
		File:  namedReader{Reader: bytes.NewReader(audio), name: clipName(filename)},
		Model: openaisdk.AudioModel(t.model),
	}
	if t.language != "" {
		params.Language = openaisdk.String(t.language)
	}

	out, err := t.transcribe(ctx, params)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to transcribe audio")
		metricsx.TranscriptionsTotal.WithLabelValues("error").Inc()
		return ""
	}
	if out == nil {
		metricsx.TranscriptionsTotal.WithLabelValues("error").Inc()
		return ""
	}

	metricsx.TranscriptionsTotal.WithLabelValues("ok").Inc()
	return strings.TrimSpace(out.Text)
}

// namedReader carries a filename so the upload keeps its audio extension.
type namedReader struct {
	*bytes.Reader
	name string
}

func (r namedReader) Filename() string {
	return r.name
}

func clipName(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "clip.wav"
	}
	return name
}
