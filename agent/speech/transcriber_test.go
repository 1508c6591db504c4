package speech

import (
	"context"
	"errors"
	"io"
	"testing"

	openaisdk "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	llmx "github.com/tanpawarit/facebank-assistant/agent/llm"
)

func fakeTranscriber(fn transcribeFunc) *Transcriber {
	return &Transcriber{transcribe: fn, model: "whisper-large-v3", language: "en"}
}

func TestNewWithoutKeyIsDisabled(t *testing.T) {
	tr := New(llmx.Config{})
	assert.Nil(t, tr)
	assert.False(t, tr.Enabled())
	assert.Equal(t, "", tr.Transcribe(context.Background(), []byte("RIFF"), "a.wav"))
}

func TestNewWithKey(t *testing.T) {
	tr := New(llmx.Config{APIKey: "gsk_test", TranscriptionModel: "whisper-large-v3"})
	require.NotNil(t, tr)
	assert.True(t, tr.Enabled())
}

func TestTranscribe(t *testing.T) {
	var got openaisdk.AudioTranscriptionNewParams
	tr := fakeTranscriber(func(ctx context.Context, params openaisdk.AudioTranscriptionNewParams) (*openaisdk.Transcription, error) {
		got = params
		return &openaisdk.Transcription{Text: "  send 500 to Ramesh "}, nil
	})

	text := tr.Transcribe(context.Background(), []byte("RIFFdata"), "voice.m4a")
	assert.Equal(t, "send 500 to Ramesh", text)
	assert.Equal(t, openaisdk.AudioModel("whisper-large-v3"), got.Model)

	named, ok := got.File.(interface{ Filename() string })
	require.True(t, ok)
	assert.Equal(t, "voice.m4a", named.Filename())
	body, err := io.ReadAll(got.File)
	require.NoError(t, err)
	assert.Equal(t, "RIFFdata", string(body))
}

func TestTranscribeFailureIsEmpty(t *testing.T) {
	tr := fakeTranscriber(func(ctx context.Context, params openaisdk.AudioTranscriptionNewParams) (*openaisdk.Transcription, error) {
		return nil, errors.New("503")
	})
	assert.Equal(t, "", tr.Transcribe(context.Background(), []byte("x"), ""))
}

func TestTranscribeEmptyAudio(t *testing.T) {
	called := false
	tr := fakeTranscriber(func(ctx context.Context, params openaisdk.AudioTranscriptionNewParams) (*openaisdk.Transcription, error) {
		called = true
		return &openaisdk.Transcription{Text: "x"}, nil
	})
	assert.Equal(t, "", tr.Transcribe(context.Background(), nil, "a.wav"))
	assert.False(t, called)
}

func TestClipName(t *testing.T) {
	assert.Equal(t, "clip.wav", clipName("  "))
	assert.Equal(t, "a.mp3", clipName("a.mp3"))
}
