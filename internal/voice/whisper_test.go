package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscriptionClient struct {
	err      error
	text     string
	requests []openai.AudioRequest
}

func (f *fakeTranscriptionClient) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.AudioResponse{}, f.err
	}
	return openai.AudioResponse{Text: f.text}, nil
}

func TestWhisperRecognizer_Available(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.wav")
	require.NoError(t, os.WriteFile(clip, []byte("RIFF"), 0o600))

	tests := []struct {
		name string
		cfg  WhisperConfig
		want bool
	}{
		{name: "no key", cfg: WhisperConfig{AudioFile: clip}, want: false},
		{name: "key without source", cfg: WhisperConfig{APIKey: "sk-test"}, want: false},
		{name: "key with missing file", cfg: WhisperConfig{APIKey: "sk-test", AudioFile: filepath.Join(dir, "nope.wav")}, want: false},
		{name: "key with file", cfg: WhisperConfig{APIKey: "sk-test", AudioFile: clip}, want: true},
		{name: "key with record command", cfg: WhisperConfig{APIKey: "sk-test", RecordCommand: "true"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewWhisperRecognizer(tt.cfg).Available())
		})
	}
}

func TestWhisperRecognizer_TranscribesFile(t *testing.T) {
	clip := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(clip, []byte("RIFF"), 0o600))

	fake := &fakeTranscriptionClient{text: "Convert 100 USD to PKR"}
	r := &WhisperRecognizer{client: fake, cfg: WhisperConfig{AudioFile: clip, Model: openai.Whisper1, Language: "en"}}

	got, err := r.Recognize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Convert 100 USD to PKR", got)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, clip, fake.requests[0].FilePath)
	assert.Equal(t, openai.Whisper1, fake.requests[0].Model)
	assert.Equal(t, "en", fake.requests[0].Language)
}

func TestWhisperRecognizer_RecordsThenCleansUp(t *testing.T) {
	fake := &fakeTranscriptionClient{text: "convert 1 eur to usd"}
	r := &WhisperRecognizer{client: fake, cfg: WhisperConfig{RecordCommand: "printf RIFF > {file}"}}

	_, err := r.Recognize(context.Background())
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	_, statErr := os.Stat(fake.requests[0].FilePath)
	assert.True(t, os.IsNotExist(statErr), "recording should be removed after transcription")
}

func TestWhisperRecognizer_Errors(t *testing.T) {
	t.Run("recording fails", func(t *testing.T) {
		fake := &fakeTranscriptionClient{}
		r := &WhisperRecognizer{client: fake, cfg: WhisperConfig{RecordCommand: "exit 3"}}

		_, err := r.Recognize(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recording failed")
		assert.Empty(t, fake.requests)
	})

	t.Run("transcription fails", func(t *testing.T) {
		fake := &fakeTranscriptionClient{err: errors.New("quota exceeded")}
		r := &WhisperRecognizer{client: fake, cfg: WhisperConfig{AudioFile: "clip.wav"}}

		_, err := r.Recognize(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("no key", func(t *testing.T) {
		_, err := NewWhisperRecognizer(WhisperConfig{AudioFile: "clip.wav"}).Recognize(context.Background())
		require.Error(t, err)
	})
}
