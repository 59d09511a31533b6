package voice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// transcriptionClient is the subset of the OpenAI client used here.
type transcriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperConfig configures the Whisper recognizer.
type WhisperConfig struct {
	APIKey   string
	Model    string
	Language string
	// RecordCommand records one utterance into the file named by the
	// {file} placeholder, e.g. "arecord -q -d 4 -f S16_LE -r 16000 {file}".
	RecordCommand string
	// AudioFile is transcribed as-is when no RecordCommand is set.
	AudioFile string
}

// WhisperRecognizer records a clip with an external command (or reads a
// prepared file) and transcribes it with OpenAI audio transcription.
type WhisperRecognizer struct {
	client transcriptionClient
	cfg    WhisperConfig
}

// NewWhisperRecognizer builds a recognizer backed by the OpenAI API.
func NewWhisperRecognizer(cfg WhisperConfig) *WhisperRecognizer {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	var client transcriptionClient
	if cfg.APIKey != "" {
		client = openai.NewClient(cfg.APIKey)
	}
	return &WhisperRecognizer{client: client, cfg: cfg}
}

// Available implements service.Recognizer.
func (r *WhisperRecognizer) Available() bool {
	if r.client == nil {
		return false
	}
	if r.cfg.RecordCommand != "" {
		return true
	}
	if r.cfg.AudioFile == "" {
		return false
	}
	_, err := os.Stat(r.cfg.AudioFile)
	return err == nil
}

// Recognize implements service.Recognizer.
func (r *WhisperRecognizer) Recognize(ctx context.Context) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("OpenAI API key is required")
	}

	path := r.cfg.AudioFile
	if r.cfg.RecordCommand != "" {
		recorded, cleanup, err := r.record(ctx)
		if err != nil {
			return "", err
		}
		defer cleanup()
		path = recorded
	}

	resp, err := r.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    r.cfg.Model,
		FilePath: path,
		Language: r.cfg.Language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	slog.Debug("Voice transcript received", "model", r.cfg.Model, "chars", len(resp.Text))

	return resp.Text, nil
}

func (r *WhisperRecognizer) record(ctx context.Context) (string, func(), error) {
	f, err := os.CreateTemp("", "spicefx-*.wav")
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create recording file: %w", err)
	}
	path := f.Name()
	_ = f.Close()
	cleanup := func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.Warn("Failed to remove recording", "path", path, "error", rmErr)
		}
	}

	command := strings.ReplaceAll(r.cfg.RecordCommand, "{file}", path)
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if out, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("recording failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return path, cleanup, nil
}
