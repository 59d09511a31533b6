package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-spice-must-convert/internal/cli"
	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/notify"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
	"github.com/Veraticus/the-spice-must-convert/internal/voice"
	"github.com/spf13/cobra"
)

func voiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Capture one spoken conversion and print the result",
		Long: `Listen for a single command such as "convert 100 USD to PKR" and print the conversion.

Audio is recorded with voice.record_command and transcribed with OpenAI Whisper.
Use --file to transcribe an existing recording, or --transcript to skip audio.`,
		Args: cobra.NoArgs,
		RunE: runVoice,
	}

	cmd.Flags().String("transcript", "", "Interpret this text instead of capturing audio")
	cmd.Flags().String("file", "", "Transcribe this audio file instead of recording")

	return cmd
}

func runVoice(cmd *cobra.Command, _ []string) error {
	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Voice capture")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	transcriptFlag, _ := cmd.Flags().GetString("transcript")
	audioFile, _ := cmd.Flags().GetString("file")

	listener := voice.NewListener(newRecognizer(cfg, transcriptFlag, audioFile))
	if !listener.Available() {
		return common.NewUserError(common.MsgNoCapability, common.ErrCapabilityUnavailable)
	}

	provider, err := newRateProvider(cfg)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(ctx, provider)
	if err != nil {
		return err
	}

	console := notify.NewConsole(cmd.ErrOrStderr())
	if transcriptFlag == "" {
		console.Notify(service.LevelInfo, cli.VoiceIcon+" Listening...")
	}

	transcript, err := listen(ctx, listener)
	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		return err
	}

	command, err := voice.Interpret(transcript, catalog)
	if err != nil {
		slog.Debug("Voice command not understood", "transcript", transcript, "error", err)
		return common.NewUserError(common.MsgUnrecognized, err)
	}

	result, err := convertOnce(ctx, provider, catalog, model.NewAmount(command.Amount), command.From, command.To)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatConversion(converter.FormatResult(result)))
	return nil
}

// listen runs one capture session and returns its transcript.
func listen(ctx context.Context, listener *voice.Listener) (string, error) {
	session, err := listener.Start(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSessionActive) {
			return "", common.NewUserError(common.MsgSessionActive, err)
		}
		return "", common.NewUserError(common.MsgNoCapability, err)
	}

	var transcript string
	for ev := range session.Events() {
		switch ev.Kind { //nolint:exhaustive // EventEnded closes the channel
		case voice.EventTranscript:
			transcript = ev.Transcript
		case voice.EventError:
			err = ev.Err
		}
	}

	switch {
	case err != nil:
		return "", common.NewUserError(common.MsgVoiceFailed, err)
	case transcript == "":
		return "", common.NewUserError(common.MsgUnrecognized, common.ErrUnrecognizedCommand)
	}
	return transcript, nil
}
