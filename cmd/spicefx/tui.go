package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/notify"
	"github.com/Veraticus/the-spice-must-convert/internal/tui"
	"github.com/Veraticus/the-spice-must-convert/internal/tui/themes"
	"github.com/Veraticus/the-spice-must-convert/internal/voice"
	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive converter",
		Long: `Open the interactive converter.

Type an amount or an arithmetic expression, pick currencies with enter,
and press ctrl+t to speak a command such as "convert 100 USD to PKR".`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}

	cmd.Flags().String("theme", "", "Color theme (default, catppuccin-mocha)")
	cmd.Flags().Bool("help-keys", false, "Show the full key help on start")

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The UI owns the terminal, so logs go to a file.
	logPath := cfg.Logging.File
	if logPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return fmt.Errorf("failed to get home directory: %w", homeErr)
		}
		logPath = filepath.Join(home, ".config", "spicefx", "spicefx.log")
	}
	if mkErr := os.MkdirAll(filepath.Dir(logPath), 0o750); mkErr != nil {
		return fmt.Errorf("failed to create log directory: %w", mkErr)
	}
	if logErr := setupLogging(logPath); logErr != nil {
		return fmt.Errorf("failed to setup logging: %w", logErr)
	}
	defer func() { _ = logCloser() }()

	provider, err := newRateProvider(cfg)
	if err != nil {
		return err
	}

	toaster := notify.NewToaster(0)
	ctrl := converter.NewController(converter.Config{
		Provider:    provider,
		Notifier:    toaster,
		Listener:    voice.NewListener(newRecognizer(cfg, "", "")),
		Defaults:    cfg.ConverterDefaults(),
		TextDelay:   cfg.Debounce.Text,
		AmountDelay: cfg.Debounce.Amount,
	})

	themeName := cfg.Theme
	if cmd.Flags().Lookup("theme") != nil {
		if flagTheme, _ := cmd.Flags().GetString("theme"); flagTheme != "" {
			themeName = flagTheme
		}
	}
	opts := []tui.Option{tui.WithTheme(themes.GetTheme(themeName))}
	if cmd.Flags().Lookup("help-keys") != nil {
		showHelp, _ := cmd.Flags().GetBool("help-keys")
		opts = append(opts, tui.WithHelp(showHelp))
	}

	common.LogInfo("Starting interactive converter", common.Fields{"from": cfg.Defaults.From, "to": cfg.Defaults.To})
	return tui.Run(ctx, ctrl, toaster, opts...)
}
