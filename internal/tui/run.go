package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/notify"
	tea "github.com/charmbracelet/bubbletea"
)

// Run drives ctrl with the interactive UI until the user quits or ctx is
// done. toaster must be the controller's notifier; it may be nil.
func Run(ctx context.Context, ctrl *converter.Controller, toaster *notify.Toaster, opts ...Option) error {
	if ctrl == nil {
		return errors.New("controller is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	states := newLatestState()
	ctrl.OnChange(states.publish)

	var toasts <-chan notify.Toast
	if toaster != nil {
		toasts = toaster.Toasts()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	programOpts := []tea.ProgramOption{tea.WithContext(runCtx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(New(ctrl, states, toasts, opts...), programOpts...)

	ctrlErr := make(chan error, 1)
	go func() {
		ctrlErr <- ctrl.Run(runCtx)
	}()

	_, err := program.Run()
	interrupted := ctx.Err() != nil
	cancel()

	if cerr := <-ctrlErr; cerr != nil {
		slog.Error("Controller stopped with error", "error", cerr)
	}

	if err != nil && !interrupted {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
