// Package tui provides the interactive terminal flow: pick an image,
// classify it, review the result, and browse saved history.
package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ecosnap/ecosnap/internal/engine"
)

// Run starts the interactive flow bound to an engine and blocks until
// the user quits.
func Run(ctx context.Context, eng *engine.Engine) error {
	if eng == nil {
		return fmt.Errorf("engine is required")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cleanupTerminal := func() {
		// Best-effort restore in case the program is torn down by a
		// signal mid-frame.
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
	}
	defer cleanupTerminal()

	program := tea.NewProgram(newModel(eng), tea.WithContext(ctx))

	go func() {
		select {
		case <-sigChan:
			cleanupTerminal()
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running interactive flow: %w", err)
	}
	return nil
}
