package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	adapterwatcher "repotabs/internal/adapters/watcher"
	"repotabs/internal/logging"
	"repotabs/internal/ui"
)

// RunCmd starts the TUI application
type RunCmd struct {
	Watch bool `help:"Rescan workspace roots when their contents change" default:"true" negatable:""`
}

// Run executes the TUI
func (r *RunCmd) Run(cli *CLI) error {
	logging.Logger.Info("Starting repotabs TUI")

	ctx := context.Background()
	svc := cli.Container.TabService
	if err := svc.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize tab engine: %w", err)
	}

	if r.Watch {
		watcher := adapterwatcher.NewFSWatcher()
		err := watcher.Watch(svc.WorkspaceRoots(), func() {
			if err := svc.Reconcile(context.Background()); err != nil {
				logging.Logger.Warn("Reconcile after filesystem change failed", "error", err)
			}
		})
		if err != nil {
			// Watching is best effort; manual refresh still works
			logging.Logger.Warn("Failed to watch workspace roots", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	program := tea.NewProgram(ui.NewModel(svc, Version), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
