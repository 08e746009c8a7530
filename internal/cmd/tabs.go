package cmd

import (
	"context"
	"fmt"
	"strconv"

	"repotabs/internal/domain"
	"repotabs/internal/logging"
)

// TabsCmd manages tabs from the command line
type TabsCmd struct {
	List     TabsListCmd     `cmd:"list" help:"List all tabs" default:"1"`
	Next     TabsNextCmd     `cmd:"next" help:"Switch to the next tab"`
	Previous TabsPreviousCmd `cmd:"prev" aliases:"previous" help:"Switch to the previous tab"`
	Refresh  TabsRefreshCmd  `cmd:"refresh" help:"Rescan workspace roots and refresh VCS status"`
	Switch   TabsSwitchCmd   `cmd:"switch" help:"Switch to a tab by position or id"`
}

// TabsListCmd lists all tabs
type TabsListCmd struct{}

// Run executes the list command
func (t *TabsListCmd) Run(cli *CLI) error {
	ctx := context.Background()
	svc := cli.Container.TabService
	if err := svc.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize tab engine: %w", err)
	}

	tabs := svc.Tabs()
	if len(tabs) == 0 {
		fmt.Println("No repository tabs. Configure workspace_roots in settings.json.")
		return nil
	}

	activeID := svc.ActiveTabID()
	for i, tab := range tabs {
		marker := " "
		if tab.ID == activeID {
			marker = "*"
		}
		line := fmt.Sprintf("%s %d. %s %s", marker, i+1, tab.Icon.Badge(), tab.Name)
		if tab.GitBranch != "" {
			line += "  " + tab.GitBranch
			if tab.GitDirty {
				line += " ±"
			}
		}
		fmt.Println(line)
		fmt.Printf("      %s\n", tab.FolderPath)
	}
	return nil
}

// TabsSwitchCmd switches to a tab
type TabsSwitchCmd struct {
	Target string `arg:"" help:"Tab position (1-based) or tab id"`
}

// Run executes the switch command
func (t *TabsSwitchCmd) Run(cli *CLI) error {
	ctx := context.Background()
	svc := cli.Container.TabService
	if err := svc.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize tab engine: %w", err)
	}

	if n, err := strconv.Atoi(t.Target); err == nil {
		if n < 1 || n > len(svc.Tabs()) {
			return fmt.Errorf("tab position %d out of range (1-%d)", n, len(svc.Tabs()))
		}
		return svc.SwitchToTabByIndex(ctx, n-1)
	}

	found := false
	for _, tab := range svc.Tabs() {
		if tab.ID == t.Target {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrTabNotFound, t.Target)
	}

	logging.Logger.Info("Switching by id", "id", t.Target)
	return svc.SwitchToTab(ctx, t.Target)
}

// TabsNextCmd switches to the next tab
type TabsNextCmd struct{}

// Run executes the next command
func (t *TabsNextCmd) Run(cli *CLI) error {
	ctx := context.Background()
	svc := cli.Container.TabService
	if err := svc.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize tab engine: %w", err)
	}
	return svc.NextTab(ctx)
}

// TabsPreviousCmd switches to the previous tab
type TabsPreviousCmd struct{}

// Run executes the prev command
func (t *TabsPreviousCmd) Run(cli *CLI) error {
	ctx := context.Background()
	svc := cli.Container.TabService
	if err := svc.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize tab engine: %w", err)
	}
	return svc.PreviousTab(ctx)
}

// TabsRefreshCmd rescans the workspace
type TabsRefreshCmd struct{}

// Run executes the refresh command
func (t *TabsRefreshCmd) Run(cli *CLI) error {
	ctx := context.Background()
	svc := cli.Container.TabService
	if err := svc.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize tab engine: %w", err)
	}

	if err := svc.Reconcile(ctx); err != nil {
		return fmt.Errorf("failed to refresh tabs: %w", err)
	}
	fmt.Printf("Refreshed %d tabs\n", len(svc.Tabs()))
	return nil
}
