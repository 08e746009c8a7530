package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"repotabs/internal/cmd"
	"repotabs/internal/config"
)

// Tagline is the application's tagline used in help text and documentation
const Tagline = "Repository tabs for your editor workspace"

func main() {
	// Load settings from $REPOTABS_HOME/settings.json
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load settings: %v\n", err)
		settings = &config.Settings{} // Use empty settings
	}

	// Parse CLI arguments with Kong.
	// Container is created in CLI.AfterApply() after logging is initialized.
	var cli cmd.CLI
	cli.SetSettings(settings) // Set settings before parsing
	ctx := kong.Parse(&cli,
		kong.Name("repotabs"),
		kong.Description(Tagline),
		kong.Vars{
			"version": cmd.VersionInfo(),
		},
		kong.UsageOnError(),
		kong.Bind(&cli),
	)
	defer cli.Close()

	// Execute the selected command
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
