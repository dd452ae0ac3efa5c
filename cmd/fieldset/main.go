package main

import (
	"github.com/dlovans/fieldset/internal/cli"
	"github.com/dlovans/fieldset/internal/commands/eval"
	"github.com/dlovans/fieldset/internal/commands/lint"
	"github.com/dlovans/fieldset/internal/commands/validate"
	versioncmd "github.com/dlovans/fieldset/internal/commands/version"
	"github.com/dlovans/fieldset/internal/commands/watch"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildDate)

	rootCmd := cli.NewRootCommand()

	rootCmd.AddCommand(eval.NewCommand())
	rootCmd.AddCommand(validate.NewCommand())
	rootCmd.AddCommand(lint.NewCommand())
	rootCmd.AddCommand(watch.NewCommand())
	rootCmd.AddCommand(versioncmd.NewCommand())

	if err := rootCmd.Execute(); err != nil {
		cli.HandleExitError(err)
	}
}
