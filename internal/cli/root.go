// Package cli implements nightstandctl, a command-line client that works on
// the library database directly.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nightstandapp/nightstand-server/internal/config"
	"github.com/nightstandapp/nightstand-server/internal/di"
	"github.com/nightstandapp/nightstand-server/internal/service"
)

// Opener opens the library for one command invocation. The returned func
// releases it.
type Opener func(cfg *config.Config) (*service.LibraryService, func(), error)

// OpenContainer opens the library through a tool container.
func OpenContainer(cfg *config.Config) (*service.LibraryService, func(), error) {
	injector := di.NewToolContainer(cfg)
	library, err := di.Library(injector)
	if err != nil {
		_ = injector.Shutdown()
		return nil, nil, err
	}
	return library, func() { _ = injector.Shutdown() }, nil
}

type app struct {
	open    Opener
	cfg     *config.Config
	library *service.LibraryService
	release func()
	out     io.Writer

	envFile  string
	dataPath string
	backend  string
	logLevel string
	noColor  bool
	jsonOut  bool
}

// Execute is the entry point called from main.
func Execute() {
	if err := Run(context.Background(), OpenContainer, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// Run executes one command line. The library is released even when the
// command fails.
func Run(ctx context.Context, open Opener, args []string, out, errOut io.Writer) error {
	a := &app{open: open}
	defer func() {
		if a.release != nil {
			a.release()
		}
	}()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "nightstandctl",
		Short: "Track your reading from the command line",
		Long: `nightstandctl manages the reading library stored by the Nightstand server.

Books move from the bag (to read) to the nightstand (reading) to the shelf
(finished). Finishing a book earns experience and unlocks nightstand skins.

Stop the server before writing with the badger backend; it holds an
exclusive lock on the database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "Path to .env file")
	flags.StringVar(&a.dataPath, "data-path", "", "Data directory (default ~/Nightstand/data)")
	flags.StringVar(&a.backend, "store-backend", "", "Storage backend: badger or sqlite")
	flags.StringVar(&a.logLevel, "log-level", "error", "Log level for diagnostic output")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&a.jsonOut, "json", false, "Output as JSON")

	root.AddCommand(
		a.newProfileCmd(),
		a.newBookCmd(),
		a.newSkinsCmd(),
		a.newNightstandCmd(),
		a.newStatsCmd(),
		a.newSearchCmd(),
		a.newExportCmd(),
		a.newBackupCmd(),
		a.newResetCmd(),
	)

	return root
}

// setup loads configuration from the persistent flags and opens the library.
func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	if a.noColor {
		color.NoColor = true
	}

	args := []string{"--env-file", a.envFile, "--log-level", a.logLevel}
	if a.dataPath != "" {
		args = append(args, "--data-path", a.dataPath)
	}
	if a.backend != "" {
		args = append(args, "--store-backend", a.backend)
	}

	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	library, release, err := a.open(cfg)
	if err != nil {
		return fmt.Errorf("opening library: %w", err)
	}
	a.cfg, a.library, a.release = cfg, library, release
	return nil
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	return cmd.Context()
}
