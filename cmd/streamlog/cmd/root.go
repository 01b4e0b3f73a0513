// Package cmd provides the CLI commands for streamlog.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/streamlog/internal/config"
	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/logging"
	"github.com/Aman-CERP/streamlog/pkg/version"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	debug      bool
}

// NewRootCmd creates the root command for the streamlog CLI.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "streamlog",
		Short: "Stream fan-out logging with hourly rotated segment files",
		Long: `streamlog routes log records to named streams (log, opts, request,
response, error), each with its own level filter, console output and
time-rotated segment files.

The commands here drive the same engine applications embed. Use emit or
bench to write records and tail to read them back across rollovers.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate(version.Program + " version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug diagnostics on stderr")

	cmd.AddCommand(newEmitCmd(flags))
	cmd.AddCommand(newTailCmd(flags))
	cmd.AddCommand(newBenchCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Exit codes returned by the streamlog binary.
const (
	ExitOK      = 0
	ExitFailure = 1
	// ExitSetup means the configuration or log directory is unusable.
	ExitSetup = 2
	// ExitTempFail means a sink write failed; rerunning may succeed (EX_TEMPFAIL).
	ExitTempFail = 75
)

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case amerrors.IsFatal(err):
		return ExitSetup
	case amerrors.IsRetryable(err):
		return ExitTempFail
	default:
		return ExitFailure
	}
}

// loadOptions reads --config (if set), applies environment overrides and
// the --debug flag.
func (f *globalFlags) loadOptions() (config.Options, error) {
	opts, err := config.LoadWithEnv(f.configPath)
	if err != nil {
		return config.Options{}, err
	}
	if f.debug {
		opts.Diagnostics.Level = logging.DebugConfig().Level
	}
	return opts, nil
}

// resolve loads and resolves the configuration.
func (f *globalFlags) resolve() (config.Options, *config.Config, error) {
	opts, err := f.loadOptions()
	if err != nil {
		return config.Options{}, nil, err
	}
	cfg, err := config.Resolve(opts)
	if err != nil {
		return config.Options{}, nil, err
	}
	return opts, cfg, nil
}
