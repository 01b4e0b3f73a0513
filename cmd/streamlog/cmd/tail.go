package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"

	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/logging"
	"github.com/Aman-CERP/streamlog/internal/record"
	"github.com/Aman-CERP/streamlog/internal/ui"
)

type tailOptions struct {
	stream  string
	lines   int
	follow  bool
	level   string
	filter  string
	noColor bool
}

func newTailCmd(flags *globalFlags) *cobra.Command {
	opts := tailOptions{}

	cmd := &cobra.Command{
		Use:   "tail [flags]",
		Short: "Show the last records of a stream",
		Long: `Show the last records of a stream, reading its segment files newest
first. With -f, keep following new records and switch to the next segment
when the stream rolls over.

The stream's file name and the log directory come from the configuration.`,
		Example: `  # Last 50 records of the log stream
  streamlog tail

  # Follow warnings on the request stream
  streamlog -c streamlog.yaml tail --stream request --level warn -f

  # Only records mentioning /api
  streamlog tail --filter '/api'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTail(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.stream, "stream", "s", "log", "Stream to show")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of records to show")
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow new records (like tail -f)")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum level (trace|debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter by pattern (regex)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runTail(cmd *cobra.Command, flags *globalFlags, opts tailOptions) error {
	_, cfg, err := flags.resolve()
	if err != nil {
		return err
	}

	stream := record.StreamName(opts.stream)
	sc, ok := cfg.Stream(stream)
	if !ok {
		return amerrors.UnknownStreamError(opts.stream)
	}

	filter, err := record.ParseFilter(opts.level)
	if err != nil {
		return amerrors.ConfigError("invalid --level", err)
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	color := !opts.noColor && ui.UseColor(cfg.Color, out)
	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   filter,
		Pattern: pattern,
		Color:   color,
	}, out)

	entries, tailErr := viewer.Tail(cfg.LogPath, sc.Name, opts.lines)
	if tailErr != nil && !opts.follow {
		return tailErr
	}
	viewer.Print(entries)

	if !opts.follow {
		return nil
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return runFollow(ctx, cmd, viewer, cfg.LogPath, sc.Name)
}

func runFollow(ctx context.Context, cmd *cobra.Command, viewer *logging.Viewer, dir, name string) error {
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Following %s/%s.*.log (Ctrl+C to stop)\n", dir, name)

	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)

	go func() {
		errCh <- viewer.Follow(ctx, dir, name, entries)
	}()

	for {
		select {
		case entry := <-entries:
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), viewer.FormatEntry(entry))
		case err := <-errCh:
			return err
		case <-ctx.Done():
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Stopped.")
			return nil
		}
	}
}
