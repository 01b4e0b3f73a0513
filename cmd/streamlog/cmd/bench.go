package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/logging"
	"github.com/Aman-CERP/streamlog/internal/output"
	"github.com/Aman-CERP/streamlog/internal/profiling"
	"github.com/Aman-CERP/streamlog/pkg/streamlog"
)

// maxBenchErrors bounds the sink error buffer during a bench run.
const maxBenchErrors = 4096

type benchOptions struct {
	stream  string
	records int
	workers int
	async   bool
	profile profiling.Options
}

func newBenchCmd(flags *globalFlags) *cobra.Command {
	opts := benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench [flags]",
		Short: "Generate load against a stream and report throughput",
		Long: `Emit synthetic records to a stream from several goroutines and report
throughput and memory use. Records go to the configured segment files; the
console is discarded.

Profiles of the run can be written for go tool pprof and go tool trace.`,
		Example: `  # 100k records from 8 writers
  streamlog bench --records 100000 --workers 8

  # Async delivery with a CPU profile
  streamlog bench --async --cpuprofile cpu.prof`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.stream, "stream", "s", "log", "Target stream")
	cmd.Flags().IntVarP(&opts.records, "records", "n", 10000, "Total records to emit")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 4, "Concurrent writers")
	cmd.Flags().BoolVar(&opts.async, "async", false, "Queue records per stream instead of writing inline")
	cmd.Flags().StringVar(&opts.profile.CPU, "cpuprofile", "", "Write a CPU profile to this file")
	cmd.Flags().StringVar(&opts.profile.Heap, "memprofile", "", "Write a heap profile to this file")
	cmd.Flags().StringVar(&opts.profile.Trace, "trace", "", "Write an execution trace to this file")

	return cmd
}

func runBench(cmd *cobra.Command, flags *globalFlags, opts benchOptions) error {
	if opts.records <= 0 || opts.workers <= 0 {
		return amerrors.ConfigError("--records and --workers must be positive", nil)
	}

	rawOpts, cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	if opts.async {
		rawOpts.Async.Enabled = true
	}

	diag := cfg.Diagnostics
	diag.Output = cmd.ErrOrStderr()

	reg, err := streamlog.Configure(rawOpts,
		streamlog.WithConsoleWriter(io.Discard),
		streamlog.WithLogger(logging.New(diag)),
		streamlog.WithErrorBuffer(min(opts.records, maxBenchErrors)),
	)
	if err != nil {
		return err
	}

	stream := streamlog.StreamName(opts.stream)
	if !reg.Enabled(stream, streamlog.LevelInfo) {
		_ = reg.Close()
		if _, ok := cfg.Stream(stream); !ok {
			return amerrors.UnknownStreamError(opts.stream)
		}
		return amerrors.ConfigError(fmt.Sprintf("stream %s does not accept info records", opts.stream), nil)
	}

	prof, err := profiling.Start(opts.profile)
	if err != nil {
		_ = reg.Close()
		return err
	}

	before := profiling.MemStats()
	start := time.Now()

	var g errgroup.Group
	for w := 0; w < opts.workers; w++ {
		g.Go(func() error {
			for i := w; i < opts.records; i += opts.workers {
				err := reg.Emit(stream, streamlog.LevelInfo, streamlog.Structured{
					"worker": w,
					"seq":    i,
					"msg":    "bench record",
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	emitErr := g.Wait()
	closeErr := reg.Close()
	elapsed := time.Since(start)

	profErr := prof.Stop()
	after := profiling.MemStats()

	if emitErr != nil {
		return emitErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close segments: %w", closeErr)
	}

	var failures int
	for range reg.Errors() {
		failures++
	}

	out := output.New(cmd.OutOrStdout())
	out.Successf("Emitted %d records to %s in %s", opts.records, opts.stream, elapsed.Round(time.Millisecond))
	out.Statusf("", "Throughput: %.0f records/s", float64(opts.records)/elapsed.Seconds())
	out.Statusf("", "Allocated:  %s", profiling.FormatBytes(after.TotalAlloc-before.TotalAlloc))
	if failures > 0 {
		out.Warningf("%d sink write(s) failed", failures)
	}
	if opts.profile.Enabled() {
		out.Statusf("", "Profiles:   cpu=%q heap=%q trace=%q", opts.profile.CPU, opts.profile.Heap, opts.profile.Trace)
	}

	return profErr
}
