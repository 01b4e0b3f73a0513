package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	amerrors "github.com/Aman-CERP/streamlog/internal/errors"
	"github.com/Aman-CERP/streamlog/internal/logging"
	"github.com/Aman-CERP/streamlog/internal/output"
	"github.com/Aman-CERP/streamlog/pkg/streamlog"
)

type emitOptions struct {
	stream   string
	level    string
	jsonMode bool
}

func newEmitCmd(flags *globalFlags) *cobra.Command {
	opts := emitOptions{}

	cmd := &cobra.Command{
		Use:   "emit [flags] MESSAGE...",
		Short: "Emit records to a stream",
		Long: `Emit one record per MESSAGE to a stream, using the same routing,
filtering and rotation as an embedding application.

Records below the stream's level are dropped silently. The command fails if
any sink could not write a record.`,
		Example: `  # Info record on the log stream
  streamlog emit "server started"

  # Warn record on the request stream with a custom config
  streamlog -c streamlog.yaml emit --stream request --level warn "GET /slow 3.2s"

  # Structured payload
  streamlog emit --json '{"path":"/api","ms":1200}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd, flags, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.stream, "stream", "s", "log", "Target stream: log, opts, request, response, error")
	cmd.Flags().StringVarP(&opts.level, "level", "l", "info", "Record level: trace, debug, info, warn, error")
	cmd.Flags().BoolVar(&opts.jsonMode, "json", false, "Treat each MESSAGE as a JSON object")

	return cmd
}

func runEmit(cmd *cobra.Command, flags *globalFlags, opts emitOptions, args []string) error {
	level, err := streamlog.ParseLevel(opts.level)
	if err != nil {
		return amerrors.ConfigError("invalid --level", err)
	}

	payloads := make([]streamlog.Payload, 0, len(args))
	for _, arg := range args {
		if !opts.jsonMode {
			payloads = append(payloads, streamlog.Text(arg))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(arg), &obj); err != nil {
			return fmt.Errorf("invalid JSON payload %q: %w", arg, err)
		}
		payloads = append(payloads, streamlog.Structured(obj))
	}

	rawOpts, cfg, err := flags.resolve()
	if err != nil {
		return err
	}

	diag := cfg.Diagnostics
	diag.Output = cmd.ErrOrStderr()

	reg, err := streamlog.Configure(rawOpts,
		streamlog.WithConsoleWriter(cmd.OutOrStdout()),
		streamlog.WithLogger(logging.New(diag)),
		streamlog.WithErrorBuffer(len(payloads)*2),
	)
	if err != nil {
		return err
	}

	emitErr := reg.Emit(streamlog.StreamName(opts.stream), level, payloads...)
	closeErr := reg.Close()

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
	if failures > 0 {
		out := output.New(cmd.ErrOrStderr())
		out.Warningf("%d sink write(s) failed, see diagnostics above", failures)
		return amerrors.SinkWriteError("file", opts.stream, fmt.Errorf("%d write(s) failed", failures))
	}

	return nil
}
