// Package streamlog fans log records out to named streams, each with its own
// level filter, console output and hour-rotated segment files.
//
// A [Registry] is built once at startup with [Configure] and closed at
// shutdown. Five streams exist: log, opts, request, response and error.
// Application code uses the emission API on the log stream:
//
//	reg, err := streamlog.Configure(streamlog.Options{
//	    LogPath: "/var/log/app",
//	    Request: &streamlog.StreamOptions{
//	        Console: streamlog.Bool(false),
//	        Name:    "req",
//	        Level:   "warn",
//	    },
//	})
//	if err != nil {
//	    return err // ConfigError or DirectoryError
//	}
//	defer reg.Close()
//
//	reg.Log(streamlog.Text("server started"))
//	reg.Profile("build")
//	// ... work ...
//	reg.Profile("build") // emits {"profile":"build","duration_ms":...}
//
// Host frameworks drive the other streams with [Registry.Emit]:
//
//	reg.Emit(streamlog.StreamRequest, streamlog.LevelWarn,
//	    streamlog.Structured{"path": "/api", "ms": 1200})
//
// # Files
//
// Each enabled, rotating stream writes {name}.{boundary}.log in the log
// directory, for example req.2026-10-18T14.log with the default hourly unit.
// Lines are append-only: `<time> <LEVEL> <stream> <payload>`.
//
// # Failures
//
// Configuration and directory problems fail [Configure]. Sink failures at
// runtime never reach the caller of Emit: they are written to the diagnostic
// logger and published on [Registry.Errors], and delivery to the other sinks
// of the stream continues.
//
// # Thread Safety
//
// A Registry is safe for concurrent use. Records of one stream are written
// in call order; ordering across streams is unspecified.
package streamlog
