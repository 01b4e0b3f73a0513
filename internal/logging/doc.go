// Package logging provides the diagnostic logger used for failures that
// cannot be written to the streams themselves, log directory helpers, and
// a viewer for stream segment files.
//
// Sink write errors, dropped records and profile misuse are reported here,
// on stderr by default, so that a broken log directory never goes unnoticed.
package logging
