// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Prober: duration and existence queries used by the timeline assembler
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
package ffprobe
