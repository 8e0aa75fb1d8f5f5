// Package muxer renders a timeline plan into the final video.
//
// Segments are encoded into a run-scoped scratch directory, joined per track
// with stream copy, and combined with the audio re-encoded. The scratch
// directory is removed on every exit path; narration clips referenced by the
// plan are read in place and never removed. Any encoder failure aborts the mux.
package muxer
