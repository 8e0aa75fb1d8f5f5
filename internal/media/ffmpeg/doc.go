// Package ffmpeg builds and runs the ffmpeg invocations used to render still
// segments, black pauses, and silence, and to join them.
//
// Every segment is encoded with the same codec, pixel format, frame rate, and
// sample rate so the concat demuxer can join them with stream copy.
package ffmpeg
