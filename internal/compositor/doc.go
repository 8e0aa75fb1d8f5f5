// Package compositor lays out one slide onto a fixed-size canvas and writes it
// as a PNG.
//
// Every composition carries the header brand mark (fetched remotely and fitted
// within 200x100 at y=20) and the centered footer text at height-50. Body
// content (text lines, an optional supplementary image, an optional rendered
// diagram) is stacked top to bottom and centered vertically as one group in
// the space between header and footer. A body taller than that space starts
// above the header; the overflow is not corrected.
//
// Remote images and diagrams are best-effort: failures are logged and the
// slide is composed without them.
package compositor
