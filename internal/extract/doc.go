// Package extract splits a slide's raw content blob into display text and the
// optional embedded assets it references.
//
// Rules are applied in a fixed order and each removes its matched span from
// the working text before the next one runs:
//
//  1. a leading "Slide <n>:" label
//  2. the image marker followed by an http(s) URL
//  3. the diagram marker, the word "mermaid", and the rest of the blob
//
// Compose renders the inverse, so Parse(Compose(c)) recovers c for trimmed,
// marker-free text.
package extract
