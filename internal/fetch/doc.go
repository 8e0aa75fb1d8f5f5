// Package fetch downloads and decodes remote images referenced by slides.
//
// The Fetcher accepts any HTTPDoer so tests can point it at httptest servers.
// Decoded images are cached per URL for the lifetime of the Fetcher, which
// keeps the header brand mark from being downloaded once per slide.
package fetch
