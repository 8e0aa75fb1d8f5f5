// Package pipeline drives the slidecast stages over a Run of slides.
//
// A Pipeline owns the per-workspace run lock, stamps every run with a UUID
// that flows through context into logs and scratch names, fans the
// composition and narration stages out over an ants worker pool when
// concurrency is configured, and records per-slide artifacts and run
// outcomes in the SQLite ledger. Per-slide failures in those stages are
// logged and recorded but never abort the run; the video stage is all or
// nothing.
//
// NewFromConfig wires the production collaborators. Tests construct a
// Pipeline with New and fake Composer, Narrator, Prober and VideoMuxer
// implementations.
package pipeline
