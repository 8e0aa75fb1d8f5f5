// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and slide keys
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (external tool, validation, configuration) consistently across stages.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
