// Package config loads, normalizes, and validates slidecast configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// NARRATION_API_KEY and PUPPETEER_EXECUTABLE_PATH. The Config type centralizes
// every knob the pipeline stages and CLI need, so the workspace layout,
// branding, narration service, and encoder settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
