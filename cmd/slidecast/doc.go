// Package main hosts the slidecast CLI entrypoint and command graph.
//
// The Cobra command tree exposes one command per pipeline stage (slides,
// narrate, video, build), each taking an optional "module_id slide_id"
// selection, plus record validation, a run listing, ledger status, a
// dependency doctor and configuration scaffolding. Configuration and logger
// setup are resolved once per invocation in commandContext so subcommands
// only translate flags into calls on the internal packages.
package main
