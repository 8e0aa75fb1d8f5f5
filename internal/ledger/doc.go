// Package ledger records produced artifacts and pipeline runs in SQLite.
//
// The ledger is bookkeeping only: stages never read it to decide what to do,
// the filesystem remains the source of truth. `slidecast status` renders it.
//
// Tables:
//   - runs: one row per stage execution with outcome counts and failure kind
//   - artifacts: latest outcome per (module, slide, kind)
package ledger
